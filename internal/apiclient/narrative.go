package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"nexus-assist/internal/model"
)

// UpsertDraft stores the full field set of a draft under draftID.
func (c *Client) UpsertDraft(ctx context.Context, draftID string, fields model.NarrativeFields) model.Result[model.MessageResponse] {
	fields.DraftID = draftID
	if fields.Exhibits == nil {
		fields.Exhibits = []string{}
	}
	return call[model.MessageResponse](ctx, c, request{
		method: http.MethodPut, path: "/narrative/drafts/" + pathEscape(draftID), body: fields,
		failure: "Failed to save draft",
	})
}

func (c *Client) GetDraft(ctx context.Context, draftID string) model.Result[model.Draft] {
	return call[model.Draft](ctx, c, request{
		method: http.MethodGet, path: "/narrative/drafts/" + pathEscape(draftID),
		success: "Draft fetched successfully", failure: "Failed to fetch draft",
	})
}

func (c *Client) ListDrafts(ctx context.Context, userID string) model.Result[model.DraftListResponse] {
	return call[model.DraftListResponse](ctx, c, request{
		method: http.MethodGet, path: "/narrative/user/" + pathEscape(userID) + "/drafts",
		failure: "Failed to fetch drafts",
	})
}

// GenerateNarrative asks the backend for versionCount narrative versions.
// A versionCount below one requests a single version.
func (c *Client) GenerateNarrative(ctx context.Context, input model.NarrativeFields, versionCount int) model.Result[model.GenerateNarrativeResponse] {
	if versionCount < 1 {
		versionCount = 1
	}
	if input.Exhibits == nil {
		input.Exhibits = []string{}
	}
	return call[model.GenerateNarrativeResponse](ctx, c, request{
		method: http.MethodPost, path: "/narrative/generate",
		body: model.GenerateNarrativeRequest{
			Input:   input,
			Options: model.GenerateOptions{VersionCount: versionCount},
		},
		success: "Narrative generated successfully", failure: "Failed to generate narrative",
	})
}

// ExportNarrative downloads a generated narrative as format (pdf, html, txt).
func (c *Client) ExportNarrative(ctx context.Context, draftID, format string) model.Result[model.Export] {
	return download(ctx, c, request{
		method: http.MethodGet, path: "/narrative/" + pathEscape(draftID) + "/export",
		query:   url.Values{"format": {format}},
		success: "Narrative exported", failure: "Failed to export narrative",
	})
}
