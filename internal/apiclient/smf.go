package apiclient

import (
	"context"
	"net/http"

	"nexus-assist/internal/model"
)

func (c *Client) GenerateSMF(ctx context.Context, req model.GenerateSMFRequest) model.Result[model.SMF] {
	return call[model.SMF](ctx, c, request{
		method: http.MethodPost, path: "/smf/generate", body: req,
		success: "SMF generated successfully", failure: "Failed to generate SMF",
	})
}

func (c *Client) GetSMF(ctx context.Context, smfID string) model.Result[model.SMF] {
	return call[model.SMF](ctx, c, request{
		method: http.MethodGet, path: "/smf/" + pathEscape(smfID),
		success: "SMF fetched successfully", failure: "Failed to fetch SMF",
	})
}

func (c *Client) ListSMFs(ctx context.Context, userID string) model.Result[model.SMFListResponse] {
	return call[model.SMFListResponse](ctx, c, request{
		method: http.MethodGet, path: "/smf/user/" + pathEscape(userID) + "/smfs",
		success: "User SMFs fetched successfully", failure: "Failed to fetch user SMFs",
	})
}

// ExportSMF renders a stored SMF, or ad-hoc content, as a document.
func (c *Client) ExportSMF(ctx context.Context, req model.ExportSMFRequest) model.Result[model.Export] {
	return download(ctx, c, request{
		method: http.MethodPost, path: "/smf/export", body: req,
		success: "SMF exported", failure: "Failed to export SMF",
	})
}
