package export

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"nexus-assist/internal/model"

	"github.com/yuin/goldmark"
)

const (
	FormatPDF  = "pdf"
	FormatHTML = "html"
	FormatTXT  = "txt"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// Document is a titled report ready for export. Body is plain text with
// blank lines between paragraphs; numbered lines render as a list in HTML.
type Document struct {
	Title string
	Meta  []string
	Body  string
}

// Render encodes doc in format. The filename is name plus the format's
// extension.
func Render(doc Document, format, name string) (model.Export, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatPDF
	}

	var (
		body        []byte
		contentType string
		err         error
	)
	switch format {
	case FormatPDF:
		body, err = renderPDF(doc)
		contentType = "application/pdf"
	case FormatHTML:
		body, err = renderHTML(doc)
		contentType = "text/html; charset=utf-8"
	case FormatTXT:
		body, contentType = renderText(doc), "text/plain; charset=utf-8"
	default:
		return model.Export{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return model.Export{}, err
	}

	return model.Export{
		ContentType: contentType,
		Filename:    safeName(name) + "." + format,
		Body:        body,
	}, nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func safeName(name string) string {
	name = strings.Trim(unsafeChars.ReplaceAllString(name, "-"), "-.")
	if name == "" {
		return "document"
	}
	return name
}

func renderText(doc Document) []byte {
	var b strings.Builder
	b.WriteString(doc.Title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", len([]rune(doc.Title))))
	b.WriteString("\n")
	for _, m := range doc.Meta {
		b.WriteString(m)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(doc.Body))
	b.WriteString("\n")
	return []byte(b.String())
}

func markdown(doc Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", doc.Title)
	for _, m := range doc.Meta {
		fmt.Fprintf(&b, "%s  \n", m)
	}
	if len(doc.Meta) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(strings.TrimSpace(doc.Body))
	b.WriteString("\n")
	return b.String()
}

func renderHTML(doc Document) ([]byte, error) {
	var content bytes.Buffer
	if err := goldmark.Convert([]byte(markdown(doc)), &content); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>")
	out.WriteString(htmlEscape(doc.Title))
	out.WriteString("</title></head><body>\n")
	out.Write(content.Bytes())
	out.WriteString("</body></html>\n")
	return out.Bytes(), nil
}

var htmlReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func htmlEscape(s string) string {
	return htmlReplacer.Replace(s)
}
