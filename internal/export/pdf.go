package export

import (
	"bytes"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Letter page in points with one inch margins.
const (
	margin       = 72
	leading      = 14
	titleLeading = 20
	bodySize     = 11
	titleSize    = 16
	fontFamily   = "go"
)

// newPDF lays the document out on Letter pages. Text is set in the embedded
// Go fonts as UTF-8, so names outside Latin-1 survive into the file.
func newPDF(doc Document, compress bool) *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetCompression(compress)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("nexus-assist", true)
	pdf.AddUTF8FontFromBytes(fontFamily, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", gobold.TTF)

	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", titleSize)
	pdf.MultiCell(0, titleLeading, doc.Title, "", "L", false)
	pdf.Ln(leading)

	pdf.SetFont(fontFamily, "", bodySize)
	for _, m := range doc.Meta {
		pdf.MultiCell(0, leading, m, "", "L", false)
	}
	if len(doc.Meta) > 0 {
		pdf.Ln(leading)
	}

	for _, para := range strings.Split(strings.TrimSpace(doc.Body), "\n") {
		para = strings.ReplaceAll(para, "\t", " ")
		if strings.TrimSpace(para) == "" {
			pdf.Ln(leading)
			continue
		}
		pdf.MultiCell(0, leading, para, "", "L", false)
	}
	return pdf
}

func renderPDF(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := newPDF(doc, true).Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
