package export

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDoc() Document {
	return Document{
		Title: "Incident Narrative",
		Meta:  []string{"Call sign: Alpha 12", "Date: 2024-03-01"},
		Body:  "I attended 14 Main St (rear).\n\n1. The door was forced.\n2. A crowbar was seized.",
	}
}

func TestRenderText(t *testing.T) {
	out, err := Render(sampleDoc(), "TXT", "narrative 42")
	require.NoError(t, err)

	assert.Equal(t, "text/plain; charset=utf-8", out.ContentType)
	assert.Equal(t, "narrative-42.txt", out.Filename)
	body := string(out.Body)
	assert.True(t, strings.HasPrefix(body, "Incident Narrative\n==================\n"))
	assert.Contains(t, body, "Call sign: Alpha 12\n")
	assert.Contains(t, body, "2. A crowbar was seized.")
}

func TestRenderHTML(t *testing.T) {
	doc := sampleDoc()
	doc.Title = "A <b> title"
	out, err := Render(doc, FormatHTML, "smf")
	require.NoError(t, err)

	body := string(out.Body)
	assert.Equal(t, "smf.html", out.Filename)
	assert.Contains(t, body, "<title>A &lt;b&gt; title</title>")
	assert.Contains(t, body, "<ol>")
	assert.Contains(t, body, "<li>A crowbar was seized.</li>")
}

func TestRenderPDFDefaultFormat(t *testing.T) {
	out, err := Render(sampleDoc(), "", "")
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", out.ContentType)
	assert.Equal(t, "document.pdf", out.Filename)
	assert.True(t, bytes.HasPrefix(out.Body, []byte("%PDF-")))
	assert.Contains(t, string(out.Body), "%%EOF")
}

func TestRenderPDFPaginates(t *testing.T) {
	short := newPDF(sampleDoc(), true)
	require.NoError(t, short.Error())
	assert.Equal(t, 1, short.PageCount())

	// 92 body lines plus the title overflow two pages
	long := newPDF(Document{Title: "Long", Body: strings.Repeat("line\n", 92)}, true)
	require.NoError(t, long.Error())
	assert.Equal(t, 3, long.PageCount())
}

// utf16Text is how a string set in a UTF-8 font appears in an uncompressed
// content stream: UTF-16BE with string delimiters escaped.
func utf16Text(s string) []byte {
	var b []byte
	for _, u := range utf16.Encode([]rune(s)) {
		b = binary.BigEndian.AppendUint16(b, u)
	}
	b = bytes.ReplaceAll(b, []byte(`\`), []byte(`\\`))
	b = bytes.ReplaceAll(b, []byte("("), []byte(`\(`))
	return bytes.ReplaceAll(b, []byte(")"), []byte(`\)`))
}

func TestRenderPDFKeepsNonLatinText(t *testing.T) {
	doc := Document{
		Title: "Statement",
		Meta:  []string{"Officer: Łukasz Nowak"},
		Body:  "Victim Nguyễn Văn An (Ho Chi Minh) spoke to police.",
	}
	pdf := newPDF(doc, false)
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	body := buf.Bytes()

	for _, want := range []string{"Officer: Łukasz Nowak", "Victim Nguyễn Văn An (Ho Chi Minh) spoke to police."} {
		assert.True(t, bytes.Contains(body, utf16Text(want)), "missing %q", want)
	}
	assert.False(t, bytes.Contains(body, utf16Text("Nguy?n")))
	assert.False(t, bytes.Contains(body, utf16Text("?ukasz")))
}

func TestRenderUnsupported(t *testing.T) {
	_, err := Render(sampleDoc(), "docx", "x")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
