package document

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestExtractTextFromPlain(t *testing.T) {
	extractor := NewExtractor(nil)

	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{"valid utf8", []byte("héllo wörld"), "héllo wörld"},
		{"plain ascii", []byte("invoice total 42"), "invoice total 42"},
		{"latin1 bytes", []byte{'c', 'a', 'f', 0xE9}, "café"},
		{"empty input", []byte{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := extractor.ExtractTextFromPlain(tt.data)
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if text != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, text)
			}
		})
	}
}

func TestExtractUnknownKind(t *testing.T) {
	extractor := NewExtractor(nil)

	_, err := extractor.Extract(KindUnknown, bytes.NewReader([]byte("data")))
	if err == nil {
		t.Fatal("Expected an error for unknown kind, got none")
	}

	var failed *ExtractionFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("Expected ExtractionFailedError, got %T", err)
	}
	if failed.Kind != KindUnknown {
		t.Errorf("Expected kind %q in error, got %q", KindUnknown, failed.Kind)
	}
}

func TestExtractRewrapsPDFFailure(t *testing.T) {
	extractor := NewExtractor(nil)

	_, err := extractor.Extract(KindPDF, bytes.NewReader([]byte("not a pdf at all")))
	if err == nil {
		t.Fatal("Expected an error for malformed PDF, got none")
	}

	var failed *ExtractionFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("Expected ExtractionFailedError, got %T", err)
	}
	if failed.Kind != KindPDF {
		t.Errorf("Expected kind %q in error, got %q", KindPDF, failed.Kind)
	}
	if failed.Cause == nil {
		t.Error("Expected the underlying cause to be preserved")
	}
}

func TestExtractRestoresReaderPosition(t *testing.T) {
	extractor := NewExtractor(nil)

	r := bytes.NewReader([]byte("prefix|the actual document body"))
	if _, err := r.Seek(7, io.SeekStart); err != nil {
		t.Fatal(err)
	}

	text, err := extractor.Extract(KindText, r)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if text != "the actual document body" {
		t.Errorf("Expected extraction from current position, got %q", text)
	}

	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		t.Fatal(err)
	}
	if pos != 7 {
		t.Errorf("Expected reader position restored to 7, got %d", pos)
	}
}

func TestExtractTextFromPDFEmptyPages(t *testing.T) {
	extractor := NewExtractor(nil)

	// A structurally valid single-page PDF whose page carries no text.
	text, err := extractor.ExtractTextFromPDF(buildEmptyPagePDF(t))
	if err != nil {
		t.Fatalf("Expected no error for a text-free PDF, got: %v", err)
	}
	if text != "" {
		t.Errorf("Expected empty result for a text-free PDF, got %q", text)
	}
}

// buildEmptyPagePDF assembles a minimal one-page PDF with an empty content
// stream, computing the cross-reference offsets as objects are appended.
func buildEmptyPagePDF(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	var offsets []int
	addObject := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	addObject("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	addObject("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	addObject("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R >>\nendobj\n")
	addObject("4 0 obj\n<< /Length 0 >>\nstream\nendstream\nendobj\n")

	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xrefPos)
	return buf.Bytes()
}

func TestExtractTextFromDOCX(t *testing.T) {
	extractor := NewExtractor(nil)

	docx := buildTestDocx(t, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph A</w:t></w:r></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Cell X</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Cell Y</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
    <w:p><w:r><w:t>Second paragraph B</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	text, err := extractor.ExtractTextFromDOCX(docx)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	for _, want := range []string{"First paragraph A", "Cell X", "Cell Y", "Second paragraph B"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected extracted text to contain %q, got %q", want, text)
		}
	}

	// Paragraphs and table cells come out in document order.
	posA := strings.Index(text, "First paragraph A")
	posX := strings.Index(text, "Cell X")
	posY := strings.Index(text, "Cell Y")
	posB := strings.Index(text, "Second paragraph B")
	if !(posA < posX && posX < posY && posY < posB) {
		t.Errorf("Expected document order A < X < Y < B, got positions %d %d %d %d", posA, posX, posY, posB)
	}
}

func buildTestDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
