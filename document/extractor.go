package document

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv/v2"
	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"
)

const docxMIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Extractor converts raw document bytes into a single text blob, one routine
// per content kind. Extractors keep no state between calls and are safe for
// concurrent use.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract routes a classified document to the extraction routine for its kind.
// Every extractor failure is rewrapped as an *ExtractionFailedError; an
// unknown kind reaching dispatch is one too. The reader's position is restored
// before return so the same payload can be reused by the caller.
func (e *Extractor) Extract(kind ContentKind, r io.ReadSeeker) (string, error) {
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return "", &ExtractionFailedError{Kind: kind, Cause: err}
	}
	defer func() { _, _ = r.Seek(pos, io.SeekStart) }()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", &ExtractionFailedError{Kind: kind, Cause: err}
	}

	var text string
	switch kind {
	case KindPDF:
		text, err = e.ExtractTextFromPDF(data)
	case KindImage:
		text, err = e.ExtractTextFromImage(data)
	case KindDOCX:
		text, err = e.ExtractTextFromDOCX(data)
	case KindText:
		text, err = e.ExtractTextFromPlain(data)
	default:
		err = fmt.Errorf("no extractor registered for kind %q", kind)
	}
	if err != nil {
		return "", &ExtractionFailedError{Kind: kind, Cause: err}
	}
	return text, nil
}

// ExtractTextFromPDF concatenates per-page text in page order, separated by a
// blank line. A page yielding no text contributes an empty segment; a PDF
// whose every page is empty yields "" with no error.
func (e *Extractor) ExtractTextFromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		e.logger.Error("Failed to create PDF reader",
			slog.String("error", err.Error()),
			slog.Int("data_size", len(data)))
		return "", fmt.Errorf("failed to create PDF reader: %v", err)
	}

	totalPage := reader.NumPage()
	e.logger.Debug("Starting PDF text extraction",
		slog.Int("total_pages", totalPage))

	pages := make([]string, 0, totalPage)
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			e.logger.Warn("Null page encountered",
				slog.Int("page_number", pageIndex))
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Error("Failed to extract text from page",
				slog.Int("page_number", pageIndex),
				slog.String("error", err.Error()))
			return "", fmt.Errorf("failed to extract text from page %d: %v", pageIndex, err)
		}
		pages = append(pages, text)
	}

	result := strings.TrimSpace(strings.Join(pages, "\n\n"))
	e.logger.Debug("Extracted text from PDF",
		slog.Int("total_pages", totalPage),
		slog.Int("text_length", len(result)))
	return result, nil
}

// ExtractTextFromDOCX extracts paragraph and table-cell text in document
// order, whitespace-trimmed.
func (e *Extractor) ExtractTextFromDOCX(data []byte) (string, error) {
	e.logger.Debug("Starting DOCX text extraction",
		slog.Int("data_size", len(data)))

	result, err := docconv.Convert(bytes.NewReader(data), docxMIMEType, false)
	if err != nil {
		e.logger.Error("Failed to convert DOCX document",
			slog.String("error", err.Error()),
			slog.Int("data_size", len(data)))
		return "", fmt.Errorf("failed to convert DOCX document: %v", err)
	}

	return strings.TrimSpace(result.Body), nil
}

// ExtractTextFromImage runs OCR over the decoded image once. An image that
// yields only whitespace produces "", not an error. When the OCR engine is
// absent from the build the error wraps ErrOCRUnavailable so callers can tell
// a missing capability apart from a bad image.
func (e *Extractor) ExtractTextFromImage(data []byte) (string, error) {
	mimeType := imageMIMEType(data)
	e.logger.Debug("Starting image OCR",
		slog.String("mime_type", mimeType),
		slog.Int("data_size", len(data)))

	result, err := docconv.Convert(bytes.NewReader(data), mimeType, false)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "ocr") {
			return "", fmt.Errorf("%w: %v", ErrOCRUnavailable, err)
		}
		e.logger.Error("Image OCR failed",
			slog.String("mime_type", mimeType),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("failed to run OCR on image: %v", err)
	}

	return strings.TrimSpace(result.Body), nil
}

// ExtractTextFromPlain decodes raw bytes trying UTF-8 first, then Latin-1,
// finally falling back to UTF-8 with lossy replacement. It never fails.
func (e *Extractor) ExtractTextFromPlain(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	if decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data); err == nil {
		return string(decoded), nil
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}

// imageMIMEType derives the MIME type from the image's magic bytes; the
// filename is long gone by the time dispatch hands bytes to the extractor.
func imageMIMEType(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return "image/jpeg"
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "image/png"
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return "image/gif"
	case bytes.HasPrefix(data, []byte("II*\x00")), bytes.HasPrefix(data, []byte("MM\x00*")):
		return "image/tiff"
	case bytes.HasPrefix(data, []byte{0x42, 0x4D}):
		return "image/bmp"
	default:
		return "image/png"
	}
}
