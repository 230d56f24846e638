package document

import (
	"errors"
	"fmt"
)

// ErrOCRUnavailable marks image extraction failures caused by the OCR engine
// being absent from the build (docconv compiled without its "ocr" build tag)
// rather than by the document itself.
var ErrOCRUnavailable = errors.New("image OCR capability is not available in this build")

// UnsupportedFormatError is returned when neither the filename extension nor
// the leading bytes classify a document into a supported content kind.
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return "unsupported file type: no extension and no recognizable signature. Please upload a PDF, image, DOCX or plain text file"
	}
	return fmt.Sprintf("unsupported file type: %s. Please upload a PDF, image, DOCX or plain text file", e.Extension)
}

// ExtractionFailedError wraps any failure raised by a format extractor, keeping
// the content kind and the original cause for diagnostics. Extractor errors
// never propagate past dispatch unwrapped.
type ExtractionFailedError struct {
	Kind  ContentKind
	Cause error
}

func (e *ExtractionFailedError) Error() string {
	return fmt.Sprintf("failed to extract text from %s document: %v", e.Kind, e.Cause)
}

func (e *ExtractionFailedError) Unwrap() error {
	return e.Cause
}
