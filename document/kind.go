package document

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
)

// ContentKind classifies a document's encoding. The set is closed: a document
// is classified exactly once and the kind is never recomputed afterwards.
type ContentKind string

const (
	KindPDF     ContentKind = "pdf"
	KindImage   ContentKind = "image"
	KindDOCX    ContentKind = "docx"
	KindText    ContentKind = "text"
	KindUnknown ContentKind = "unknown"
)

var extensionKinds = map[string]ContentKind{
	".pdf":  KindPDF,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".png":  KindImage,
	".tiff": KindImage,
	".bmp":  KindImage,
	".gif":  KindImage,
	".docx": KindDOCX,
	".txt":  KindText,
}

// Sniff classifies a document from its filename extension, falling back to
// byte-signature sniffing on the leading bytes when the extension is absent or
// unrecognized. The extension always wins when it is recognized. The reader's
// position is restored after peeking; r may be nil to skip signature sniffing.
func Sniff(filename string, r io.ReadSeeker) (ContentKind, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if kind, ok := extensionKinds[ext]; ok {
		return kind, nil
	}

	if r != nil {
		kind, err := sniffSignature(r)
		if err == nil && kind != KindUnknown {
			return kind, nil
		}
	}

	return KindUnknown, &UnsupportedFormatError{Extension: ext}
}

func sniffSignature(r io.ReadSeeker) (ContentKind, error) {
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return KindUnknown, err
	}
	defer func() { _, _ = r.Seek(pos, io.SeekStart) }()

	head := make([]byte, 1024)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return KindUnknown, err
	}
	head = head[:n]

	switch {
	case bytes.HasPrefix(head, []byte("%PDF")):
		return KindPDF, nil
	case bytes.HasPrefix(head, []byte("PK\x03\x04")):
		// ZIP local-file-header magic. Other Office container formats share
		// it, so this classification is approximate.
		return KindDOCX, nil
	case bytes.HasPrefix(head, []byte{0xFF, 0xD8, 0xFF}), // JPEG
		bytes.HasPrefix(head, []byte("\x89PNG\r\n\x1a\n")),
		bytes.HasPrefix(head, []byte("GIF87a")),
		bytes.HasPrefix(head, []byte("GIF89a")),
		bytes.HasPrefix(head, []byte("II*\x00")), // TIFF little-endian
		bytes.HasPrefix(head, []byte("MM\x00*")), // TIFF big-endian
		bytes.HasPrefix(head, []byte{0x42, 0x4D}): // BMP
		return KindImage, nil
	}

	if isPrintableASCII(head) {
		return KindText, nil
	}
	return KindUnknown, nil
}

// isPrintableASCII reports whether every byte is printable ASCII or one of
// the low control characters that occur in real text files (tab through
// carriage return, form feed included). An empty sample qualifies.
func isPrintableASCII(sample []byte) bool {
	for _, b := range sample {
		if b < 0x09 || b > 0x7E {
			return false
		}
	}
	return true
}
