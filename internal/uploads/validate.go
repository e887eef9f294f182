// Package uploads decides whether a selected resume file may be analyzed.
package uploads

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxFileSize is the inclusive upload ceiling in bytes (10 MiB).
const MaxFileSize int64 = 10 << 20

const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeText = "text/plain"
)

// User-facing validation messages.
const (
	MsgUnsupportedType = "Please upload a PDF, DOCX, or TXT file."
	MsgTooLarge        = "File size must be less than 10MB."
)

var allowedContentTypes = map[string]struct{}{
	MediaTypePDF:  {},
	MediaTypeDOCX: {},
	MediaTypeText: {},
}

// ValidationError carries the reason a file was rejected.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Validate checks the declared media type against the allow-list, then the size.
// The file content is never inspected.
func Validate(mediaType string, size int64) error {
	if _, ok := allowedContentTypes[Essence(mediaType)]; !ok {
		return &ValidationError{Reason: MsgUnsupportedType}
	}
	if size > MaxFileSize {
		return &ValidationError{Reason: MsgTooLarge}
	}
	return nil
}

// Essence strips parameters and lower-cases a media type.
func Essence(mediaType string) string {
	mediaType = strings.TrimSpace(mediaType)
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		return parsed
	}
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// Detect sniffs the payload and reports the detected media type and whether it
// disagrees with the declared one. Callers only log the result.
func Detect(data []byte, declared string) (detected string, mismatch bool) {
	mt := mimetype.Detect(data)
	detected = Essence(mt.String())
	declared = Essence(declared)
	if declared == "" {
		return detected, false
	}
	for m := mt; m != nil; m = m.Parent() {
		if Essence(m.String()) == declared {
			return detected, false
		}
	}
	return detected, true
}
