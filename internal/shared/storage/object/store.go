package object

import (
	"context"
	"io"
)

// Store archives uploaded resumes and their extracted text.
type Store interface {
	// Save writes r under the owner's namespace with a random prefix and
	// returns the storage key, the byte count and the sniffed media type.
	Save(ctx context.Context, ownerID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	// SaveWithKey writes r at an exact storage key.
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
}

// TextKey is the storage key used for the text extracted from the object at key.
func TextKey(key string) string {
	return key + ".extracted.txt"
}
