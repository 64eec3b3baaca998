package repositories

import (
	"context"
	"io"
	"time"
)

// ObjectStore archives binary uploads
type ObjectStore interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// TextRecognizer turns an image into raw text. It is an opaque collaborator:
// any failure is reported as an error and no partial text is returned.
type TextRecognizer interface {
	Recognize(ctx context.Context, image []byte, contentType string) (string, error)
}
