package ports

import (
	"context"
	"io"
	"time"
)

// ImageUpload is an uploaded file keyed by its original filename.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// ImageStore keeps uploaded report images.
type ImageStore interface {
	// Save stores the upload and returns the generated filename.
	Save(ctx context.Context, upload ImageUpload, at time.Time) (string, error)
}
