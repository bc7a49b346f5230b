package shared

import (
	"context"
	"io"
)

// File is an uploaded blob as received from a multipart form.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Uploader stores a file and returns the URL it is publicly reachable at.
type Uploader interface {
	Upload(ctx context.Context, file File) (string, error)
}

// Remover is implemented by uploaders that can delete a file they stored,
// given the URL Upload returned.
type Remover interface {
	Remove(ctx context.Context, url string) error
}
