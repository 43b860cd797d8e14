// Package imagehost abstracts the external image hosting collaborator.
// Failures surface to callers as-is and are never retried.
package imagehost

import (
	"context"
	"io"
)

// File is an image to be uploaded.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Host stores images and serves them from stable public URLs.
type Host interface {
	// Upload stores the file and returns its public URL.
	Upload(ctx context.Context, file File) (string, error)
	// Delete removes a previously uploaded image by its public URL.
	Delete(ctx context.Context, url string) error
}
