package domain

import "context"

// MediaStore abstracts durable storage for uploaded media files.
//
// Upload consumes a local temporary file and returns a durable URL.
// Implementations must remove the local file on both success and failure;
// callers never clean up after an Upload call.
type MediaStore interface {
	Upload(ctx context.Context, localPath string) (string, error)
}
