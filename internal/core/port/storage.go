package port

import "context"

type Downloader interface {
	// Download fetches url and writes the body to path.
	Download(ctx context.Context, url, path string) error
}

type TempStorage interface {
	// CreateTempDir creates a new, empty directory private to the caller.
	CreateTempDir() (string, error)
	// RemoveTempDir deletes a directory returned by CreateTempDir together with its contents.
	RemoveTempDir(path string)
}
