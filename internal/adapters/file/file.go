package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

const tempDirPrefix = "webpbot-"

var ErrTooLarge = errors.New("download exceeds size limit")

// HTTPDownloader streams remote files to disk.
type HTTPDownloader struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPDownloader returns a downloader refusing bodies larger than maxBytes. A zero maxBytes
// disables the limit.
func NewHTTPDownloader(client *http.Client, maxBytes int64) *HTTPDownloader {
	if client == nil {
		client = &http.Client{}
	}

	return &HTTPDownloader{client: client, maxBytes: maxBytes}
}

// Download writes the body of url to path. A failed download leaves no file behind.
func (d *HTTPDownloader) Download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	res, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("error executing request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code on download: %d", res.StatusCode)
	}

	if d.maxBytes > 0 && res.ContentLength > d.maxBytes {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, res.ContentLength)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}

	var body io.Reader = res.Body
	if d.maxBytes > 0 {
		body = io.LimitReader(res.Body, d.maxBytes+1)
	}

	n, err := io.Copy(f, body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}

	if err == nil && d.maxBytes > 0 && n > d.maxBytes {
		err = fmt.Errorf("%w: more than %d bytes", ErrTooLarge, d.maxBytes)
	}

	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("error writing file: %w", err)
	}

	log.Debug().Int64("bytes", n).Str("path", path).Msg("downloaded file")

	return nil
}

// TempStorage hands out private scratch directories below a base directory.
type TempStorage struct {
	baseDir string
}

// NewTempStorage returns a TempStorage rooted at baseDir, or at the system temp dir when empty.
func NewTempStorage(baseDir string) *TempStorage {
	if baseDir == "" {
		baseDir = os.TempDir()
	}

	return &TempStorage{baseDir: baseDir}
}

func (s *TempStorage) CreateTempDir() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.baseDir, tempDirPrefix+id.String())

	if err := os.Mkdir(path, 0o700); err != nil {
		err = fmt.Errorf("error creating temp dir: %w", err)
		log.Error().Err(err).Send()
		return "", err
	}

	log.Debug().Str("path", path).Msg("created temp dir")

	return path, nil
}

// RemoveTempDir removes a directory and its contents, logging success or failure.
func (s *TempStorage) RemoveTempDir(path string) {
	err := os.RemoveAll(path)
	if err != nil {
		log.Warn().Str("path", path).Err(err).Msg("could not clean up temp dir")
		return
	}

	log.Debug().Str("path", path).Msg("cleaned up temp dir")
}
