package file

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload(t *testing.T) {
	tests := []struct {
		name       string
		inputBytes []byte
		status     int
		maxBytes   int64
		wantErr    bool
	}{
		{
			name:       "success",
			inputBytes: []byte("test\n"),
			status:     http.StatusOK,
			wantErr:    false,
		},
		{
			name:       "not found",
			inputBytes: []byte("not found"),
			status:     http.StatusNotFound,
			wantErr:    true,
		},
		{
			name:       "at the limit",
			inputBytes: []byte("12345"),
			status:     http.StatusOK,
			maxBytes:   5,
			wantErr:    false,
		},
		{
			name:       "over the limit",
			inputBytes: []byte(strings.Repeat("x", 64)),
			status:     http.StatusOK,
			maxBytes:   16,
			wantErr:    true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, err := w.Write(tc.inputBytes)
				assert.NoError(t, err)
			}))
			defer srv.Close()

			path := filepath.Join(t.TempDir(), "input")

			err := NewHTTPDownloader(srv.Client(), tc.maxBytes).Download(t.Context(), srv.URL, path)
			if tc.wantErr {
				require.Error(t, err)
				assert.NoFileExists(t, path)
				return
			}

			require.NoError(t, err)

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tc.inputBytes, got)
		})
	}
}

func TestDownloadCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := NewHTTPDownloader(nil, 0).Download(ctx, srv.URL, filepath.Join(t.TempDir(), "input"))
	require.Error(t, err)
}

func TestTempStorage(t *testing.T) {
	base := t.TempDir()
	s := NewTempStorage(base)

	first, err := s.CreateTempDir()
	require.NoError(t, err)
	second, err := s.CreateTempDir()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, base, filepath.Dir(first))
	assert.True(t, strings.HasPrefix(filepath.Base(first), tempDirPrefix))

	stat, err := os.Stat(first)
	require.NoError(t, err)
	assert.True(t, stat.IsDir())
	assert.Equal(t, os.FileMode(0o700), stat.Mode().Perm())

	require.NoError(t, os.WriteFile(filepath.Join(first, "input"), []byte("data"), 0o600))

	s.RemoveTempDir(first)
	s.RemoveTempDir(second)

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTempStorageMissingBase(t *testing.T) {
	s := NewTempStorage(filepath.Join(t.TempDir(), "missing"))

	_, err := s.CreateTempDir()
	require.Error(t, err)
}

func TestNewTempStorageDefaultsToSystemTemp(t *testing.T) {
	assert.Equal(t, os.TempDir(), NewTempStorage("").baseDir)
}
