package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"remoteimages/internal/core/domain"
	"remoteimages/internal/metrics"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

// DownloadFile returns the byte content of a file on a provided URL.
func DownloadFile(ctx context.Context, client *http.Client, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		err = fmt.Errorf("error creating request %w", err)
		log.Error().Err(err).Str("path", path).Send()
		return nil, err
	}

	res, err := client.Do(req)
	if err != nil {
		err = fmt.Errorf("error executing request %w", err)
		log.Error().Err(err).Str("path", path).Send()
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		err = &domain.UpstreamError{URL: path, Status: res.StatusCode}
		log.Error().Err(err).Str("path", path).Send()
		return nil, err
	}

	buf, err := io.ReadAll(res.Body)
	if err != nil {
		err = fmt.Errorf("error reading response %w", err)
		log.Error().Err(err).Str("path", path).Send()
		return nil, err
	}

	return buf, nil
}

// CachingFetcher downloads remote files and keeps a copy in a cache directory,
// so repeated builds do not hit the network for the same URL.
type CachingFetcher struct {
	client   *http.Client
	cacheDir string
}

// NewCachingFetcher returns a fetcher caching into cacheDir. An empty cacheDir disables caching.
func NewCachingFetcher(client *http.Client, cacheDir string) (*CachingFetcher, error) {
	if client == nil {
		client = &http.Client{}
	}

	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating cache dir %w", err)
		}
	}

	return &CachingFetcher{client: client, cacheDir: cacheDir}, nil
}

func (f *CachingFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.cacheDir == "" {
		return f.download(ctx, url)
	}

	path := f.cachePath(url)

	buf, err := GetCachedFile(path)
	if err == nil {
		log.Debug().Str("url", url).Str("path", path).Msg("cache hit")
		metrics.RecordPlaceholderFetch("hit")
		return buf, nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Str("path", path).Msg("could not read cached file, downloading")
	}

	buf, err = f.download(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := SaveCachedFile(path, buf); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("could not cache file")
	}

	return buf, nil
}

func (f *CachingFetcher) download(ctx context.Context, url string) ([]byte, error) {
	buf, err := DownloadFile(ctx, f.client, url)
	if err != nil {
		metrics.RecordPlaceholderFetch("error")
		return nil, err
	}

	metrics.RecordPlaceholderFetch("miss")
	return buf, nil
}

func (f *CachingFetcher) cachePath(url string) string {
	return filepath.Join(f.cacheDir, uuid.NewV5(uuid.NamespaceURL, url).String())
}

// SaveCachedFile writes data to path through a temp file in the same directory,
// so concurrent readers never see a partial file.
func SaveCachedFile(path string, data []byte) error {
	log.Debug().Int("bytes", len(data)).Str("path", path).Msg("creating cache file")

	f, err := os.CreateTemp(filepath.Dir(path), ".fetch-*")
	if err != nil {
		return fmt.Errorf("error creating temp file %w", err)
	}

	tmp := f.Name()
	defer RemoveTempFile(tmp)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("error writing temp file %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing temp file %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("error moving cache file %w", err)
	}

	return nil
}

// GetCachedFile retrieves a cached file by its path, as written by SaveCachedFile().
func GetCachedFile(path string) ([]byte, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading cache file %w", err)
	}

	return buf, nil
}

// RemoveTempFile removes a specified temporary file if it still exists.
func RemoveTempFile(path string) {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("path", path).Err(err).Msg("could not clean up temp file")
		return
	}
}
