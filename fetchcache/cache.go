package fetchcache

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// DefaultMaxAge is how long a cached dataset stays fresh. Reference data
// like the national stop registry changes slowly; thirty days keeps the
// converter usable offline between refreshes.
const DefaultMaxAge = 30 * 24 * time.Hour

// DefaultAttempts is how many times a download is retried before the
// fetch fails.
const DefaultAttempts = 3

// Cache fetches named datasets from URLs and keeps them under Root.
// Freshness is judged by file modification time against MaxAge. A file
// lock next to each dataset serializes concurrent downloads, including
// across processes.
type Cache struct {
	Root     string
	MaxAge   time.Duration
	Attempts int
	Client   *http.Client
}

// New returns a Cache rooted at dir with the default freshness window,
// retry count and a generously timed HTTP client for large datasets.
func New(dir string) *Cache {
	return &Cache{
		Root:     dir,
		MaxAge:   DefaultMaxAge,
		Attempts: DefaultAttempts,
		Client:   &http.Client{Timeout: 15 * time.Minute},
	}
}

// Path returns where the named dataset lives (or would live) on disk.
func (c *Cache) Path(name string) string {
	return filepath.Join(c.Root, name)
}

// Fetch returns the local path of the named dataset, downloading it
// from url first unless a fresh copy is already cached. The download is
// written to a temporary file and renamed into place, so readers never
// observe a partial dataset.
func (c *Cache) Fetch(ctx context.Context, url, name string) (string, error) {
	path := c.Path(name)
	if c.fresh(path) {
		return path, nil
	}

	if err := os.MkdirAll(c.Root, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("failed to acquire cache lock for %s: %w", name, err)
	}
	defer lock.Unlock()

	// Another process may have finished the download while we waited.
	if c.fresh(path) {
		return path, nil
	}

	attempts := c.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		log.Printf("Retrieving %s from %s (attempt %d of %d)", name, url, attempt, attempts)
		if err := c.download(ctx, url, path); err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		return path, nil
	}
	return "", fmt.Errorf("failed to retrieve %s after %d attempts: %w", name, attempts, lastErr)
}

// Invalidate removes the cached copy of the named dataset so the next
// Fetch downloads it again.
func (c *Cache) Invalidate(name string) error {
	err := os.Remove(c.Path(name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (c *Cache) fresh(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) <= c.MaxAge
}

func (c *Cache) download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	tmp := path + "." + uuid.NewString() + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write download: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, path)
}
