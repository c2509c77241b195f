package datastore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"avstream/internal/logging"
)

// Cache resolves object references to local paths, fetching remote objects
// at most once.
type Cache struct {
	dir     string
	ledger  *ledger
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// Options configures cache construction.
type Options struct {
	// Dir is the cache directory; created if absent.
	Dir string
	// FetchTimeout bounds a single remote download.
	FetchTimeout time.Duration
	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
	// Logger receives fetch and prune events.
	Logger *slog.Logger
}

// Open prepares the cache directory and its ledger.
func Open(opts Options) (*Cache, error) {
	dir := strings.TrimSpace(opts.Dir)
	if dir == "" {
		return nil, errors.New("datastore: cache dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("datastore: ensure cache dir: %w", err)
	}

	ledger, err := openLedger(filepath.Join(dir, "cache.db"))
	if err != nil {
		return nil, err
	}

	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	return &Cache{
		dir:     dir,
		ledger:  ledger,
		client:  client,
		timeout: timeout,
		logger:  logging.NewComponentLogger(opts.Logger, "datastore"),
	}, nil
}

// Close releases the ledger database.
func (c *Cache) Close() error {
	return c.ledger.close()
}

// IsRemote reports whether the reference is a fetchable URL rather than a
// local path.
func IsRemote(ref string) bool {
	parsed, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return parsed.Scheme == "http" || parsed.Scheme == "https"
}

// Resolve maps an object reference to a local path, fetching and caching
// remote objects. Local paths pass through untouched.
func (c *Cache) Resolve(ctx context.Context, ref string) (string, error) {
	if !IsRemote(ref) {
		return ref, nil
	}
	return c.fetch(ctx, ref)
}

func (c *Cache) fetch(ctx context.Context, rawURL string) (string, error) {
	target := filepath.Join(c.dir, objectFileName(rawURL))
	if _, err := os.Stat(target); err == nil {
		return target, nil
	}

	// Only one process downloads; the rest wait on the sidecar lock and
	// find the object in place.
	lock := flock.New(target + ".lock")
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("datastore: lock %q: %w", rawURL, err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if _, err := os.Stat(target); err == nil {
		return target, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("datastore: build request for %q: %w", rawURL, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("datastore: fetch %q: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("datastore: fetch %q: unexpected status %s", rawURL, resp.Status)
	}

	staging := filepath.Join(c.dir, fmt.Sprintf(".avstream-%s.tmp", uuid.NewString()))
	file, err := os.Create(staging)
	if err != nil {
		return "", fmt.Errorf("datastore: stage %q: %w", rawURL, err)
	}
	size, err := io.Copy(file, resp.Body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(staging)
		return "", fmt.Errorf("datastore: download %q: %w", rawURL, err)
	}
	if err := os.Rename(staging, target); err != nil {
		_ = os.Remove(staging)
		return "", fmt.Errorf("datastore: commit %q: %w", rawURL, err)
	}

	if err := c.ledger.record(ctx, rawURL, target, size); err != nil {
		return "", err
	}
	c.logger.InfoContext(ctx, "cached remote object",
		slog.String("url", rawURL),
		slog.String("path", target),
		slog.Int64("size_bytes", size),
	)
	return target, nil
}

// Stats reports cache occupancy from the ledger.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	return c.ledger.stats(ctx)
}

// Prune removes oldest objects until the cache fits maxBytes. It returns
// the number of objects removed and the bytes freed.
func (c *Cache) Prune(ctx context.Context, maxBytes int64) (int, int64, error) {
	stats, err := c.ledger.stats(ctx)
	if err != nil {
		return 0, 0, err
	}
	if maxBytes < 0 || stats.TotalBytes <= maxBytes {
		return 0, 0, nil
	}

	entries, err := c.ledger.oldest(ctx)
	if err != nil {
		return 0, 0, err
	}

	var removed int
	var freed int64
	remaining := stats.TotalBytes
	for _, entry := range entries {
		if remaining <= maxBytes {
			break
		}
		if err := os.Remove(entry.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, freed, fmt.Errorf("datastore: remove %q: %w", entry.Path, err)
		}
		if err := c.ledger.delete(ctx, entry.URL); err != nil {
			return removed, freed, err
		}
		removed++
		freed += entry.Size
		remaining -= entry.Size
		c.logger.InfoContext(ctx, "pruned cached object",
			slog.String("url", entry.URL),
			slog.Int64("size_bytes", entry.Size),
		)
	}
	return removed, freed, nil
}

// objectFileName derives a stable cache file name from the URL: a content
// hash prefix plus the original basename for debuggability.
func objectFileName(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	base := "object"
	if parsed, err := url.Parse(rawURL); err == nil {
		if candidate := filepath.Base(parsed.Path); candidate != "." && candidate != "/" && candidate != "" {
			base = candidate
		}
	}
	return hex.EncodeToString(sum[:8]) + "-" + base
}
