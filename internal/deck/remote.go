package deck

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const (
	cacheEnvVar        = "TABVIEW_CACHE_DIR"
	cacheSubdir        = "tabview/decks"
	cacheTTL           = time.Hour
	partialSuffix      = ".part"
	metaSuffix         = ".meta"
	defaultHTTPTimeout = 30 * time.Second
)

// IsRemote reports whether source names an http(s) deck.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Cache keeps downloaded decks on disk so they can be reopened offline.
type Cache struct {
	dir    string
	client *http.Client
}

type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"lastModified"`
	CachedAt     time.Time `json:"cachedAt"`
	Size         int64     `json:"size"`
}

// NewCache opens the deck cache under $TABVIEW_CACHE_DIR or the user cache
// directory. A nil client gets a default timeout.
func NewCache(client *http.Client) (*Cache, error) {
	dir := os.Getenv(cacheEnvVar)
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = filepath.Join(os.TempDir(), "tabview-cache")
		}
		dir = filepath.Join(base, cacheSubdir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create deck cache: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Cache{dir: dir, client: client}, nil
}

// LoadRemote downloads the deck at deckURL (or reuses the cached copy) and
// loads it like a local file.
func (c *Cache) LoadRemote(ctx context.Context, deckURL string) ([]Page, error) {
	file, err := c.Fetch(ctx, deckURL)
	if err != nil {
		return nil, err
	}
	return Load(file)
}

// Fetch returns the path of a local copy of deckURL. Fresh copies are reused
// without a request; stale ones are revalidated with the stored validators and
// kept when the server cannot be reached.
func (c *Cache) Fetch(ctx context.Context, deckURL string) (string, error) {
	deckPath, metaPath, partialPath, err := c.pathsFor(deckURL)
	if err != nil {
		return "", err
	}

	info, statErr := os.Stat(deckPath)
	if statErr == nil && info.Size() > 0 && time.Since(info.ModTime()) < cacheTTL {
		return deckPath, nil
	}

	meta, _ := readMeta(metaPath)
	if statErr != nil {
		info = nil
	}
	file, err := c.download(ctx, deckURL, deckPath, metaPath, partialPath, meta, info)
	if err == nil {
		return file, nil
	}
	if info != nil && info.Size() > 0 {
		return deckPath, nil
	}
	return "", err
}

func (c *Cache) download(ctx context.Context, deckURL, deckPath, metaPath, partialPath string, meta cacheMeta, current os.FileInfo) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, deckURL, nil)
	if err != nil {
		return "", err
	}
	if current != nil && current.Size() > 0 {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		if current == nil {
			return "", fmt.Errorf("deck download failed: unexpected %s", resp.Status)
		}
		now := time.Now()
		_ = os.Chtimes(deckPath, now, now)
		meta.CachedAt = now.UTC()
		if err := writeMeta(metaPath, meta); err != nil {
			return "", err
		}
		return deckPath, nil
	case http.StatusOK:
		return c.saveBody(resp, deckPath, metaPath, partialPath)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("deck download failed: %s (%s)", resp.Status, string(body))
	}
}

func (c *Cache) saveBody(resp *http.Response, deckPath, metaPath, partialPath string) (string, error) {
	file, err := os.OpenFile(partialPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(partialPath, deckPath); err != nil {
		return "", err
	}

	meta := cacheMeta{
		URL:          resp.Request.URL.String(),
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		CachedAt:     time.Now().UTC(),
	}
	if info, err := os.Stat(deckPath); err == nil {
		meta.Size = info.Size()
	}
	if err := writeMeta(metaPath, meta); err != nil {
		return "", err
	}
	return deckPath, nil
}

// pathsFor keeps the URL's extension on the cached copy so Load picks the
// right format.
func (c *Cache) pathsFor(deckURL string) (string, string, string, error) {
	u, err := url.Parse(deckURL)
	if err != nil {
		return "", "", "", fmt.Errorf("invalid deck url: %w", err)
	}
	sum := sha1.Sum([]byte(deckURL))
	key := hex.EncodeToString(sum[:])
	base := filepath.Join(c.dir, key)
	return base + strings.ToLower(path.Ext(u.Path)), base + metaSuffix, base + partialSuffix, nil
}

func readMeta(path string) (cacheMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cacheMeta{}, err
	}
	var meta cacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheMeta{}, err
	}
	return meta, nil
}

func writeMeta(path string, meta cacheMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
