package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// FileCache implements Cache using one JSON file per request key. The age of
// an entry is the modification time of its file.
type FileCache struct {
	baseDir string
	log     *zap.SugaredLogger
	now     func() time.Time
}

// NewFileCache creates a new file-based cache in dir, creating it if needed
func NewFileCache(dir string, log *zap.SugaredLogger) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}

	return &FileCache{baseDir: dir, log: log, now: time.Now}, nil
}

// Get retrieves a body from the cache
func (c *FileCache) Get(key string, ttl time.Duration, force bool) (json.RawMessage, error) {
	filename := c.keyToFilename(key)

	info, err := os.Stat(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, c.miss(force)
		}
		return nil, fmt.Errorf("failed to stat cache file: %w", err)
	}

	if !force && c.now().Sub(info.ModTime()) > ttl {
		return nil, ErrCacheMiss
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	if !json.Valid(data) {
		c.log.Warnw("Ignoring corrupted cache entry", "key", key, "file", filename)
		return nil, c.miss(force)
	}

	return json.RawMessage(data), nil
}

// Set stores a body in the cache
func (c *FileCache) Set(key string, body json.RawMessage) error {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		return fmt.Errorf("failed to format cache body: %w", err)
	}

	// Directory may have been removed since startup
	if err := os.MkdirAll(c.baseDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if err := os.WriteFile(c.keyToFilename(key), pretty.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// Close cleans up the cache resources (no-op for file cache)
func (c *FileCache) Close() error {
	return nil
}

func (c *FileCache) miss(force bool) error {
	if force {
		return ErrForcedCacheMiss
	}
	return ErrCacheMiss
}

// keyToFilename maps a request key (already a hex digest) to its file
func (c *FileCache) keyToFilename(key string) string {
	return filepath.Join(c.baseDir, key+".json")
}
