package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/microsoft/skillcheck/internal/generation"
	"github.com/microsoft/skillcheck/internal/models"
)

// entryExt is the on-disk extension for cache entries: JSON compressed with
// zstd. Clear relies on it to recognize files it is allowed to remove.
const entryExt = ".json.zst"

// EncodeAll and DecodeAll on shared instances are safe for concurrent use.
var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

// Cache stores generation results between runs so repeated evaluations of
// unchanged skills skip the generation backend.
type Cache struct {
	dir string
	mu  sync.Mutex
}

// New creates a new cache instance with the specified directory. An empty
// directory disables the cache: Get always misses and Put is a no-op.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// Dir returns the cache directory, or "" when the cache is disabled.
func (c *Cache) Dir() string {
	return c.dir
}

// Key generates a unique cache key for one generation call.
// The key is based on:
// - skill and scenario identity (names, prompt)
// - generation config (model, language, limits)
// - the skill context embedded in the prompt
func Key(skillName string, scenario models.Scenario, config models.GenerationConfig, skillContext string) (string, error) {
	h := sha256.New()

	if err := writeString(h, skillName); err != nil {
		return "", err
	}
	if err := writeString(h, scenario.Name); err != nil {
		return "", err
	}
	if err := writeString(h, scenario.Prompt); err != nil {
		return "", err
	}

	configJSON, err := json.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("marshaling generation config: %w", err)
	}
	if _, err := h.Write(configJSON); err != nil {
		return "", err
	}

	// Edits to SKILL.md or the references change the prompt the backend
	// sees, so they must invalidate cached generations too.
	if err := writeString(h, skillContext); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Get retrieves a cached generation result if it exists. Hits are returned
// with FromCache set.
func (c *Cache) Get(key string) (*generation.GenerationResult, bool) {
	if c.dir == "" {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	compressed, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		// Cache miss
		return nil, false
	}

	data, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		// Corrupt cache entry, treat as miss
		return nil, false
	}

	var result generation.GenerationResult
	if err := json.Unmarshal(data, &result); err != nil {
		// Invalid cache entry, treat as miss
		return nil, false
	}

	result.FromCache = true
	return &result, true
}

// Put stores a generation result in the cache.
func (c *Cache) Put(key string, result *generation.GenerationResult) error {
	if c.dir == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	path := c.entryPath(key)
	if err := os.WriteFile(path, zstdEncoder.EncodeAll(data, nil), 0644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}

	return nil
}

// Clear removes all cached results
func (c *Cache) Clear() error {
	if c.dir == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := os.Stat(c.dir); os.IsNotExist(err) {
		return nil
	}

	// Safety check: only remove a directory that holds nothing but cache
	// entries, so a mistyped cache dir can't wipe arbitrary files.
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("reading cache directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			return fmt.Errorf("cache directory contains subdirectories - refusing to delete for safety")
		}
		if !strings.HasSuffix(entry.Name(), entryExt) {
			return fmt.Errorf("cache directory contains non-cache files - refusing to delete for safety")
		}
	}

	return os.RemoveAll(c.dir)
}

// entryPath returns the file path for a cache key
func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, key+entryExt)
}

func writeString(w io.Writer, s string) error {
	// Write string with null byte delimiter to prevent hash collisions
	_, err := w.Write([]byte(s + "\x00"))
	return err
}
