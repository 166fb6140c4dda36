package collide

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type cacheEntry struct {
	Hash      string
	Report    *Report
	CreatedAt time.Time
}

// Cache remembers the last report for each program file together with the
// hash of the content it was computed from.
type Cache struct {
	mutex   sync.Mutex
	entries map[string]cacheEntry
	maxAge  time.Duration
}

// NewCache returns an empty cache. Entries older than maxAge are dropped;
// zero keeps them until the file changes.
func NewCache(maxAge time.Duration) *Cache {
	return &Cache{entries: make(map[string]cacheEntry), maxAge: maxAge}
}

func (c *Cache) Set(path string, report *Report) error {
	hash, err := getFileHash(path)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries[path] = cacheEntry{Hash: hash, Report: report, CreatedAt: time.Now()}
	return nil
}

// Get returns the cached report for path if the file still has the
// content the report was computed from.
func (c *Cache) Get(path string) (*Report, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[path]
	if !exists {
		return nil, false
	}
	if c.isEntryInvalid(path, entry) {
		delete(c.entries, path)
		return nil, false
	}
	return entry.Report, true
}

func (c *Cache) isEntryInvalid(path string, entry cacheEntry) bool {
	if c.maxAge > 0 && time.Since(entry.CreatedAt) > c.maxAge {
		return true
	}
	hash, err := getFileHash(path)
	return err != nil || hash != entry.Hash
}

func (c *Cache) InvalidateAll() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries = make(map[string]cacheEntry)
}

func getFileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
