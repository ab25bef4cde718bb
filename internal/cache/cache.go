// Package cache stores fetched rule-set bodies keyed by source URL.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"
)

// Store is the cache abstraction injected into the fetcher. A present entry
// is always treated as valid; there is no TTL or staleness check.
type Store interface {
	Get(url string) (string, bool)
	Put(url, body string) error
}

// DirStore keeps one file per source URL under a directory. The key is the
// MD5 hex of the URL, so distinct URLs never collide on disk.
type DirStore struct {
	dir string
}

// NewDirStore creates the cache directory if needed and returns a DirStore.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DirStore{dir: dir}, nil
}

func (s *DirStore) path(url string) string {
	sum := md5.Sum([]byte(url))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".txt")
}

// Get returns the cached body for url, if any.
func (s *DirStore) Get(url string) (string, bool) {
	data, err := os.ReadFile(s.path(url))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Put writes the body for url atomically (tmp file, then rename).
func (s *DirStore) Put(url, body string) error {
	path := s.path(url)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(body), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// MemStore is an in-memory Store for tests and offline runs.
type MemStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{entries: make(map[string]string)}
}

func (s *MemStore) Get(url string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	body, ok := s.entries[url]
	return body, ok
}

func (s *MemStore) Put(url, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[url] = body
	return nil
}
