// Package store is a best-effort local key-value store: one file per key
// under a root directory. Persistence never blocks or fails the UI; a read
// that goes wrong reports "not set" and a write that goes wrong leaves a
// warning in the diagnostics log and nothing else.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"coda/log"
)

type KV struct {
	mu  sync.Mutex
	dir string
}

// Open prepares a store rooted at dir. The directory is created eagerly so
// later writes only touch individual key files.
func Open(dir string) *KV {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.StoreError("open", dir, err)
	}
	return &KV{dir: dir}
}

// Dir returns the store's root directory.
func (s *KV) Dir() string { return s.dir }

func (s *KV) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		}
		return '_'
	}, key)
	return filepath.Join(s.dir, safe)
}

// Get reads a key. Any failure, including a missing file, reads as unset.
func (s *KV) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			log.StoreError("get", key, err)
		}
		return "", false
	}
	return string(data), true
}

// Set writes a key. Failures are logged and swallowed.
func (s *KV) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.path(key), []byte(value), 0644); err != nil {
		log.StoreError("set", key, err)
	}
}

// Remove deletes a key. Removing an unset key is a no-op.
func (s *KV) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		log.StoreError("remove", key, err)
	}
}

// Clear deletes every key in the store.
func (s *KV) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		log.StoreError("clear", s.dir, err)
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			log.StoreError("clear", e.Name(), err)
		}
	}
}

// GetJSON decodes a stored JSON value into v. Unset or corrupt values
// report false and leave v untouched by the caller's defaults.
func (s *KV) GetJSON(key string, v any) bool {
	raw, ok := s.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		log.StoreError("decode", key, err)
		return false
	}
	return true
}

// SetJSON encodes v as JSON and stores it.
func (s *KV) SetJSON(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.StoreError("encode", key, err)
		return
	}
	s.Set(key, string(data))
}
