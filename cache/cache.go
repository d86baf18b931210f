// Package cache provides a best-effort TTL cache for feedback responses,
// keyed by content hash, so re-analyzing an identical recording does not
// repeat the LLM call.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"speechcoach/internal/types"
)

// DefaultTTL is how long cached feedback stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// Entry is one cached feedback response.
type Entry struct {
	Feedback  types.Feedback `json:"feedback"`
	Model     string         `json:"model"`
	CreatedAt time.Time      `json:"created_at"`
}

// Cache is a badger-backed key/value store.
type Cache struct {
	db *badger.DB
}

// Open opens (or creates) a cache at the given directory.
func Open(dir string) (*Cache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// GenerateKey derives a stable cache key from its parts.
func GenerateKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0}) // separator so ("ab","c") != ("a","bc")
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the entry for key, or found=false on miss or decode failure.
func (c *Cache) Get(key string) (*Entry, bool) {
	var entry Entry
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if err != nil {
		return nil, false
	}
	return &entry, true
}

// Set stores an entry under key with the given TTL.
func (c *Cache) Set(key string, entry *Entry, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), data).WithTTL(ttl)
		return txn.SetEntry(e)
	})
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
