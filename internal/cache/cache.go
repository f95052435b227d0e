// Package cache provides a tag-aware result cache backed by Badger.
//
// Cached values register under one or more tags at write time. Invalidating a
// tag drops every value registered under it, forcing the next read to
// recompute. Time-based expiry is layered on top as a secondary safety net,
// independent of tag invalidation.
package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Expiry tiers. Tag invalidation is the primary freshness mechanism; these
// bound staleness if an invalidation path is ever missed.
const (
	TTLShort  = time.Minute
	TTLMedium = 5 * time.Minute
	TTLLong   = time.Hour
	TTLStatic = 24 * time.Hour
)

// Key prefixes inside the Badger keyspace.
const (
	valuePrefix = "val/"
	tagPrefix   = "tag/"
)

// Cache wraps a Badger database with tag-indexed entries.
type Cache struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open creates a cache at the given path. An empty path opens an in-memory
// cache, used by tests.
func Open(path string, logger *slog.Logger) (*Cache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable Badger's internal logging
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}

	return &Cache{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Set stores a value under key with the given TTL and registers it under
// every tag. The tag registry entries share the value's TTL so they never
// outlive it.
func (c *Cache) Set(key string, value []byte, ttl time.Duration, tags ...string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(valuePrefix+key), value).WithTTL(ttl)
		if err := txn.SetEntry(entry); err != nil {
			return err
		}
		for _, tag := range tags {
			reg := badger.NewEntry([]byte(tagPrefix+tag+"/"+key), nil).WithTTL(ttl)
			if err := txn.SetEntry(reg); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get retrieves a cached value. The second return is false on a miss.
func (c *Cache) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(valuePrefix + key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %q: %w", key, err)
	}
	return value, true, nil
}

// Invalidate drops every cached value registered under any of the given
// tags. Values registered under multiple tags are dropped when any one of
// them is invalidated.
func (c *Cache) Invalidate(tags ...string) error {
	for _, tag := range tags {
		if err := c.invalidateTag(tag); err != nil {
			return fmt.Errorf("invalidate tag %q: %w", tag, err)
		}
	}
	return nil
}

// invalidateTag removes all values registered under one tag, plus the
// registry entries themselves.
func (c *Cache) invalidateTag(tag string) error {
	prefix := []byte(tagPrefix + tag + "/")

	return c.db.Update(func(txn *badger.Txn) error {
		// Collect first: Badger iterators must be closed before deletes.
		var regKeys [][]byte
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		for it.Rewind(); it.Valid(); it.Next() {
			regKeys = append(regKeys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, regKey := range regKeys {
			cacheKey := string(regKey[len(prefix):])
			if err := txn.Delete([]byte(valuePrefix + cacheKey)); err != nil {
				return err
			}
			if err := txn.Delete(regKey); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetJSON marshals v and stores it under key.
func (c *Cache) SetJSON(key string, v any, ttl time.Duration, tags ...string) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cache value %q: %w", key, err)
	}
	return c.Set(key, data, ttl, tags...)
}

// GetJSON retrieves and unmarshals a cached value into v.
// Returns false on a miss; a corrupt entry is treated as a miss.
func (c *Cache) GetJSON(key string, v any) (bool, error) {
	data, ok, err := c.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		if c.logger != nil {
			c.logger.Warn("dropping corrupt cache entry", "key", key, "error", err)
		}
		return false, nil
	}
	return true, nil
}
