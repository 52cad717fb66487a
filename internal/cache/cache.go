// Package cache keeps recently fetched dataset listings in a badger
// database so repeated commands against the same dataset skip the network.
//
// Only the raw listing text is stored. Entries expire through badger's TTL,
// and the manifest is always rebuilt from the cached text.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/danieljhkim/aihub/internal/clock"
	"github.com/danieljhkim/aihub/internal/logger"
)

const listingPrefix = "listing/"

// ErrDisabled is returned when a cache is opened with a non-positive TTL.
var ErrDisabled = errors.New("listing cache disabled")

// Entry describes one cached listing.
type Entry struct {
	DatasetKey string    `json:"datasetKey"`
	FetchedAt  time.Time `json:"fetchedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
	Bytes      int       `json:"bytes"`
}

type record struct {
	Text      string    `json:"text"`
	FetchedAt time.Time `json:"fetched_at"`
}

// ListingCache stores listing text keyed by dataset.
type ListingCache struct {
	db    *badger.DB
	ttl   time.Duration
	clock clock.Clock
}

// Open opens (or creates) the on-disk cache in dir.
func Open(dir string, ttl time.Duration) (*ListingCache, error) {
	if ttl <= 0 {
		return nil, ErrDisabled
	}
	opts := badger.DefaultOptions(dir).WithLogger(logger.NewBadgerLogger("cache"))
	return open(opts, ttl)
}

// OpenInMemory opens a cache that lives only as long as the process.
func OpenInMemory(ttl time.Duration) (*ListingCache, error) {
	if ttl <= 0 {
		return nil, ErrDisabled
	}
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(logger.NewBadgerLogger("cache"))
	return open(opts, ttl)
}

func open(opts badger.Options, ttl time.Duration) (*ListingCache, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open listing cache: %w", err)
	}
	return &ListingCache{db: db, ttl: ttl, clock: &clock.RealClock{}}, nil
}

// SetClock replaces the clock used to stamp entries.
func (c *ListingCache) SetClock(clk clock.Clock) {
	c.clock = clk
}

// TTL returns the lifetime of new entries.
func (c *ListingCache) TTL() time.Duration {
	return c.ttl
}

// Close releases the database.
func (c *ListingCache) Close() error {
	return c.db.Close()
}

// Get returns the cached listing of a dataset.
func (c *ListingCache) Get(datasetKey string) (string, bool, error) {
	var rec record
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(listingPrefix + datasetKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cached listing %s: %w", datasetKey, err)
	}
	return rec.Text, true, nil
}

// Put stores a listing with the cache TTL.
func (c *ListingCache) Put(datasetKey, text string) error {
	data, err := json.Marshal(record{Text: text, FetchedAt: c.clock.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to encode listing: %w", err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(listingPrefix+datasetKey), data).WithTTL(c.ttl)
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("failed to cache listing %s: %w", datasetKey, err)
	}
	return nil
}

// Delete drops one dataset's listing.
func (c *ListingCache) Delete(datasetKey string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(listingPrefix + datasetKey))
	})
}

// Entries lists every live listing, ordered by dataset key.
func (c *ListingCache) Entries() ([]Entry, error) {
	var entries []Entry

	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(listingPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var rec record
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}

			e := Entry{
				DatasetKey: strings.TrimPrefix(string(item.Key()), listingPrefix),
				FetchedAt:  rec.FetchedAt,
				Bytes:      len(rec.Text),
			}
			if exp := item.ExpiresAt(); exp > 0 {
				e.ExpiresAt = time.Unix(int64(exp), 0).UTC()
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list cached listings: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].DatasetKey < entries[j].DatasetKey
	})
	return entries, nil
}

// Clear removes every cached listing.
func (c *ListingCache) Clear() error {
	if err := c.db.DropPrefix([]byte(listingPrefix)); err != nil {
		return fmt.Errorf("failed to clear listing cache: %w", err)
	}
	return nil
}
