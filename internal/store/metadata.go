package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/kansouapp/kansou-server/internal/domain"
)

const metadataPrefix = "metadata:isbn:"

// CachedMetadata wraps fetched book metadata with cache info.
type CachedMetadata struct {
	Metadata  *domain.BookMetadata `json:"metadata"`
	FetchedAt time.Time            `json:"fetched_at"`
}

// GetCachedMetadata retrieves cached metadata by normalized ISBN.
// Returns nil, nil when the entry is absent or older than maxAge.
func (s *Store) GetCachedMetadata(ctx context.Context, isbn string, maxAge time.Duration) (*CachedMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := []byte(metadataPrefix + isbn)

	var cached CachedMetadata
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &cached)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached metadata: %w", err)
	}

	// Check if expired
	if time.Since(cached.FetchedAt) > maxAge {
		return nil, nil // Treat as cache miss
	}

	return &cached, nil
}

// SetCachedMetadata stores metadata for a normalized ISBN.
func (s *Store) SetCachedMetadata(ctx context.Context, isbn string, md *domain.BookMetadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cached := CachedMetadata{
		Metadata:  md,
		FetchedAt: time.Now(),
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal cached metadata: %w", err)
	}

	key := []byte(metadataPrefix + isbn)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return fmt.Errorf("set cached metadata: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("metadata cached", "isbn", isbn)
	}
	return nil
}
