// Package cache implements the record query cache: a redis-backed map from
// a filter fingerprint to the last-fetched listing for those criteria.
//
// The cache never serves reads around the backend: every listing request
// still hits the backend. Its job is to remember the last result set per
// criteria so unchanged fetches skip the rewrite, and to be invalidated
// wholesale whenever a mutation or import succeeds.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cedoromal/persons-admin/internal/person"
	"github.com/redis/go-redis/v9"
)

// listingKeyPrefix namespaces cached listings: persons:listing:{fingerprint}
const listingKeyPrefix = "persons:listing:"

// Listing is the keyed listing cache.
type Listing struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListing creates a listing cache on the given redis client.
func NewListing(client *redis.Client, ttl time.Duration) *Listing {
	return &Listing{client: client, ttl: ttl}
}

// Get returns the cached result set for the fingerprint, and whether an
// entry existed.
func (l *Listing) Get(ctx context.Context, fingerprint string) ([]person.Person, bool, error) {
	data, err := l.client.Get(ctx, listingKey(fingerprint)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached listing: %w", err)
	}

	var persons []person.Person
	if err := json.Unmarshal(data, &persons); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached listing: %w", err)
	}
	return persons, true, nil
}

// Store records the result set for the fingerprint. When the stored entry
// already holds an identical payload the write is skipped, so cached
// records are only mutated when the data actually differs.
// Returns whether a write happened.
func (l *Listing) Store(ctx context.Context, fingerprint string, persons []person.Person) (bool, error) {
	data, err := json.Marshal(persons)
	if err != nil {
		return false, fmt.Errorf("marshal listing: %w", err)
	}

	key := listingKey(fingerprint)
	existing, err := l.client.Get(ctx, key).Bytes()
	if err == nil && bytes.Equal(existing, data) {
		return false, nil
	}
	if err != nil && err != redis.Nil {
		return false, fmt.Errorf("read cached listing: %w", err)
	}

	if err := l.client.Set(ctx, key, data, l.ttl).Err(); err != nil {
		return false, fmt.Errorf("store listing: %w", err)
	}
	return true, nil
}

// Invalidate drops every cached listing. Invalidation is keyed by the
// prefix rather than a single fingerprint because any mutation can change
// which criteria a record matches.
func (l *Listing) Invalidate(ctx context.Context) error {
	iter := l.client.Scan(ctx, 0, listingKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan listing keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := l.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate listings: %w", err)
	}
	return nil
}

func listingKey(fingerprint string) string {
	return listingKeyPrefix + fingerprint
}
