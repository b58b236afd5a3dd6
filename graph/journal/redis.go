package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisJournal stores each run as a Redis hash keyed "<prefix><runID>",
// with one field per Seq holding the JSON-encoded entry. HSETNX makes
// duplicate detection atomic.
//
// The client is owned by the caller; Close does not close it.
type RedisJournal struct {
	client redis.UniversalClient
	prefix string

	mu     sync.RWMutex
	closed bool
}

// NewRedisJournal wraps client. An empty prefix defaults to "fngraph:journal:".
func NewRedisJournal(client redis.UniversalClient, prefix string) *RedisJournal {
	if prefix == "" {
		prefix = "fngraph:journal:"
	}
	return &RedisJournal{client: client, prefix: prefix}
}

func (r *RedisJournal) key(runID string) string {
	return r.prefix + runID
}

// Append implements Journal.
func (r *RedisJournal) Append(ctx context.Context, e Entry) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrClosed
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode journal entry: %w", err)
	}
	ok, err := r.client.HSetNX(ctx, r.key(e.RunID), strconv.Itoa(e.Seq), data).Result()
	if err != nil {
		return fmt.Errorf("failed to append journal entry %s/%d: %w", e.RunID, e.Seq, err)
	}
	if !ok {
		return fmt.Errorf("%w: run %s seq %d", ErrDuplicateEntry, e.RunID, e.Seq)
	}
	return nil
}

// Entries implements Journal.
func (r *RedisJournal) Entries(ctx context.Context, runID string) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ErrClosed
	}

	fields, err := r.client.HGetAll(ctx, r.key(runID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	out := make([]Entry, 0, len(fields))
	for _, raw := range fields {
		var e Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("failed to decode journal entry: %w", err)
		}
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Entry) int { return a.Seq - b.Seq })
	return out, nil
}

// Latest implements Journal.
func (r *RedisJournal) Latest(ctx context.Context, runID string) (Entry, error) {
	entries, err := r.Entries(ctx, runID)
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, ErrNotFound
	}
	return entries[len(entries)-1], nil
}

// Delete removes every entry of runID.
func (r *RedisJournal) Delete(ctx context.Context, runID string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrClosed
	}
	return r.client.Del(ctx, r.key(runID)).Err()
}

// Close implements Journal.
func (r *RedisJournal) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}
