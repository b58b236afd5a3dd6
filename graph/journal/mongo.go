package journal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoJournal stores one document per entry in a MongoDB collection with a
// unique index on (run_id, seq).
//
// The collection's client is owned by the caller; Close does not
// disconnect it.
type MongoJournal struct {
	coll *mongo.Collection

	mu     sync.RWMutex
	closed bool
}

type mongoEntry struct {
	RunID      string    `bson:"run_id"`
	Seq        int       `bson:"seq"`
	NodeID     string    `bson:"node_id"`
	Status     string    `bson:"status"`
	Error      string    `bson:"error,omitempty"`
	DurationNs int64     `bson:"duration_ns"`
	At         time.Time `bson:"at"`
}

// NewMongoJournal ensures the unique index exists and returns the journal.
func NewMongoJournal(ctx context.Context, coll *mongo.Collection) (*MongoJournal, error) {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "run_id", Value: 1}, {Key: "seq", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create journal index: %w", err)
	}
	return &MongoJournal{coll: coll}, nil
}

// Append implements Journal.
func (m *MongoJournal) Append(ctx context.Context, e Entry) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}

	_, err := m.coll.InsertOne(ctx, mongoEntry{
		RunID:      e.RunID,
		Seq:        e.Seq,
		NodeID:     e.NodeID,
		Status:     string(e.Status),
		Error:      e.Error,
		DurationNs: int64(e.Duration),
		At:         e.At,
	})
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: run %s seq %d", ErrDuplicateEntry, e.RunID, e.Seq)
	}
	if err != nil {
		return fmt.Errorf("failed to append journal entry %s/%d: %w", e.RunID, e.Seq, err)
	}
	return nil
}

// Entries implements Journal.
func (m *MongoJournal) Entries(ctx context.Context, runID string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}

	cur, err := m.coll.Find(ctx,
		bson.D{{Key: "run_id", Value: runID}},
		options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	var docs []mongoEntry
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode journal entries: %w", err)
	}
	out := make([]Entry, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.entry())
	}
	return out, nil
}

// Latest implements Journal.
func (m *MongoJournal) Latest(ctx context.Context, runID string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return Entry{}, ErrClosed
	}

	var d mongoEntry
	err := m.coll.FindOne(ctx,
		bson.D{{Key: "run_id", Value: runID}},
		options.FindOne().SetSort(bson.D{{Key: "seq", Value: -1}}),
	).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read latest journal entry: %w", err)
	}
	return d.entry(), nil
}

// Close implements Journal.
func (m *MongoJournal) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (d mongoEntry) entry() Entry {
	return Entry{
		RunID:    d.RunID,
		Seq:      d.Seq,
		NodeID:   d.NodeID,
		Status:   Status(d.Status),
		Error:    d.Error,
		Duration: time.Duration(d.DurationNs),
		At:       d.At.UTC(),
	}
}
