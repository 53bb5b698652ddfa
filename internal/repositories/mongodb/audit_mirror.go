package mongodb

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ArowuTest/bridgetunes-raffle/internal/models"
	"github.com/ArowuTest/bridgetunes-raffle/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AuditMirror implements repositories.AuditRepository
var _ repositories.AuditRepository = (*AuditMirror)(nil)

var (
	ErrMirrorQueueFull = errors.New("audit mirror queue is full")
	ErrMirrorClosed    = errors.New("audit mirror is closed")
)

const (
	auditKindDraw   = "DRAW"
	auditKindDelete = "DELETE"
)

// auditDocument is the shape of one mirrored audit row
type auditDocument struct {
	Kind      string        `bson:"kind"`
	Timestamp time.Time     `bson:"timestamp"`
	Filename  string        `bson:"filename,omitempty"`
	Winner    models.Winner `bson:"winner"`
	CreatedAt time.Time     `bson:"createdAt"`
}

type insertManyCollection interface {
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
}

// AuditMirror copies audit rows into a MongoDB collection.
// Record calls only enqueue, so they never wait on the network; a background
// worker started with Start performs the inserts.
type AuditMirror struct {
	collection insertManyCollection
	queue      chan []interface{}
	timeout    time.Duration

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewAuditMirror creates an AuditMirror writing into db.collectionName
func NewAuditMirror(db *mongo.Database, collectionName string, bufferSize int) *AuditMirror {
	return newAuditMirror(db.Collection(collectionName), bufferSize, 5*time.Second)
}

func newAuditMirror(collection insertManyCollection, bufferSize int, timeout time.Duration) *AuditMirror {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &AuditMirror{
		collection: collection,
		queue:      make(chan []interface{}, bufferSize),
		timeout:    timeout,
		done:       make(chan struct{}),
	}
}

// Start launches the insert worker
func (m *AuditMirror) Start() {
	go m.run()
}

func (m *AuditMirror) run() {
	defer close(m.done)
	for docs := range m.queue {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		_, err := m.collection.InsertMany(ctx, docs)
		cancel()
		if err != nil {
			slog.Error("Failed to mirror audit rows to MongoDB", "error", err, "rows", len(docs))
		}
	}
}

// Close stops accepting rows and waits for queued rows to be written or ctx to expire.
// Start must have been called.
func (m *AuditMirror) Close(ctx context.Context) error {
	m.mu.Lock()
	if !m.closed {
		m.closed = true
		close(m.queue)
	}
	m.mu.Unlock()

	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RecordDraw enqueues one document per drawn winner
func (m *AuditMirror) RecordDraw(_ context.Context, entries []models.DrawLogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	now := time.Now()
	docs := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, auditDocument{
			Kind:      auditKindDraw,
			Timestamp: e.Timestamp,
			Filename:  e.Filename,
			Winner:    e.Winner,
			CreatedAt: now,
		})
	}
	return m.enqueue(docs)
}

// RecordDeletion enqueues the deletion document
func (m *AuditMirror) RecordDeletion(_ context.Context, entry models.DeleteLogEntry) error {
	return m.enqueue([]interface{}{auditDocument{
		Kind:      auditKindDelete,
		Timestamp: entry.Timestamp,
		Winner:    entry.Winner,
		CreatedAt: time.Now(),
	}})
}

func (m *AuditMirror) enqueue(docs []interface{}) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrMirrorClosed
	}
	select {
	case m.queue <- docs:
		return nil
	default:
		return ErrMirrorQueueFull
	}
}
