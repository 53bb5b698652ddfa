package mongodb

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ArowuTest/bridgetunes-raffle/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeCollection struct {
	mu   sync.Mutex
	docs []interface{}
	err  error
}

func (f *fakeCollection) InsertMany(_ context.Context, documents []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.docs = append(f.docs, documents...)
	return &mongo.InsertManyResult{}, nil
}

func (f *fakeCollection) inserted() []interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]interface{}(nil), f.docs...)
}

func testWinner(license, gift string) models.Winner {
	return models.Winner{
		Participant: models.Participant{LicenseNumber: license, Name: "Name " + license},
		Gift:        gift,
	}
}

func TestAuditMirror_WritesQueuedRowsOnClose(t *testing.T) {
	coll := &fakeCollection{}
	m := newAuditMirror(coll, 8, time.Second)
	m.Start()
	ctx := context.Background()
	ts := time.Now()

	require.NoError(t, m.RecordDraw(ctx, []models.DrawLogEntry{
		{Timestamp: ts, Filename: "roster.xlsx", Winner: testWinner("L1", "4등 커피머신")},
		{Timestamp: ts, Filename: "roster.xlsx", Winner: testWinner("L2", "4등 커피머신")},
	}))
	require.NoError(t, m.RecordDeletion(ctx, models.DeleteLogEntry{Timestamp: ts, Winner: testWinner("L1", "4등 커피머신")}))
	require.NoError(t, m.Close(ctx))

	docs := coll.inserted()
	require.Len(t, docs, 3)
	first := docs[0].(auditDocument)
	assert.Equal(t, auditKindDraw, first.Kind)
	assert.Equal(t, "roster.xlsx", first.Filename)
	assert.Equal(t, "L1", first.Winner.LicenseNumber)
	last := docs[2].(auditDocument)
	assert.Equal(t, auditKindDelete, last.Kind)
}

func TestAuditMirror_QueueFull(t *testing.T) {
	m := newAuditMirror(&fakeCollection{}, 1, time.Second)
	ctx := context.Background()
	entry := []models.DrawLogEntry{{Winner: testWinner("L1", "gift")}}

	require.NoError(t, m.RecordDraw(ctx, entry))
	assert.ErrorIs(t, m.RecordDraw(ctx, entry), ErrMirrorQueueFull)
}

func TestAuditMirror_RejectsAfterClose(t *testing.T) {
	m := newAuditMirror(&fakeCollection{}, 4, time.Second)
	m.Start()
	require.NoError(t, m.Close(context.Background()))
	require.NoError(t, m.Close(context.Background()))

	err := m.RecordDeletion(context.Background(), models.DeleteLogEntry{Winner: testWinner("L1", "gift")})
	assert.ErrorIs(t, err, ErrMirrorClosed)
}

func TestAuditMirror_InsertFailureDoesNotStopWorker(t *testing.T) {
	coll := &fakeCollection{err: errors.New("no primary")}
	m := newAuditMirror(coll, 4, time.Second)
	m.Start()

	require.NoError(t, m.RecordDraw(context.Background(), []models.DrawLogEntry{{Winner: testWinner("L1", "gift")}}))
	require.NoError(t, m.Close(context.Background()))
	assert.Empty(t, coll.inserted())
}

func TestAuditMirror_EmptyDrawSkipsQueue(t *testing.T) {
	m := newAuditMirror(&fakeCollection{}, 1, time.Second)
	require.NoError(t, m.RecordDraw(context.Background(), nil))
	assert.Len(t, m.queue, 0)
}
