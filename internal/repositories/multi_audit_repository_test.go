package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/ArowuTest/bridgetunes-raffle/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAudit struct {
	draws     int
	deletions int
	err       error
}

func (r *recordingAudit) RecordDraw(_ context.Context, entries []models.DrawLogEntry) error {
	if r.err != nil {
		return r.err
	}
	r.draws += len(entries)
	return nil
}

func (r *recordingAudit) RecordDeletion(context.Context, models.DeleteLogEntry) error {
	if r.err != nil {
		return r.err
	}
	r.deletions++
	return nil
}

func TestMultiAuditRepository_PrimaryFailureStops(t *testing.T) {
	primary := &recordingAudit{err: errors.New("disk full")}
	secondary := &recordingAudit{}
	m := NewMultiAuditRepository(primary, secondary)

	err := m.RecordDraw(context.Background(), []models.DrawLogEntry{{}})
	require.Error(t, err)
	assert.Equal(t, 0, secondary.draws)

	err = m.RecordDeletion(context.Background(), models.DeleteLogEntry{})
	require.Error(t, err)
	assert.Equal(t, 0, secondary.deletions)
}

func TestMultiAuditRepository_SecondaryFailureIgnored(t *testing.T) {
	primary := &recordingAudit{}
	broken := &recordingAudit{err: errors.New("mirror offline")}
	healthy := &recordingAudit{}
	m := NewMultiAuditRepository(primary, broken, healthy)

	require.NoError(t, m.RecordDraw(context.Background(), []models.DrawLogEntry{{}, {}}))
	require.NoError(t, m.RecordDeletion(context.Background(), models.DeleteLogEntry{}))

	assert.Equal(t, 2, primary.draws)
	assert.Equal(t, 2, healthy.draws)
	assert.Equal(t, 1, primary.deletions)
	assert.Equal(t, 1, healthy.deletions)
}
