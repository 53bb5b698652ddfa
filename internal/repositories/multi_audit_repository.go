package repositories

import (
	"context"

	"github.com/ArowuTest/bridgetunes-raffle/internal/models"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure MultiAuditRepository implements AuditRepository
var _ AuditRepository = (*MultiAuditRepository)(nil)

// MultiAuditRepository writes to a primary audit log and mirrors to secondaries.
// Only the primary decides success; secondary failures are logged.
type MultiAuditRepository struct {
	primary     AuditRepository
	secondaries []AuditRepository
}

// NewMultiAuditRepository creates a MultiAuditRepository
func NewMultiAuditRepository(primary AuditRepository, secondaries ...AuditRepository) *MultiAuditRepository {
	return &MultiAuditRepository{primary: primary, secondaries: secondaries}
}

// RecordDraw writes draw rows to the primary, then to every secondary
func (m *MultiAuditRepository) RecordDraw(ctx context.Context, entries []models.DrawLogEntry) error {
	if err := m.primary.RecordDraw(ctx, entries); err != nil {
		return err
	}
	for _, s := range m.secondaries {
		if err := s.RecordDraw(ctx, entries); err != nil {
			slog.Warn("Secondary audit log rejected draw rows", "error", err, "rows", len(entries))
		}
	}
	return nil
}

// RecordDeletion writes a deletion row to the primary, then to every secondary
func (m *MultiAuditRepository) RecordDeletion(ctx context.Context, entry models.DeleteLogEntry) error {
	if err := m.primary.RecordDeletion(ctx, entry); err != nil {
		return err
	}
	for _, s := range m.secondaries {
		if err := s.RecordDeletion(ctx, entry); err != nil {
			slog.Warn("Secondary audit log rejected deletion row", "error", err)
		}
	}
	return nil
}
