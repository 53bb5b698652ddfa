package repositories

import (
	"context"
	"errors"

	"github.com/ArowuTest/bridgetunes-raffle/internal/models"
)

// ErrLimitsNotFound is returned when no gift limit file has been written yet
var ErrLimitsNotFound = errors.New("gift limits not found")

// GiftLimitRepository persists the per-gift winner limits
type GiftLimitRepository interface {
	Load(ctx context.Context) (models.GiftLimits, error)
	Save(ctx context.Context, limits models.GiftLimits) error
}

// AuditRepository records draws and deletions. Rows are append-only.
type AuditRepository interface {
	RecordDraw(ctx context.Context, entries []models.DrawLogEntry) error
	RecordDeletion(ctx context.Context, entry models.DeleteLogEntry) error
}
