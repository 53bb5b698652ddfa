package services

import (
	"context"

	"github.com/ArowuTest/bridgetunes-raffle/internal/models"
)

// DrawService defines the operations of the live draw engine
type DrawService interface {
	// LoadRoster replaces the remaining pool with a freshly uploaded roster and clears the winners
	LoadRoster(ctx context.Context, filename string, participants []models.Participant) *models.ImportResult

	// Draw samples winners for one gift
	Draw(ctx context.Context, input models.DrawInput) (*models.DrawResult, error)

	// Snapshot returns a consistent view of the pool and the winners
	Snapshot(ctx context.Context) models.Snapshot

	// DeleteWinner removes the first matching winner; it reports whether one was found
	DeleteWinner(ctx context.Context, winner models.Winner) (bool, error)

	// Redraw replaces one winner with a fresh draw of one for the same gift
	Redraw(ctx context.Context, winner models.Winner) (*models.RedrawResult, error)

	// ClearWinners empties the winner list and keeps the roster
	ClearWinners(ctx context.Context)

	// Reset forgets the roster and every winner
	Reset(ctx context.Context)

	// GiftLimits returns the current per-gift limits
	GiftLimits(ctx context.Context) models.GiftLimits
}

// AuthService defines the access-code gate in front of the draw operations
type AuthService interface {
	Enabled() bool
	Login(ctx context.Context, accessCode string) (*models.LoginResponse, error)
	ValidateToken(token string) error
}
