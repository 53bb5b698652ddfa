package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ArowuTest/bridgetunes-raffle/internal/models"
	"github.com/ArowuTest/bridgetunes-raffle/internal/repositories"
	"github.com/ArowuTest/bridgetunes-raffle/internal/utils"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure DrawServiceImpl implements DrawService
var _ DrawService = (*DrawServiceImpl)(nil)

// DrawServiceImpl holds the state of one live draw event.
//
// A single mutex guards the remaining pool, the winner list and the gift
// limits. The quota check and the pool mutation of a draw must happen under
// the same critical section, so the lock is kept coarse.
type DrawServiceImpl struct {
	mu            sync.Mutex
	remaining     []models.Participant
	selected      []models.Winner
	limits        models.GiftLimits
	filename      string
	lastDrawCount int

	limitRepo repositories.GiftLimitRepository
	auditRepo repositories.AuditRepository
	sampler   utils.Sampler
	now       func() time.Time
}

// NewDrawService creates a DrawServiceImpl starting from the default gift limits
func NewDrawService(
	limitRepo repositories.GiftLimitRepository,
	auditRepo repositories.AuditRepository,
	sampler utils.Sampler,
) *DrawServiceImpl {
	if sampler == nil {
		sampler = utils.NewCryptoSampler()
	}
	return &DrawServiceImpl{
		limits:    models.DefaultGiftLimits(),
		limitRepo: limitRepo,
		auditRepo: auditRepo,
		sampler:   sampler,
		now:       time.Now,
	}
}

// LoadGiftLimits replaces the default limits with the persisted ones.
// A missing, unreadable or malformed file keeps the defaults.
func (s *DrawServiceImpl) LoadGiftLimits(ctx context.Context) {
	limits, err := s.limitRepo.Load(ctx)
	if errors.Is(err, repositories.ErrLimitsNotFound) {
		slog.Info("No saved gift limits, using defaults")
		return
	}
	if err != nil {
		slog.Warn("Ignoring saved gift limits, using defaults", "error", err)
		return
	}

	s.mu.Lock()
	s.limits = limits
	s.mu.Unlock()
	slog.Info("Gift limits loaded", "gifts", len(limits))
}

// LoadRoster replaces the pool, clears the winners and remembers the filename.
// Identical records are kept once.
func (s *DrawServiceImpl) LoadRoster(_ context.Context, filename string, participants []models.Participant) *models.ImportResult {
	pool := make([]models.Participant, 0, len(participants))
	seen := make(map[models.ParticipantKey]struct{}, len(participants))
	duplicates := 0
	for _, p := range participants {
		if _, ok := seen[p.Key()]; ok {
			duplicates++
			continue
		}
		seen[p.Key()] = struct{}{}
		pool = append(pool, p)
	}

	s.mu.Lock()
	s.remaining = pool
	s.selected = nil
	s.filename = filename
	s.lastDrawCount = 0
	s.mu.Unlock()

	slog.Info("Roster loaded", "filename", filename, "participants", len(pool), "duplicates", duplicates)
	return &models.ImportResult{
		Filename:   filename,
		Accepted:   len(pool),
		Duplicates: duplicates,
		Remaining:  len(pool),
	}
}

// Draw samples input.Count winners for input.Gift.
//
// The exclusion is applied to the pool first and the limit override is
// persisted before the quota check. A failed draw leaves the pool and the
// winner list as they were; a persisted limit override stays in effect.
func (s *DrawServiceImpl) Draw(ctx context.Context, input models.DrawInput) (*models.DrawResult, error) {
	gift := strings.TrimSpace(input.Gift)
	if gift == "" {
		return nil, ErrMissingFields
	}
	if input.Count <= 0 {
		return nil, ErrInvalidCount
	}
	if input.LimitOverride != nil && (*input.LimitOverride < 0 || *input.LimitOverride > models.MaxGiftLimit) {
		return nil, ErrInvalidLimit
	}
	var exclude *models.ParticipantKey
	if input.Exclude != nil {
		p := utils.NormalizeParticipant(*input.Exclude)
		if !p.Valid() {
			return nil, ErrInvalidExclusion
		}
		key := p.Key()
		exclude = &key
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pool := s.remaining
	if exclude != nil {
		pool = withoutParticipant(s.remaining, *exclude)
	}

	if input.LimitOverride != nil {
		if err := s.setLimitLocked(ctx, gift, *input.LimitOverride); err != nil {
			return nil, err
		}
	}

	current := s.countGiftLocked(gift)
	if limit, ok := s.limits.Lookup(gift); ok && current+input.Count > limit {
		slog.Warn("Draw rejected by gift limit", "gift", gift, "limit", limit, "current", current, "requested", input.Count)
		return nil, &LimitExceededError{Gift: gift, Limit: limit, Current: current, Requested: input.Count}
	}
	if input.Count > len(pool) {
		slog.Warn("Draw rejected by pool size", "gift", gift, "remaining", len(pool), "requested", input.Count)
		return nil, &InsufficientPoolError{Remaining: len(pool), Requested: input.Count}
	}

	picks, err := s.sampler.Sample(len(pool), input.Count)
	if err != nil {
		return nil, fmt.Errorf("failed to sample winners: %w", err)
	}

	picked := make(map[int]struct{}, len(picks))
	drawn := make([]models.Winner, 0, len(picks))
	for _, idx := range picks {
		picked[idx] = struct{}{}
		drawn = append(drawn, models.Winner{Participant: pool[idx], Gift: gift})
	}

	timestamp := s.now()
	entries := make([]models.DrawLogEntry, 0, len(drawn))
	for _, w := range drawn {
		entries = append(entries, models.DrawLogEntry{Timestamp: timestamp, Filename: s.filename, Winner: w})
	}
	if err := s.auditRepo.RecordDraw(ctx, entries); err != nil {
		slog.Error("Draw aborted, audit log write failed", "error", err, "gift", gift)
		return nil, fmt.Errorf("failed to record draw: %w", err)
	}

	rest := make([]models.Participant, 0, len(pool)-len(drawn))
	for idx, p := range pool {
		if _, ok := picked[idx]; !ok {
			rest = append(rest, p)
		}
	}
	s.remaining = rest
	s.selected = append(s.selected, drawn...)
	s.lastDrawCount = len(drawn)

	slog.Info("Draw completed", "gift", gift, "drawn", len(drawn), "remaining", len(s.remaining), "total", len(s.selected))
	return &models.DrawResult{
		Result:    append([]models.Winner(nil), drawn...),
		Remaining: len(s.remaining),
		Total:     len(s.selected),
	}, nil
}

// Snapshot returns the pool size, the latest batch and all winners, newest first
func (s *DrawServiceImpl) Snapshot(_ context.Context) models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.selected)
	last := s.lastDrawCount
	if last > n {
		last = n
	}
	counts := make(map[string]int)
	for _, w := range s.selected {
		counts[w.Gift]++
	}
	return models.Snapshot{
		Remaining:  len(s.remaining),
		Result:     reversed(s.selected[n-last:]),
		All:        reversed(s.selected),
		Total:      n,
		GiftCounts: counts,
		Filename:   s.filename,
	}
}

// DeleteWinner removes the first winner matching all four fields. The record
// does not go back into the pool. Deleting an unknown winner succeeds and
// reports false.
func (s *DrawServiceImpl) DeleteWinner(ctx context.Context, winner models.Winner) (deleted bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Unexpected failure while deleting winner", "panic", r)
			deleted, err = false, fmt.Errorf("unexpected failure while deleting winner: %v", r)
		}
	}()

	target, err := normalizeWinner(winner)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfWinnerLocked(target)
	if idx == -1 {
		slog.Info("Winner to delete not found", "gift", target.Gift, "licenseNumber", target.LicenseNumber)
		return false, nil
	}

	removed := s.selected[idx]
	if err := s.auditRepo.RecordDeletion(ctx, models.DeleteLogEntry{Timestamp: s.now(), Winner: removed}); err != nil {
		slog.Error("Delete aborted, audit log write failed", "error", err)
		return false, fmt.Errorf("failed to record deletion: %w", err)
	}

	n := len(s.selected)
	if s.lastDrawCount > 0 && idx >= n-s.lastDrawCount {
		s.lastDrawCount--
	}
	next := make([]models.Winner, 0, n-1)
	next = append(next, s.selected[:idx]...)
	s.selected = append(next, s.selected[idx+1:]...)

	slog.Info("Winner deleted", "gift", removed.Gift, "licenseNumber", removed.LicenseNumber, "total", len(s.selected))
	return true, nil
}

// Redraw swaps one winner for a single fresh draw of the same gift, with the
// replaced participant excluded. The deletion and the draw are logged and
// committed under one lock; when no replacement can be drawn the winner stays.
func (s *DrawServiceImpl) Redraw(ctx context.Context, winner models.Winner) (result *models.RedrawResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Unexpected failure while redrawing winner", "panic", r)
			result, err = nil, fmt.Errorf("unexpected failure while redrawing winner: %v", r)
		}
	}()

	target, err := normalizeWinner(winner)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfWinnerLocked(target)
	if idx == -1 {
		slog.Info("Winner to redraw not found", "gift", target.Gift, "licenseNumber", target.LicenseNumber)
		return nil, ErrWinnerNotFound
	}
	replaced := s.selected[idx]

	// the replaced winner's slot is reused
	current := s.countGiftLocked(replaced.Gift) - 1
	if limit, ok := s.limits.Lookup(replaced.Gift); ok && current+1 > limit {
		slog.Warn("Redraw rejected by gift limit", "gift", replaced.Gift, "limit", limit, "current", current)
		return nil, &LimitExceededError{Gift: replaced.Gift, Limit: limit, Current: current, Requested: 1}
	}
	pool := withoutParticipant(s.remaining, replaced.Key())
	if len(pool) == 0 {
		slog.Warn("Redraw rejected, pool is empty", "gift", replaced.Gift)
		return nil, &InsufficientPoolError{Remaining: 0, Requested: 1}
	}

	picks, err := s.sampler.Sample(len(pool), 1)
	if err != nil {
		return nil, fmt.Errorf("failed to sample replacement: %w", err)
	}
	pick := picks[0]
	next := models.Winner{Participant: pool[pick], Gift: replaced.Gift}

	timestamp := s.now()
	if err := s.auditRepo.RecordDeletion(ctx, models.DeleteLogEntry{Timestamp: timestamp, Winner: replaced}); err != nil {
		slog.Error("Redraw aborted, delete log write failed", "error", err)
		return nil, fmt.Errorf("failed to record deletion: %w", err)
	}
	if err := s.auditRepo.RecordDraw(ctx, []models.DrawLogEntry{{Timestamp: timestamp, Filename: s.filename, Winner: next}}); err != nil {
		slog.Error("Redraw aborted, draw log write failed", "error", err)
		return nil, fmt.Errorf("failed to record draw: %w", err)
	}

	rest := make([]models.Participant, 0, len(pool)-1)
	rest = append(rest, pool[:pick]...)
	s.remaining = append(rest, pool[pick+1:]...)
	s.selected[idx] = next

	slog.Info("Winner redrawn", "gift", next.Gift, "replaced", replaced.LicenseNumber, "winner", next.LicenseNumber, "remaining", len(s.remaining))
	return &models.RedrawResult{
		Replaced:  replaced,
		Winner:    next,
		Remaining: len(s.remaining),
		Total:     len(s.selected),
	}, nil
}

// ClearWinners empties the winner list; the pool and filename stay
func (s *DrawServiceImpl) ClearWinners(_ context.Context) {
	s.mu.Lock()
	cleared := len(s.selected)
	s.selected = nil
	s.lastDrawCount = 0
	s.mu.Unlock()

	slog.Info("Winners cleared", "cleared", cleared)
}

// Reset empties the pool and the winner list and forgets the roster file
func (s *DrawServiceImpl) Reset(_ context.Context) {
	s.mu.Lock()
	s.remaining = nil
	s.selected = nil
	s.filename = ""
	s.lastDrawCount = 0
	s.mu.Unlock()

	slog.Info("Draw state reset")
}

// GiftLimits returns a copy of the current limits
func (s *DrawServiceImpl) GiftLimits(_ context.Context) models.GiftLimits {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.limits.Clone()
}

// setLimitLocked persists the new limit first and only then adopts it in memory
func (s *DrawServiceImpl) setLimitLocked(ctx context.Context, gift string, limit int) error {
	next := s.limits.Clone()
	next[gift] = limit
	if err := s.limitRepo.Save(ctx, next); err != nil {
		slog.Error("Failed to persist gift limits", "error", err, "gift", gift, "limit", limit)
		return fmt.Errorf("failed to persist gift limits: %w", err)
	}
	s.limits = next
	slog.Info("Gift limit updated", "gift", gift, "limit", limit)
	return nil
}

// normalizeWinner trims a winner received from a request and checks its required fields
func normalizeWinner(winner models.Winner) (models.Winner, error) {
	target := models.Winner{
		Participant: utils.NormalizeParticipant(winner.Participant),
		Gift:        strings.TrimSpace(winner.Gift),
	}
	if target.LicenseNumber == "" || target.Name == "" || target.Gift == "" {
		return models.Winner{}, ErrInvalidWinner
	}
	return target, nil
}

func (s *DrawServiceImpl) indexOfWinnerLocked(target models.Winner) int {
	for i, w := range s.selected {
		if w.Matches(target) {
			return i
		}
	}
	return -1
}

func (s *DrawServiceImpl) countGiftLocked(gift string) int {
	count := 0
	for _, w := range s.selected {
		if w.Gift == gift {
			count++
		}
	}
	return count
}

func withoutParticipant(pool []models.Participant, key models.ParticipantKey) []models.Participant {
	out := make([]models.Participant, 0, len(pool))
	for _, p := range pool {
		if p.Key() != key {
			out = append(out, p)
		}
	}
	return out
}

func reversed(in []models.Winner) []models.Winner {
	out := make([]models.Winner, len(in))
	for i, w := range in {
		out[len(in)-1-i] = w
	}
	return out
}
