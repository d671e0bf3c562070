package activity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Service validates and records remediation events.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Log appends entry to the tenant's timeline, stamping CreatedAt if unset.
func (s *Service) Log(ctx context.Context, tenantID string, entry *ActivityEntry) error {
	if entry == nil || strings.TrimSpace(entry.RecordID) == "" {
		return fmt.Errorf("%w: record id required", ErrInvalidInput)
	}
	if !entry.ActivityType.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidInput, entry.ActivityType)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	if err := s.repo.Log(ctx, tenantID, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	s.logger.Debug("activity logged", "record_id", entry.RecordID, "type", entry.ActivityType, "status", entry.Status)
	return nil
}

// GetRecentActivity lists entries newest first. A zero limit means
// DefaultListLimit; larger limits are capped at MaxListLimit.
func (s *Service) GetRecentActivity(ctx context.Context, tenantID string, opts ListActivityOptions) ([]ActivityEntry, error) {
	if opts.Limit < 0 || opts.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must be non-negative", ErrInvalidInput)
	}
	for _, t := range opts.Types {
		if !t.Valid() {
			return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidInput, t)
		}
	}
	switch {
	case opts.Limit == 0:
		opts.Limit = DefaultListLimit
	case opts.Limit > MaxListLimit:
		opts.Limit = MaxListLimit
	}

	entries, err := s.repo.List(ctx, tenantID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	return entries, nil
}
