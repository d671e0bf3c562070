package record

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/hygrotrack/internal/domain/activity"
	"github.com/rpggio/hygrotrack/internal/domain/department"
	"github.com/rpggio/hygrotrack/internal/domain/standard"
	"github.com/rpggio/hygrotrack/internal/repository"
)

// Service handles record business logic.
type Service struct {
	records    RecordRepository
	activities ActivityLogger
	standards  *standard.Registry
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new record service.
func NewService(
	records RecordRepository,
	activities ActivityLogger,
	standards *standard.Registry,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if standards == nil {
		standards = standard.Default()
	}
	return &Service{
		records:    records,
		activities: activities,
		standards:  standards,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateRequest describes a record creation request.
type CreateRequest struct {
	Factory     string
	Department  string
	Type        Type
	TimeSlot    string
	Operator    string
	Temperature string
	Humidity    string
	Room        string
	Line        string
	SemiSets    []MeasurementSet
	ProductSets []MeasurementSet
}

// SpotCheckRequest describes a 4-point spot check submission.
type SpotCheckRequest struct {
	ID        string
	Positions [4]Position
}

// RecheckRequest describes a product re-check submission.
type RecheckRequest struct {
	ID          string
	SemiSets    []MeasurementSet
	ProductSets []MeasurementSet
}

// Standards returns the registry the service evaluates against.
func (s *Service) Standards() *standard.Registry {
	return s.standards
}

// Create validates and stores a new inspection record.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*RecordView, error) {
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}

	recType := req.Type
	if recType == "" {
		recType = TypeEnvironment
	}
	timeSlot := req.TimeSlot
	if timeSlot == "" {
		timeSlot = department.DefaultTimeSlot(req.Department)
	}

	rec := &Record{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		Factory:    req.Factory,
		Department: req.Department,
		Type:       recType,
		TimeSlot:   timeSlot,
		Operator:   strings.TrimSpace(req.Operator),
		Guidance:   department.Guidance(req.Department),
		CreatedAt:  s.now(),
		Revision:   1,
	}
	if recType == TypeProduct {
		rec.Room = req.Room
		rec.Line = req.Line
		rec.SemiSets = FilterFilledSets(req.SemiSets)
		rec.ProductSets = FilterFilledSets(req.ProductSets)
	} else {
		rec.Temperature = strings.TrimSpace(req.Temperature)
		rec.Humidity = strings.TrimSpace(req.Humidity)
	}

	if err := s.records.Create(ctx, tenantID, rec); err != nil {
		return nil, fmt.Errorf("creating record: %w", err)
	}

	view := BuildView(s.standards, *rec)
	details := map[string]string{"operator": rec.Operator, "time_slot": rec.TimeSlot}
	if rec.Type == TypeEnvironment {
		details["humidity"] = rec.Humidity
		details["temperature"] = rec.Temperature
	} else {
		details["line"] = rec.Line
	}
	s.logActivity(ctx, tenantID, rec, activity.TypeRecordCreated, view.Status,
		fmt.Sprintf("created %s record %s in %s/%s", rec.Type, rec.ID, rec.Factory, rec.Department),
		details)
	s.logger.Info("record created", "record_id", rec.ID, "type", rec.Type, "department", rec.Department, "status", view.Status)

	return &view, nil
}

// Get returns a record by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Record, error) {
	rec, err := s.records.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("getting record: %w", err)
	}
	return rec, nil
}

// View returns a record with its derived status and section risks.
func (s *Service) View(ctx context.Context, tenantID, id string) (*RecordView, error) {
	rec, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	view := BuildView(s.standards, *rec)
	return &view, nil
}

// List returns evaluated records newest first.
func (s *Service) List(ctx context.Context, tenantID string, opts ListOptions) ([]RecordView, error) {
	recs, err := s.records.List(ctx, tenantID, ListOptions{
		Factory:    opts.Factory,
		Department: opts.Department,
		Type:       opts.Type,
	})
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	views := make([]RecordView, 0, len(recs))
	for _, rec := range recs {
		view := BuildView(s.standards, rec)
		if opts.Status != "" && view.Status != opts.Status {
			continue
		}
		views = append(views, view)
	}
	return paginate(views, opts.Limit, opts.Offset), nil
}

// Dashboard summarizes the records matching opts. Status, limit and offset
// are ignored so the counts cover the whole selection.
func (s *Service) Dashboard(ctx context.Context, tenantID string, opts ListOptions) (*Dashboard, error) {
	views, err := s.List(ctx, tenantID, ListOptions{
		Factory:    opts.Factory,
		Department: opts.Department,
		Type:       opts.Type,
	})
	if err != nil {
		return nil, err
	}
	d := Summarize(views)
	return &d, nil
}

// SubmitSpotCheck records a 4-point spot check against an Environment record
// that currently needs action.
func (s *Service) SubmitSpotCheck(ctx context.Context, tenantID string, req SpotCheckRequest) (*RecordView, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, ErrInvalidInput
	}
	if err := ValidatePositions(req.Positions); err != nil {
		return nil, err
	}

	current, err := s.loadActionable(ctx, tenantID, req.ID, TypeEnvironment)
	if err != nil {
		return nil, err
	}

	updated, err := ApplySpotCheck(s.standards, *current, req.Positions, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.persistFollowUp(ctx, tenantID, &updated, current.Revision); err != nil {
		return nil, err
	}

	round, _ := updated.LatestCheck()
	view := BuildView(s.standards, updated)
	s.logActivity(ctx, tenantID, &updated, activity.TypeSpotCheckSubmitted, view.Status,
		fmt.Sprintf("spot check round %d: %s", len(updated.Checks4Pts), round.Result),
		map[string]string{"result": string(round.Result)})
	s.logger.Info("spot check submitted", "record_id", updated.ID, "result", round.Result, "status", view.Status)

	return &view, nil
}

// SubmitProductRecheck records a product re-check against a Product record
// that currently needs action.
func (s *Service) SubmitProductRecheck(ctx context.Context, tenantID string, req RecheckRequest) (*RecordView, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, ErrInvalidInput
	}
	if len(FilterFilledSets(req.SemiSets)) == 0 && len(FilterFilledSets(req.ProductSets)) == 0 {
		return nil, fmt.Errorf("%w: re-check needs at least one filled set", ErrInvalidInput)
	}

	current, err := s.loadActionable(ctx, tenantID, req.ID, TypeProduct)
	if err != nil {
		return nil, err
	}

	updated, err := ApplyProductRecheck(s.standards, *current, req.SemiSets, req.ProductSets, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.persistFollowUp(ctx, tenantID, &updated, current.Revision); err != nil {
		return nil, err
	}

	view := BuildView(s.standards, updated)
	s.logActivity(ctx, tenantID, &updated, activity.TypeProductRecheckSubmitted, view.Status,
		fmt.Sprintf("product re-check %d archived previous sets", len(updated.ProductHistory)),
		map[string]string{
			"semi_sets":    fmt.Sprint(len(updated.SemiSets)),
			"product_sets": fmt.Sprint(len(updated.ProductSets)),
		})
	s.logger.Info("product re-check submitted", "record_id", updated.ID, "history", len(updated.ProductHistory), "status", view.Status)

	return &view, nil
}

func (s *Service) loadActionable(ctx context.Context, tenantID, id string, want Type) (*Record, error) {
	current, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if current.Type != want {
		return nil, ErrWrongRecordType
	}
	if status := ResolveStatus(s.standards, *current); status != StatusTakeAction {
		return nil, fmt.Errorf("%w: status is %s", ErrFollowUpNotRequired, status)
	}
	return current, nil
}

func (s *Service) persistFollowUp(ctx context.Context, tenantID string, updated *Record, expectedRevision int64) error {
	updated.Revision = expectedRevision + 1
	if err := s.records.ApplyFollowUp(ctx, tenantID, updated, expectedRevision); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return ErrConflict
		case errors.Is(err, repository.ErrNotFound):
			return ErrRecordNotFound
		}
		return fmt.Errorf("applying follow-up: %w", err)
	}
	return nil
}

func (s *Service) logActivity(ctx context.Context, tenantID string, rec *Record, typ activity.ActivityType, status Status, summary string, details map[string]string) {
	if s.activities == nil {
		return
	}
	if err := s.activities.Log(ctx, tenantID, &activity.ActivityEntry{
		RecordID:     rec.ID,
		ActivityType: typ,
		Status:       string(status),
		Summary:      summary,
		Details:      details,
		Revision:     rec.Revision,
		CreatedAt:    s.now(),
	}); err != nil {
		s.logger.Warn("failed to log activity", "record_id", rec.ID, "type", typ, "error", err)
	}
}

func paginate(views []RecordView, limit, offset int) []RecordView {
	if offset > 0 {
		if offset >= len(views) {
			return []RecordView{}
		}
		views = views[offset:]
	}
	if limit > 0 && limit < len(views) {
		views = views[:limit]
	}
	return views
}
