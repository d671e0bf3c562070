package mocks

import (
	"context"

	"github.com/rpggio/hygrotrack/internal/domain/activity"
	"github.com/rpggio/hygrotrack/internal/domain/record"
	"github.com/stretchr/testify/mock"
)

// RecordRepository is a mock for record.RecordRepository.
type RecordRepository struct {
	mock.Mock
}

func (m *RecordRepository) Create(ctx context.Context, tenantID string, rec *record.Record) error {
	args := m.Called(ctx, tenantID, rec)
	return args.Error(0)
}

func (m *RecordRepository) Get(ctx context.Context, tenantID, id string) (*record.Record, error) {
	args := m.Called(ctx, tenantID, id)
	if rec, ok := args.Get(0).(*record.Record); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecordRepository) List(ctx context.Context, tenantID string, opts record.ListOptions) ([]record.Record, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]record.Record); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RecordRepository) ApplyFollowUp(ctx context.Context, tenantID string, rec *record.Record, expectedRevision int64) error {
	args := m.Called(ctx, tenantID, rec, expectedRevision)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, tenantID, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
