package activity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/hygrotrack/internal/domain/activity"
	"github.com/rpggio/hygrotrack/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActivityService_LogStampsTime(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ActivityRepository{}
	entry := &activity.ActivityEntry{
		RecordID:     "r1",
		ActivityType: activity.TypeRecordCreated,
		Status:       "Take Action",
		Summary:      "created",
		Revision:     1,
	}
	repo.On("Log", ctx, "tenant1", entry).Return(nil)

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.Log(ctx, "tenant1", entry))
	require.False(t, entry.CreatedAt.IsZero())
	repo.AssertExpectations(t)
}

func TestActivityService_LogKeepsGivenTime(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	repo := &mocks.ActivityRepository{}
	repo.On("Log", ctx, "tenant1", mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.CreatedAt.Equal(at)
	})).Return(nil)

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.Log(ctx, "tenant1", &activity.ActivityEntry{
		RecordID:     "r1",
		ActivityType: activity.TypeSpotCheckSubmitted,
		CreatedAt:    at,
	}))
	repo.AssertExpectations(t)
}

func TestActivityService_LogValidation(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	ctx := context.Background()

	require.ErrorIs(t, svc.Log(ctx, "tenant1", nil), activity.ErrInvalidInput)
	require.ErrorIs(t, svc.Log(ctx, "tenant1", &activity.ActivityEntry{ActivityType: activity.TypeRecordCreated}), activity.ErrInvalidInput)
	require.ErrorIs(t, svc.Log(ctx, "tenant1", &activity.ActivityEntry{RecordID: "r1", ActivityType: "deleted"}), activity.ErrInvalidInput)
}

func TestActivityService_ListLimits(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("List", ctx, "tenant1", activity.ListActivityOptions{RecordID: "r1", Limit: activity.DefaultListLimit}).
		Return([]activity.ActivityEntry{{RecordID: "r1"}}, nil)
	repo.On("List", ctx, "tenant1", activity.ListActivityOptions{Limit: activity.MaxListLimit}).
		Return([]activity.ActivityEntry{}, nil)

	svc := activity.NewService(repo, nil)
	entries, err := svc.GetRecentActivity(ctx, "tenant1", activity.ListActivityOptions{RecordID: "r1"})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = svc.GetRecentActivity(ctx, "tenant1", activity.ListActivityOptions{Limit: 10000})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestActivityService_ListValidation(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	ctx := context.Background()

	_, err := svc.GetRecentActivity(ctx, "tenant1", activity.ListActivityOptions{Limit: -1})
	require.ErrorIs(t, err, activity.ErrInvalidInput)

	_, err = svc.GetRecentActivity(ctx, "tenant1", activity.ListActivityOptions{Types: []activity.ActivityType{"deleted"}})
	require.ErrorIs(t, err, activity.ErrInvalidInput)
}

func TestActivityService_ListError(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("List", ctx, "tenant1", activity.ListActivityOptions{Limit: activity.DefaultListLimit}).Return(nil, errors.New("boom"))

	svc := activity.NewService(repo, nil)
	_, err := svc.GetRecentActivity(ctx, "tenant1", activity.ListActivityOptions{})
	require.Error(t, err)
}
