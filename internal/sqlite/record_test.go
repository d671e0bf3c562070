package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rpggio/hygrotrack/internal/domain/record"
	"github.com/rpggio/hygrotrack/internal/repository"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newEnvRecord(id string, createdAt time.Time) *record.Record {
	return &record.Record{
		ID:          id,
		Factory:     "TTT",
		Department:  "Cutting Room",
		Type:        record.TypeEnvironment,
		TimeSlot:    "AM",
		Operator:    "Somchai",
		Guidance:    "Measure at the centre of the room.",
		Temperature: "31",
		Humidity:    "70",
		CreatedAt:   createdAt,
		Revision:    1,
	}
}

func newProductRecord(id string, createdAt time.Time) *record.Record {
	return &record.Record{
		ID:         id,
		Factory:    "TN",
		Department: "Sewing Room",
		Type:       record.TypeProduct,
		TimeSlot:   "PM",
		Operator:   "Anong",
		Room:       "A",
		Line:       "PD-SA01",
		SemiSets: []record.MeasurementSet{
			{OrderRef: "CJO-1", PORef: "PO-1", Fabric: "100% Cotton", Humidity: "40"},
		},
		ProductSets: []record.MeasurementSet{
			{OrderRef: "CJO-2", PORef: "PO-2", Fabric: "100% Cotton", Humidity: "57"},
		},
		CreatedAt: createdAt,
		Revision:  1,
	}
}

func TestRecordRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewRecordRepository(db)

	rec := newProductRecord("p1", baseTime)
	require.NoError(t, repo.Create(ctx, "tenant1", rec))

	loaded, err := repo.Get(ctx, "tenant1", "p1")
	require.NoError(t, err)
	require.Equal(t, "tenant1", loaded.TenantID)
	require.Equal(t, record.TypeProduct, loaded.Type)
	require.Equal(t, rec.SemiSets, loaded.SemiSets)
	require.Equal(t, rec.ProductSets, loaded.ProductSets)
	require.Equal(t, "PD-SA01", loaded.Line)
	require.True(t, baseTime.Equal(loaded.CreatedAt))
	require.Equal(t, int64(1), loaded.Revision)
	require.Empty(t, loaded.ExplicitStatus)
	require.Empty(t, loaded.ProductHistory)
}

func TestRecordRepository_CreateDuplicate(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewRecordRepository(db)

	require.NoError(t, repo.Create(ctx, "tenant1", newEnvRecord("e1", baseTime)))
	err := repo.Create(ctx, "tenant1", newEnvRecord("e1", baseTime))
	require.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestRecordRepository_TenantIsolation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewRecordRepository(db)

	require.NoError(t, repo.Create(ctx, "tenant1", newEnvRecord("e1", baseTime)))

	_, err := repo.Get(ctx, "tenant2", "e1")
	require.Equal(t, repository.ErrNotFound, err)

	recs, err := repo.List(ctx, "tenant2", record.ListOptions{})
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestRecordRepository_ListFiltersNewestFirst(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewRecordRepository(db)

	require.NoError(t, repo.Create(ctx, "tenant1", newEnvRecord("e1", baseTime)))
	require.NoError(t, repo.Create(ctx, "tenant1", newProductRecord("p1", baseTime.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, "tenant1", newEnvRecord("e2", baseTime.Add(2*time.Hour))))

	recs, err := repo.List(ctx, "tenant1", record.ListOptions{})
	require.NoError(t, err)
	require.Len(t, recs, 3)
	require.Equal(t, "e2", recs[0].ID)
	require.Equal(t, "p1", recs[1].ID)
	require.Equal(t, "e1", recs[2].ID)

	recs, err = repo.List(ctx, "tenant1", record.ListOptions{Type: record.TypeEnvironment})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	recs, err = repo.List(ctx, "tenant1", record.ListOptions{Factory: "TN", Department: "Sewing Room"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "p1", recs[0].ID)

	recs, err = repo.List(ctx, "tenant1", record.ListOptions{Offset: 1})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, "p1", recs[0].ID)

	recs, err = repo.List(ctx, "tenant1", record.ListOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestRecordRepository_ApplyFollowUp_SpotChecks(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewRecordRepository(db)

	rec := newEnvRecord("e1", baseTime)
	require.NoError(t, repo.Create(ctx, "tenant1", rec))

	pos := [4]record.Position{
		{Fabric: "100% Cotton", Humidity: "60"},
		{Fabric: "100% Cotton", Humidity: "50"},
		{Fabric: "100% Cotton", Humidity: "50"},
		{Fabric: "100% Cotton", Humidity: "50"},
	}
	rec.Checks4Pts = append(rec.Checks4Pts, record.CheckRound{Positions: pos, Result: record.CheckFail, CheckedAt: baseTime.Add(time.Hour)})
	rec.ExplicitStatus = record.StatusTakeAction
	rec.Revision = 2
	require.NoError(t, repo.ApplyFollowUp(ctx, "tenant1", rec, 1))

	pos[0].Humidity = "50"
	rec.Checks4Pts = append(rec.Checks4Pts, record.CheckRound{Positions: pos, Result: record.CheckPass, CheckedAt: baseTime.Add(2 * time.Hour)})
	rec.ExplicitStatus = record.StatusResolved
	rec.Revision = 3
	require.NoError(t, repo.ApplyFollowUp(ctx, "tenant1", rec, 2))

	loaded, err := repo.Get(ctx, "tenant1", "e1")
	require.NoError(t, err)
	require.Equal(t, int64(3), loaded.Revision)
	require.Equal(t, record.StatusResolved, loaded.ExplicitStatus)
	require.Len(t, loaded.Checks4Pts, 2)
	require.Equal(t, record.CheckFail, loaded.Checks4Pts[0].Result)
	require.Equal(t, "60", loaded.Checks4Pts[0].Positions[0].Humidity)
	require.Equal(t, record.CheckPass, loaded.Checks4Pts[1].Result)
}

func TestRecordRepository_ApplyFollowUp_ProductHistory(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewRecordRepository(db)

	rec := newProductRecord("p1", baseTime)
	require.NoError(t, repo.Create(ctx, "tenant1", rec))

	rec.ProductHistory = append(rec.ProductHistory, record.ProductHistoryEntry{
		SemiSets:    rec.SemiSets,
		ProductSets: rec.ProductSets,
		CapturedAt:  baseTime.Add(time.Hour),
	})
	rec.ProductSets = []record.MeasurementSet{{OrderRef: "CJO-2", Fabric: "100% Cotton", Humidity: "45"}}
	rec.SemiSets = []record.MeasurementSet{}
	rec.ExplicitStatus = record.StatusResolved
	rec.Revision = 2
	require.NoError(t, repo.ApplyFollowUp(ctx, "tenant1", rec, 1))

	loaded, err := repo.Get(ctx, "tenant1", "p1")
	require.NoError(t, err)
	require.Len(t, loaded.ProductHistory, 1)
	require.Equal(t, "57", loaded.ProductHistory[0].ProductSets[0].Humidity)
	require.Equal(t, "45", loaded.ProductSets[0].Humidity)
	require.Empty(t, loaded.SemiSets)
	require.Equal(t, record.StatusResolved, loaded.ExplicitStatus)
}

func TestRecordRepository_ApplyFollowUp_ConflictAndNotFound(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewRecordRepository(db)

	rec := newEnvRecord("e1", baseTime)
	require.NoError(t, repo.Create(ctx, "tenant1", rec))

	rec.Revision = 2
	require.NoError(t, repo.ApplyFollowUp(ctx, "tenant1", rec, 1))

	rec.ExplicitStatus = record.StatusResolved
	rec.Checks4Pts = []record.CheckRound{{Result: record.CheckPass, CheckedAt: baseTime}}
	rec.Revision = 2
	err := repo.ApplyFollowUp(ctx, "tenant1", rec, 1)
	require.Equal(t, repository.ErrConflict, err)

	loaded, err := repo.Get(ctx, "tenant1", "e1")
	require.NoError(t, err)
	require.Empty(t, loaded.Checks4Pts, "conflicting follow-up leaves no round behind")
	require.Empty(t, loaded.ExplicitStatus)

	rec.ID = "missing"
	err = repo.ApplyFollowUp(ctx, "tenant1", rec, 1)
	require.Equal(t, repository.ErrNotFound, err)
}

func TestRecordRepository_ApplyFollowUp_RollsBackOnInsertFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	repo := NewRecordRepository(&DB{sqlDB})
	rec := newEnvRecord("e1", baseTime)
	rec.Checks4Pts = []record.CheckRound{{Result: record.CheckFail, CheckedAt: baseTime}}
	rec.ExplicitStatus = record.StatusTakeAction
	rec.Revision = 2

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE records").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM check_rounds`).
		WithArgs("e1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO check_rounds").
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err = repo.ApplyFollowUp(context.Background(), "tenant1", rec, 1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to insert check round")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_ApplyFollowUp_RollsBackOnConflict(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	repo := NewRecordRepository(&DB{sqlDB})
	rec := newEnvRecord("e1", baseTime)
	rec.Revision = 5

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE records").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("e1", "tenant1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err = repo.ApplyFollowUp(context.Background(), "tenant1", rec, 4)
	require.Equal(t, repository.ErrConflict, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
