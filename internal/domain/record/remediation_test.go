package record_test

import (
	"testing"
	"time"

	"github.com/rpggio/hygrotrack/internal/domain/record"
	"github.com/rpggio/hygrotrack/internal/domain/standard"
	"github.com/stretchr/testify/require"
)

func positions(fabric string, readings ...string) [4]record.Position {
	var out [4]record.Position
	for i := range out {
		out[i] = record.Position{Fabric: fabric, Humidity: readings[i]}
	}
	return out
}

func TestApplySpotCheck_Pass(t *testing.T) {
	reg := standard.Default()
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rec := envRecord("Cutting Room", "70")

	updated, err := record.ApplySpotCheck(reg, rec, positions("100% Cotton", "50", "56", "40", "55.5"), at)
	require.NoError(t, err)
	require.Len(t, updated.Checks4Pts, 1)
	require.Equal(t, record.CheckPass, updated.Checks4Pts[0].Result)
	require.Equal(t, at, updated.Checks4Pts[0].CheckedAt)
	require.Equal(t, record.StatusResolved, updated.ExplicitStatus)
	require.Equal(t, record.StatusResolved, record.ResolveStatus(reg, updated))

	require.Empty(t, rec.Checks4Pts, "input record is not mutated")
	require.Empty(t, rec.ExplicitStatus)
}

func TestApplySpotCheck_Fail(t *testing.T) {
	reg := standard.Default()
	rec := envRecord("Cutting Room", "70")

	updated, err := record.ApplySpotCheck(reg, rec, positions("100% Cotton", "50", "56.1", "40", "40"), time.Now())
	require.NoError(t, err)
	require.Equal(t, record.CheckFail, updated.Checks4Pts[0].Result)
	require.Equal(t, record.StatusTakeAction, updated.ExplicitStatus)
	require.Equal(t, record.StatusTakeAction, record.ResolveStatus(reg, updated))
}

func TestApplySpotCheck_UnclassifiablePositionFails(t *testing.T) {
	reg := standard.Default()
	rec := envRecord("Cutting Room", "70")

	unknown := positions("100% Cotton", "10", "10", "10", "10")
	unknown[2].Fabric = "Mystery Blend"
	updated, err := record.ApplySpotCheck(reg, rec, unknown, time.Now())
	require.NoError(t, err)
	require.Equal(t, record.CheckFail, updated.Checks4Pts[0].Result)

	malformed := positions("100% Cotton", "10", "abc", "10", "10")
	updated, err = record.ApplySpotCheck(reg, rec, malformed, time.Now())
	require.NoError(t, err)
	require.Equal(t, record.CheckFail, updated.Checks4Pts[0].Result)
}

func TestApplySpotCheck_AppendsEveryRound(t *testing.T) {
	reg := standard.Default()
	rec := envRecord("Cutting Room", "70")

	var err error
	for i := 1; i <= 3; i++ {
		rec, err = record.ApplySpotCheck(reg, rec, positions("100% Cotton", "60", "60", "60", "60"), time.Now())
		require.NoError(t, err)
		require.Len(t, rec.Checks4Pts, i)
	}
	last, ok := rec.LatestCheck()
	require.True(t, ok)
	require.Equal(t, record.CheckFail, last.Result)
}

func TestApplySpotCheck_WrongType(t *testing.T) {
	_, err := record.ApplySpotCheck(standard.Default(), productRecord(nil, nil), positions("100% Cotton", "1", "1", "1", "1"), time.Now())
	require.ErrorIs(t, err, record.ErrWrongRecordType)
}

func TestApplyProductRecheck_Resolves(t *testing.T) {
	reg := standard.Default()
	at := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	before := []record.MeasurementSet{set("100% Cotton", "57")}
	rec := productRecord([]record.MeasurementSet{set("100% Cotton", "40")}, before)
	require.Equal(t, record.StatusTakeAction, record.ResolveStatus(reg, rec))

	updated, err := record.ApplyProductRecheck(reg, rec,
		[]record.MeasurementSet{set("100% Cotton", "41"), {}},
		[]record.MeasurementSet{set("100% Cotton", "42"), {OrderRef: " "}},
		at,
	)
	require.NoError(t, err)
	require.Len(t, updated.ProductHistory, 1)
	require.Equal(t, before, updated.ProductHistory[0].ProductSets)
	require.Equal(t, at, updated.ProductHistory[0].CapturedAt)
	require.Len(t, updated.SemiSets, 1, "blank rows are dropped")
	require.Len(t, updated.ProductSets, 1)
	require.Equal(t, record.StatusResolved, updated.ExplicitStatus)
	require.Equal(t, record.StatusResolved, record.ResolveStatus(reg, updated))

	require.Empty(t, rec.ProductHistory, "input record is not mutated")
}

func TestApplyProductRecheck_StillHigh(t *testing.T) {
	reg := standard.Default()
	rec := productRecord(nil, []record.MeasurementSet{set("100% Cotton", "57")})

	updated, err := record.ApplyProductRecheck(reg, rec, nil, []record.MeasurementSet{set("100% Cotton", "58")}, time.Now())
	require.NoError(t, err)
	require.Equal(t, record.StatusTakeAction, updated.ExplicitStatus)
	require.Equal(t, record.StatusTakeAction, record.ResolveStatus(reg, updated))
	require.Len(t, updated.ProductHistory, 1)
}

func TestApplyProductRecheck_HistorySnapshotIsIndependent(t *testing.T) {
	reg := standard.Default()
	rec := productRecord(nil, []record.MeasurementSet{set("100% Cotton", "57")})

	updated, err := record.ApplyProductRecheck(reg, rec, nil, []record.MeasurementSet{set("100% Cotton", "40")}, time.Now())
	require.NoError(t, err)

	rec.ProductSets[0].Humidity = "10"
	require.Equal(t, "57", updated.ProductHistory[0].ProductSets[0].Humidity)
}

func TestApplyProductRecheck_WrongType(t *testing.T) {
	_, err := record.ApplyProductRecheck(standard.Default(), envRecord("Lab", "50"), nil, nil, time.Now())
	require.ErrorIs(t, err, record.ErrWrongRecordType)
}

func TestFilterFilledSets(t *testing.T) {
	sets := []record.MeasurementSet{
		{OrderRef: "CJO-1"},
		{Humidity: "40"},
		{Fabric: "100% Cotton", PORef: "PO-9"},
		{OrderRef: "   "},
	}
	filtered := record.FilterFilledSets(sets)
	require.Len(t, filtered, 2)
	require.Equal(t, "CJO-1", filtered[0].OrderRef)
	require.Equal(t, "40", filtered[1].Humidity)
	require.NotNil(t, record.FilterFilledSets(nil))
}
