package record

import (
	"strings"
	"time"

	"github.com/rpggio/hygrotrack/internal/domain/compliance"
	"github.com/rpggio/hygrotrack/internal/domain/standard"
)

// ApplySpotCheck appends a 4-point round to an Environment record and returns
// the updated copy. The round passes only when every position has a known
// fabric and a reading at or below its limit.
//
// Callers submit spot checks for records that resolve to StatusTakeAction;
// the transition itself does not enforce that.
func ApplySpotCheck(reg *standard.Registry, rec Record, positions [4]Position, at time.Time) (Record, error) {
	if rec.Type != TypeEnvironment {
		return Record{}, ErrWrongRecordType
	}

	updated := rec.Clone()
	round := CheckRound{
		Positions: positions,
		Result:    CheckFail,
		CheckedAt: at,
	}
	if spotCheckPasses(reg, positions) {
		round.Result = CheckPass
	}

	updated.Checks4Pts = append(updated.Checks4Pts, round)
	if round.Result == CheckPass {
		updated.ExplicitStatus = StatusResolved
	} else {
		updated.ExplicitStatus = StatusTakeAction
	}
	return updated, nil
}

func spotCheckPasses(reg *standard.Registry, positions [4]Position) bool {
	for _, p := range positions {
		std, ok := reg.Lookup(p.Fabric)
		if !ok {
			return false
		}
		h, ok := compliance.ParseHumidity(p.Humidity)
		if !ok {
			return false
		}
		if !compliance.IsCompliantAtOrBelowLimit(std.Limit, h) {
			return false
		}
	}
	return true
}

// ApplyProductRecheck archives the current sections of a Product record,
// replaces them with the filled rows of the new submission, and sets the
// override from the new sections' risk.
func ApplyProductRecheck(reg *standard.Registry, rec Record, semi, product []MeasurementSet, at time.Time) (Record, error) {
	if rec.Type != TypeProduct {
		return Record{}, ErrWrongRecordType
	}

	updated := rec.Clone()
	updated.ProductHistory = append(updated.ProductHistory, ProductHistoryEntry{
		SemiSets:    cloneSets(rec.SemiSets),
		ProductSets: cloneSets(rec.ProductSets),
		CapturedAt:  at,
	})
	updated.SemiSets = FilterFilledSets(semi)
	updated.ProductSets = FilterFilledSets(product)

	if compliance.IsHighRisk(reg, updated.SemiSets) || compliance.IsHighRisk(reg, updated.ProductSets) {
		updated.ExplicitStatus = StatusTakeAction
	} else {
		updated.ExplicitStatus = StatusResolved
	}
	return updated, nil
}

// FilterFilledSets drops form rows that carry neither an order reference nor
// a humidity reading.
func FilterFilledSets(sets []MeasurementSet) []MeasurementSet {
	out := make([]MeasurementSet, 0, len(sets))
	for _, s := range sets {
		if strings.TrimSpace(s.OrderRef) != "" || s.Humidity != "" {
			out = append(out, s)
		}
	}
	return out
}
