package record

import (
	"github.com/rpggio/hygrotrack/internal/domain/compliance"
	"github.com/rpggio/hygrotrack/internal/domain/department"
	"github.com/rpggio/hygrotrack/internal/domain/standard"
)

// ResolveStatus derives the action status from the record's current data.
//
// An explicit Resolved override wins. Product records need action while either
// current section is high risk, and count as resolved once any archived
// snapshot was high risk. Environment records compare the ambient reading to
// the department threshold; only a passing spot check resolves them.
func ResolveStatus(reg *standard.Registry, rec Record) Status {
	if rec.ExplicitStatus == StatusResolved {
		return StatusResolved
	}

	if rec.Type == TypeProduct {
		if compliance.IsHighRisk(reg, rec.SemiSets) || compliance.IsHighRisk(reg, rec.ProductSets) {
			return StatusTakeAction
		}
		for _, h := range rec.ProductHistory {
			if compliance.IsHighRisk(reg, h.SemiSets) || compliance.IsHighRisk(reg, h.ProductSets) {
				return StatusResolved
			}
		}
		return StatusNoActionNeeded
	}

	if department.IsHumidityDanger(rec.Department, rec.Humidity) {
		return StatusTakeAction
	}
	return StatusNoActionNeeded
}
