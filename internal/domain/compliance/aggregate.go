package compliance

import "github.com/rpggio/hygrotrack/internal/domain/standard"

// SectionRisk is the worst-of verdict for a group of measurement sets.
type SectionRisk string

const (
	NoRisk           SectionRisk = "No Risk"
	SectionPotential SectionRisk = "Potential Risk"
	HighRisk         SectionRisk = "High Risk"
)

// Level returns the ordinal severity of a classification. Unclassified
// readings are level 0.
func Level(c Classification, ok bool) int {
	if !ok {
		return 0
	}
	switch c {
	case ExceedStandard:
		return 2
	case PotentialRisk:
		return 1
	default:
		return 0
	}
}

// Reading is one fabric/humidity pair inside a section.
type Reading interface {
	FabricLabel() string
	HumidityText() string
}

// AggregateRisk folds the readings of one section into its worst level.
// It reports false for an empty section.
func AggregateRisk[R Reading](reg *standard.Registry, readings []R) (SectionRisk, bool) {
	if len(readings) == 0 {
		return "", false
	}
	maxLevel := 0
	for _, r := range readings {
		c, ok := Classify(reg, r.FabricLabel(), r.HumidityText())
		if lvl := Level(c, ok); lvl > maxLevel {
			maxLevel = lvl
		}
	}
	switch maxLevel {
	case 2:
		return HighRisk, true
	case 1:
		return SectionPotential, true
	default:
		return NoRisk, true
	}
}

// IsHighRisk reports whether a section aggregates to HighRisk.
func IsHighRisk[R Reading](reg *standard.Registry, readings []R) bool {
	risk, ok := AggregateRisk(reg, readings)
	return ok && risk == HighRisk
}
