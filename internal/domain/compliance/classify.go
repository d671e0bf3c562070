package compliance

import (
	"math"
	"strconv"
	"strings"

	"github.com/rpggio/hygrotrack/internal/domain/standard"
)

// Classification is the verdict for one fabric humidity reading.
type Classification string

const (
	Normal         Classification = "Normal"
	PotentialRisk  Classification = "Potential Risk"
	ExceedStandard Classification = "Exceed Standard"
)

// ParseHumidity parses an operator-entered humidity percentage.
// Blank, malformed, NaN and infinite input report false: the reading counts
// as not measured, never as zero.
func ParseHumidity(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	h, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(h) || math.IsInf(h, 0) {
		return 0, false
	}
	return h, true
}

// Classify evaluates a raw reading against the registry. It reports false when
// the fabric is blank or unknown, or the humidity is missing or malformed.
func Classify(reg *standard.Registry, fabric, humidity string) (Classification, bool) {
	if fabric == "" {
		return "", false
	}
	h, ok := ParseHumidity(humidity)
	if !ok {
		return "", false
	}
	return ClassifyValue(reg, fabric, h)
}

// ClassifyValue evaluates a parsed reading against the registry.
func ClassifyValue(reg *standard.Registry, fabric string, humidity float64) (Classification, bool) {
	if fabric == "" || math.IsNaN(humidity) || math.IsInf(humidity, 0) {
		return "", false
	}
	std, ok := reg.Lookup(fabric)
	if !ok {
		return "", false
	}
	switch {
	case humidity > std.Limit:
		return ExceedStandard, true
	case IsWithinStandard(std.Limit, humidity):
		return Normal, true
	default:
		return PotentialRisk, true
	}
}

// IsWithinStandard is the evaluator boundary: a reading equal to the limit is
// already flagged.
func IsWithinStandard(limit, humidity float64) bool {
	return humidity < limit
}

// IsCompliantAtOrBelowLimit is the spot-check boundary: a reading equal to the
// limit passes.
func IsCompliantAtOrBelowLimit(limit, humidity float64) bool {
	return humidity <= limit
}
