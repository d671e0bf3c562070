package record

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rpggio/hygrotrack/internal/domain/compliance"
	"github.com/rpggio/hygrotrack/internal/domain/department"
)

// ValidateCreateInput validates fields required to create a record.
func ValidateCreateInput(req CreateRequest) error {
	if !department.IsFactory(req.Factory) {
		return fmt.Errorf("%w: unknown factory %q", ErrInvalidInput, req.Factory)
	}
	if !department.IsDepartment(req.Department) {
		return fmt.Errorf("%w: unknown department %q", ErrInvalidInput, req.Department)
	}
	if strings.TrimSpace(req.Operator) == "" {
		return fmt.Errorf("%w: operator required", ErrInvalidInput)
	}
	if req.TimeSlot != "" && !department.IsTimeSlot(req.Department, req.TimeSlot) {
		return fmt.Errorf("%w: time slot %q not offered in %s", ErrInvalidInput, req.TimeSlot, req.Department)
	}

	switch req.Type {
	case TypeEnvironment, "":
		if _, err := strconv.ParseFloat(strings.TrimSpace(req.Temperature), 64); err != nil {
			return fmt.Errorf("%w: temperature must be numeric", ErrInvalidInput)
		}
		if _, ok := compliance.ParseHumidity(req.Humidity); !ok {
			return fmt.Errorf("%w: humidity must be numeric", ErrInvalidInput)
		}
		if len(req.SemiSets) > 0 || len(req.ProductSets) > 0 || req.Room != "" || req.Line != "" {
			return fmt.Errorf("%w: environment records carry no product fields", ErrInvalidInput)
		}
	case TypeProduct:
		if !department.SupportsProductChecks(req.Department) {
			return fmt.Errorf("%w: %s does not record product checks", ErrInvalidInput, req.Department)
		}
		if !department.IsLine(req.Room, req.Line) {
			return fmt.Errorf("%w: line %q not in room %q", ErrInvalidInput, req.Line, req.Room)
		}
		if req.Temperature != "" || req.Humidity != "" {
			return fmt.Errorf("%w: product records carry no ambient readings", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown record type %q", ErrInvalidInput, req.Type)
	}
	return nil
}

// ValidatePositions validates a submitted 4-point spot check. Fabrics are not
// checked against the registry: an unknown fabric fails the round instead.
func ValidatePositions(positions [4]Position) error {
	for i, p := range positions {
		if strings.TrimSpace(p.Fabric) == "" {
			return fmt.Errorf("%w: position %d fabric required", ErrInvalidInput, i+1)
		}
		if _, ok := compliance.ParseHumidity(p.Humidity); !ok {
			return fmt.Errorf("%w: position %d humidity must be numeric", ErrInvalidInput, i+1)
		}
	}
	return nil
}
