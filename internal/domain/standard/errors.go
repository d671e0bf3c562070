package standard

import "errors"

var (
	// ErrInvalidStandard indicates a blank label or a non-positive limit.
	ErrInvalidStandard = errors.New("invalid fabric standard")
	// ErrDuplicateLabel indicates two standards share a label.
	ErrDuplicateLabel = errors.New("duplicate fabric standard label")
	// ErrEmptyRegistry indicates a registry source with no standards.
	ErrEmptyRegistry = errors.New("no fabric standards defined")
)
