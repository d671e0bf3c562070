package activity

import "time"

const (
	// DefaultListLimit applies when no limit is given.
	DefaultListLimit = 50
	// MaxListLimit caps a single page.
	MaxListLimit = 500
)

// ListActivityOptions filters an activity listing. Empty fields match all.
type ListActivityOptions struct {
	RecordID string
	Types    []ActivityType
	// Since keeps entries created at or after this instant.
	Since  time.Time
	Limit  int
	Offset int
}
