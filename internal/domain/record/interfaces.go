package record

import (
	"context"

	"github.com/rpggio/hygrotrack/internal/domain/activity"
)

// RecordRepository provides persistence for records.
type RecordRepository interface {
	Create(ctx context.Context, tenantID string, rec *Record) error
	Get(ctx context.Context, tenantID, id string) (*Record, error)
	List(ctx context.Context, tenantID string, opts ListOptions) ([]Record, error)
	// ApplyFollowUp persists the newest check round or history entry, the
	// replaced sections and the override in one unit, bumping the revision.
	ApplyFollowUp(ctx context.Context, tenantID string, rec *Record, expectedRevision int64) error
}

// ActivityLogger appends remediation events to the activity log. Both
// activity.Service and a raw activity repository satisfy it.
type ActivityLogger interface {
	Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error
}
