package activity

import "time"

// ActivityType names a remediation event on a record.
type ActivityType string

const (
	TypeRecordCreated           ActivityType = "record_created"
	TypeSpotCheckSubmitted      ActivityType = "spot_check_submitted"
	TypeProductRecheckSubmitted ActivityType = "product_recheck_submitted"
)

// Valid reports whether t is a known activity type.
func (t ActivityType) Valid() bool {
	switch t {
	case TypeRecordCreated, TypeSpotCheckSubmitted, TypeProductRecheckSubmitted:
		return true
	}
	return false
}

// ActivityEntry is one event in a record's remediation timeline. Status is
// the record's action status right after the event.
type ActivityEntry struct {
	ID           int64             `json:"id"`
	TenantID     string            `json:"tenant_id"`
	RecordID     string            `json:"record_id"`
	ActivityType ActivityType      `json:"type"`
	Status       string            `json:"status,omitempty"`
	Summary      string            `json:"summary"`
	Details      map[string]string `json:"details,omitempty"`
	Revision     int64             `json:"revision"`
	CreatedAt    time.Time         `json:"created_at"`
}
