package record

import "time"

// Type fixes which inspection fields a record carries.
type Type string

const (
	TypeEnvironment Type = "Environment"
	TypeProduct     Type = "Product"
)

// Status is the human-facing action state of a record.
type Status string

const (
	StatusResolved       Status = "Resolved"
	StatusTakeAction     Status = "Take Action"
	StatusNoActionNeeded Status = "No action needed"
)

// CheckResult is the outcome of a spot-check round.
type CheckResult string

const (
	CheckPass CheckResult = "Pass"
	CheckFail CheckResult = "Fail"
)

// MeasurementSet is one inspected garment. Humidity holds the reading as
// entered; a set without fabric or humidity is not yet filled.
type MeasurementSet struct {
	OrderRef string `json:"order_ref"`
	PORef    string `json:"po_ref"`
	Fabric   string `json:"fabric"`
	Humidity string `json:"humidity"`
}

// FabricLabel implements compliance.Reading.
func (m MeasurementSet) FabricLabel() string { return m.Fabric }

// HumidityText implements compliance.Reading.
func (m MeasurementSet) HumidityText() string { return m.Humidity }

// Position is one of the four spot-check readings.
type Position struct {
	Fabric   string `json:"fabric"`
	Humidity string `json:"humidity"`
}

// FabricLabel implements compliance.Reading.
func (p Position) FabricLabel() string { return p.Fabric }

// HumidityText implements compliance.Reading.
func (p Position) HumidityText() string { return p.Humidity }

// CheckRound is an immutable 4-point spot check.
type CheckRound struct {
	Positions [4]Position `json:"positions"`
	Result    CheckResult `json:"result"`
	CheckedAt time.Time   `json:"checked_at"`
}

// ProductHistoryEntry freezes the sections a re-check replaced.
type ProductHistoryEntry struct {
	SemiSets    []MeasurementSet `json:"semi_sets"`
	ProductSets []MeasurementSet `json:"product_sets"`
	CapturedAt  time.Time        `json:"captured_at"`
}

// Record is one inspection entry.
type Record struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	Factory    string    `json:"factory"`
	Department string    `json:"department"`
	Type       Type      `json:"type"`
	TimeSlot   string    `json:"time_slot"`
	Operator   string    `json:"operator"`
	Guidance   string    `json:"guidance,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	Revision   int64     `json:"revision"`

	// Environment
	Temperature string       `json:"temperature,omitempty"`
	Humidity    string       `json:"humidity,omitempty"`
	Checks4Pts  []CheckRound `json:"checks_4pts,omitempty"`

	// Product
	Room           string                `json:"room,omitempty"`
	Line           string                `json:"line,omitempty"`
	SemiSets       []MeasurementSet      `json:"semi_sets,omitempty"`
	ProductSets    []MeasurementSet      `json:"product_sets,omitempty"`
	ProductHistory []ProductHistoryEntry `json:"product_history,omitempty"`

	// ExplicitStatus is written only by the remediation transitions.
	ExplicitStatus Status `json:"explicit_status,omitempty"`
}

// Clone returns a deep copy so callers never share slices with r.
func (r Record) Clone() Record {
	out := r
	out.Checks4Pts = append([]CheckRound(nil), r.Checks4Pts...)
	out.SemiSets = cloneSets(r.SemiSets)
	out.ProductSets = cloneSets(r.ProductSets)
	if r.ProductHistory != nil {
		out.ProductHistory = make([]ProductHistoryEntry, len(r.ProductHistory))
		for i, h := range r.ProductHistory {
			out.ProductHistory[i] = ProductHistoryEntry{
				SemiSets:    cloneSets(h.SemiSets),
				ProductSets: cloneSets(h.ProductSets),
				CapturedAt:  h.CapturedAt,
			}
		}
	}
	return out
}

// LatestCheck returns the most recent spot-check round.
func (r Record) LatestCheck() (CheckRound, bool) {
	if len(r.Checks4Pts) == 0 {
		return CheckRound{}, false
	}
	return r.Checks4Pts[len(r.Checks4Pts)-1], true
}

func cloneSets(sets []MeasurementSet) []MeasurementSet {
	if sets == nil {
		return nil
	}
	out := make([]MeasurementSet, len(sets))
	copy(out, sets)
	return out
}
