package mcp

import (
	"time"

	"github.com/rpggio/hygrotrack/internal/domain/activity"
	"github.com/rpggio/hygrotrack/internal/domain/department"
	"github.com/rpggio/hygrotrack/internal/domain/record"
	"github.com/rpggio/hygrotrack/internal/domain/standard"
)

// Tool inputs

type ListStandardsInput struct{}

type ClassifyInput struct {
	Fabric   string `json:"fabric" jsonschema:"fabric standard label, exactly as listed by list_standards"`
	Humidity string `json:"humidity" jsonschema:"measured humidity percentage, e.g. 54.5"`
}

type DepartmentPolicyInput struct {
	Department string `json:"department" jsonschema:"department name, e.g. Print or Sewing Room"`
}

type SetInput struct {
	OrderRef string `json:"order_ref,omitempty" jsonschema:"customer job order reference"`
	PORef    string `json:"po_ref,omitempty" jsonschema:"purchase order reference"`
	Fabric   string `json:"fabric,omitempty" jsonschema:"fabric standard label"`
	Humidity string `json:"humidity,omitempty" jsonschema:"measured humidity percentage"`
}

type CreateRecordInput struct {
	Factory     string     `json:"factory" jsonschema:"factory code: TTT, TN, TM2 or VAS"`
	Department  string     `json:"department" jsonschema:"inspected department"`
	Type        string     `json:"type,omitempty" jsonschema:"Environment (default) or Product"`
	TimeSlot    string     `json:"time_slot,omitempty" jsonschema:"shift slot; defaults to the department's first slot"`
	Operator    string     `json:"operator" jsonschema:"name of the person taking the reading"`
	Temperature string     `json:"temperature,omitempty" jsonschema:"ambient temperature in Celsius (Environment only)"`
	Humidity    string     `json:"humidity,omitempty" jsonschema:"ambient humidity percentage (Environment only)"`
	Room        string     `json:"room,omitempty" jsonschema:"sewing room A, B or H (Product only)"`
	Line        string     `json:"line,omitempty" jsonschema:"production line within the room (Product only)"`
	SemiSets    []SetInput `json:"semi_sets,omitempty" jsonschema:"semi-finished goods readings (Product only)"`
	ProductSets []SetInput `json:"product_sets,omitempty" jsonschema:"finished product readings (Product only)"`
}

type GetRecordInput struct {
	ID string `json:"id" jsonschema:"record identifier"`
}

type ListRecordsInput struct {
	Factory    string `json:"factory,omitempty"`
	Department string `json:"department,omitempty"`
	Type       string `json:"type,omitempty" jsonschema:"Environment or Product"`
	Status     string `json:"status,omitempty" jsonschema:"Take Action, Resolved or No action needed"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

type DashboardInput struct {
	Factory    string `json:"factory,omitempty"`
	Department string `json:"department,omitempty"`
	Type       string `json:"type,omitempty" jsonschema:"Environment or Product"`
}

type PositionInput struct {
	Fabric   string `json:"fabric" jsonschema:"fabric standard label at this position"`
	Humidity string `json:"humidity" jsonschema:"measured humidity percentage at this position"`
}

type SpotCheckInput struct {
	ID        string          `json:"id" jsonschema:"Environment record identifier"`
	Positions []PositionInput `json:"positions" jsonschema:"exactly four readings taken around the area"`
}

type RecheckInput struct {
	ID          string     `json:"id" jsonschema:"Product record identifier"`
	SemiSets    []SetInput `json:"semi_sets,omitempty"`
	ProductSets []SetInput `json:"product_sets,omitempty"`
}

type RecordActivityInput struct {
	ID    string   `json:"id" jsonschema:"record identifier"`
	Types []string `json:"types,omitempty" jsonschema:"only these event types: record_created, spot_check_submitted, product_recheck_submitted"`
	Limit int      `json:"limit,omitempty"`
}

// Tool outputs

type StandardOutput struct {
	Label string  `json:"label"`
	Limit float64 `json:"limit"`
}

type ListStandardsOutput struct {
	Standards []StandardOutput `json:"standards"`
}

type ClassifyOutput struct {
	Fabric         string  `json:"fabric"`
	Humidity       string  `json:"humidity"`
	Classified     bool    `json:"classified"`
	Classification string  `json:"classification,omitempty"`
	Limit          float64 `json:"limit,omitempty"`
}

type PolicyOutput struct {
	Department            string   `json:"department"`
	DangerThreshold       float64  `json:"danger_threshold"`
	TimeSlots             []string `json:"time_slots"`
	SupportsProductChecks bool     `json:"supports_product_checks"`
	Guidance              string   `json:"guidance,omitempty"`
}

type SetOutput struct {
	OrderRef       string `json:"order_ref,omitempty"`
	PORef          string `json:"po_ref,omitempty"`
	Fabric         string `json:"fabric,omitempty"`
	Humidity       string `json:"humidity,omitempty"`
	Classification string `json:"classification,omitempty"`
}

type SectionOutput struct {
	Sets []SetOutput `json:"sets"`
	Risk string      `json:"risk,omitempty"`
}

type CheckRoundOutput struct {
	Positions []PositionInput `json:"positions"`
	Result    string          `json:"result"`
	CheckedAt string          `json:"checked_at"`
}

type HistoryOutput struct {
	Semi       SectionOutput `json:"semi"`
	Product    SectionOutput `json:"product"`
	CapturedAt string        `json:"captured_at"`
}

type RecordOutput struct {
	ID          string             `json:"id"`
	Factory     string             `json:"factory"`
	Department  string             `json:"department"`
	Type        string             `json:"type"`
	TimeSlot    string             `json:"time_slot"`
	Operator    string             `json:"operator"`
	Guidance    string             `json:"guidance,omitempty"`
	CreatedAt   string             `json:"created_at"`
	Revision    int64              `json:"revision"`
	Status      string             `json:"status"`
	Temperature string             `json:"temperature,omitempty"`
	Humidity    string             `json:"humidity,omitempty"`
	SpotChecks  []CheckRoundOutput `json:"spot_checks,omitempty"`
	Room        string             `json:"room,omitempty"`
	Line        string             `json:"line,omitempty"`
	Semi        *SectionOutput     `json:"semi,omitempty"`
	Product     *SectionOutput     `json:"product,omitempty"`
	History     []HistoryOutput    `json:"history,omitempty"`
}

type ListRecordsOutput struct {
	Records []RecordOutput `json:"records"`
}

type DateGroupOutput struct {
	Date      string   `json:"date"`
	RecordIDs []string `json:"record_ids"`
}

type DashboardOutput struct {
	Total      int               `json:"total"`
	TakeAction int               `json:"take_action"`
	Resolved   int               `json:"resolved"`
	Safe       int               `json:"safe"`
	ByDate     []DateGroupOutput `json:"by_date"`
}

type ActivityOutput struct {
	ID        int64             `json:"id"`
	Type      string            `json:"type"`
	Status    string            `json:"status,omitempty"`
	Summary   string            `json:"summary"`
	Details   map[string]string `json:"details,omitempty"`
	Revision  int64             `json:"revision"`
	CreatedAt string            `json:"created_at"`
}

type RecordActivityOutput struct {
	Entries []ActivityOutput `json:"entries"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func toStandardsOutput(stds []standard.FabricStandard) ListStandardsOutput {
	out := ListStandardsOutput{Standards: make([]StandardOutput, len(stds))}
	for i, s := range stds {
		out.Standards[i] = StandardOutput{Label: s.Label, Limit: s.Limit}
	}
	return out
}

func toPolicyOutput(p department.Policy) PolicyOutput {
	return PolicyOutput{
		Department:            p.Department,
		DangerThreshold:       p.DangerThreshold,
		TimeSlots:             p.TimeSlots,
		SupportsProductChecks: p.SupportsProductChecks,
		Guidance:              p.Guidance,
	}
}

func fromSetInputs(in []SetInput) []record.MeasurementSet {
	if in == nil {
		return nil
	}
	out := make([]record.MeasurementSet, len(in))
	for i, s := range in {
		out[i] = record.MeasurementSet{OrderRef: s.OrderRef, PORef: s.PORef, Fabric: s.Fabric, Humidity: s.Humidity}
	}
	return out
}

func toSectionOutput(section record.SectionView) SectionOutput {
	out := SectionOutput{Sets: make([]SetOutput, len(section.Sets)), Risk: string(section.Risk)}
	for i, s := range section.Sets {
		out.Sets[i] = SetOutput{
			OrderRef:       s.OrderRef,
			PORef:          s.PORef,
			Fabric:         s.Fabric,
			Humidity:       s.Humidity,
			Classification: string(s.Classification),
		}
	}
	return out
}

func toRecordOutput(view record.RecordView) RecordOutput {
	rec := view.Record
	out := RecordOutput{
		ID:          rec.ID,
		Factory:     rec.Factory,
		Department:  rec.Department,
		Type:        string(rec.Type),
		TimeSlot:    rec.TimeSlot,
		Operator:    rec.Operator,
		Guidance:    rec.Guidance,
		CreatedAt:   formatTime(rec.CreatedAt),
		Revision:    rec.Revision,
		Status:      string(view.Status),
		Temperature: rec.Temperature,
		Humidity:    rec.Humidity,
		Room:        rec.Room,
		Line:        rec.Line,
	}
	for _, round := range rec.Checks4Pts {
		positions := make([]PositionInput, len(round.Positions))
		for i, p := range round.Positions {
			positions[i] = PositionInput{Fabric: p.Fabric, Humidity: p.Humidity}
		}
		out.SpotChecks = append(out.SpotChecks, CheckRoundOutput{
			Positions: positions,
			Result:    string(round.Result),
			CheckedAt: formatTime(round.CheckedAt),
		})
	}
	if view.Semi != nil {
		semi := toSectionOutput(*view.Semi)
		out.Semi = &semi
	}
	if view.Product != nil {
		product := toSectionOutput(*view.Product)
		out.Product = &product
	}
	for _, h := range view.History {
		out.History = append(out.History, HistoryOutput{
			Semi:       toSectionOutput(h.Semi),
			Product:    toSectionOutput(h.Product),
			CapturedAt: formatTime(h.CapturedAt),
		})
	}
	return out
}

func toDashboardOutput(d record.Dashboard) DashboardOutput {
	out := DashboardOutput{
		Total:      d.Total,
		TakeAction: d.TakeAction,
		Resolved:   d.Resolved,
		Safe:       d.Safe,
		ByDate:     make([]DateGroupOutput, len(d.ByDate)),
	}
	for i, group := range d.ByDate {
		ids := make([]string, len(group.Records))
		for j, v := range group.Records {
			ids[j] = v.Record.ID
		}
		out.ByDate[i] = DateGroupOutput{Date: group.Date, RecordIDs: ids}
	}
	return out
}

func toActivityOutput(entries []activity.ActivityEntry) RecordActivityOutput {
	out := RecordActivityOutput{Entries: make([]ActivityOutput, len(entries))}
	for i, e := range entries {
		out.Entries[i] = ActivityOutput{
			ID:        e.ID,
			Type:      string(e.ActivityType),
			Status:    e.Status,
			Summary:   e.Summary,
			Details:   e.Details,
			Revision:  e.Revision,
			CreatedAt: formatTime(e.CreatedAt),
		}
	}
	return out
}
