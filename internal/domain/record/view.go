package record

import (
	"sort"
	"time"

	"github.com/rpggio/hygrotrack/internal/domain/compliance"
	"github.com/rpggio/hygrotrack/internal/domain/standard"
)

// SetView is a measurement set with its point classification.
type SetView struct {
	MeasurementSet
	Classification compliance.Classification `json:"classification,omitempty"`
}

// SectionView is one evaluated section. Risk is empty for an empty section.
type SectionView struct {
	Sets []SetView             `json:"sets"`
	Risk compliance.SectionRisk `json:"risk,omitempty"`
}

// HistoryView is an evaluated archived snapshot.
type HistoryView struct {
	Semi       SectionView `json:"semi"`
	Product    SectionView `json:"product"`
	CapturedAt time.Time   `json:"captured_at"`
}

// RecordView is a record with everything derived from it for display.
type RecordView struct {
	Record  Record        `json:"record"`
	Status  Status        `json:"status"`
	Semi    *SectionView  `json:"semi,omitempty"`
	Product *SectionView  `json:"product,omitempty"`
	History []HistoryView `json:"history,omitempty"`
}

// BuildView evaluates rec for display.
func BuildView(reg *standard.Registry, rec Record) RecordView {
	view := RecordView{
		Record: rec.Clone(),
		Status: ResolveStatus(reg, rec),
	}
	if rec.Type != TypeProduct {
		return view
	}

	semi := evaluateSection(reg, rec.SemiSets)
	product := evaluateSection(reg, rec.ProductSets)
	view.Semi = &semi
	view.Product = &product
	for _, h := range rec.ProductHistory {
		view.History = append(view.History, HistoryView{
			Semi:       evaluateSection(reg, h.SemiSets),
			Product:    evaluateSection(reg, h.ProductSets),
			CapturedAt: h.CapturedAt,
		})
	}
	return view
}

func evaluateSection(reg *standard.Registry, sets []MeasurementSet) SectionView {
	section := SectionView{Sets: make([]SetView, 0, len(sets))}
	for _, s := range sets {
		c, _ := compliance.Classify(reg, s.Fabric, s.Humidity)
		section.Sets = append(section.Sets, SetView{MeasurementSet: s, Classification: c})
	}
	if risk, ok := compliance.AggregateRisk(reg, sets); ok {
		section.Risk = risk
	}
	return section
}

// DateGroup holds the records created on one calendar day.
type DateGroup struct {
	Date    string       `json:"date"`
	Records []RecordView `json:"records"`
}

// Dashboard summarizes a filtered set of records.
type Dashboard struct {
	Total      int         `json:"total"`
	TakeAction int         `json:"take_action"`
	Resolved   int         `json:"resolved"`
	Safe       int         `json:"safe"`
	ByDate     []DateGroup `json:"by_date"`
}

// Summarize counts statuses and groups views by creation date, newest day first.
func Summarize(views []RecordView) Dashboard {
	d := Dashboard{Total: len(views), ByDate: []DateGroup{}}
	groups := map[string][]RecordView{}
	for _, v := range views {
		switch v.Status {
		case StatusTakeAction:
			d.TakeAction++
		case StatusResolved:
			d.Resolved++
		}
		day := v.Record.CreatedAt.Format(time.DateOnly)
		groups[day] = append(groups[day], v)
	}
	d.Safe = d.Total - d.TakeAction - d.Resolved

	days := make([]string, 0, len(groups))
	for day := range groups {
		days = append(days, day)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	for _, day := range days {
		d.ByDate = append(d.ByDate, DateGroup{Date: day, Records: groups[day]})
	}
	return d
}
