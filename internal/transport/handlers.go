package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/hygrotrack/internal/domain/activity"
	"github.com/rpggio/hygrotrack/internal/domain/compliance"
	"github.com/rpggio/hygrotrack/internal/domain/department"
	"github.com/rpggio/hygrotrack/internal/domain/record"
	"github.com/rpggio/hygrotrack/internal/domain/standard"
)

const maxBodyBytes = 1 << 20

// reading accepts a humidity or temperature as either a JSON number or a
// string, and keeps it as text.
type reading string

func (v *reading) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = reading(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("reading must be a number or string: %w", err)
	}
	*v = reading(n.String())
	return nil
}

type setPayload struct {
	OrderRef string  `json:"order_ref"`
	PORef    string  `json:"po_ref"`
	Fabric   string  `json:"fabric"`
	Humidity reading `json:"humidity"`
}

func toSets(in []setPayload) []record.MeasurementSet {
	if in == nil {
		return nil
	}
	out := make([]record.MeasurementSet, len(in))
	for i, s := range in {
		out[i] = record.MeasurementSet{
			OrderRef: s.OrderRef,
			PORef:    s.PORef,
			Fabric:   s.Fabric,
			Humidity: string(s.Humidity),
		}
	}
	return out
}

type createRecordPayload struct {
	Factory     string       `json:"factory"`
	Department  string       `json:"department"`
	Type        record.Type  `json:"type"`
	TimeSlot    string       `json:"time_slot"`
	Operator    string       `json:"operator"`
	Temperature reading      `json:"temperature"`
	Humidity    reading      `json:"humidity"`
	Room        string       `json:"room"`
	Line        string       `json:"line"`
	SemiSets    []setPayload `json:"semi_sets"`
	ProductSets []setPayload `json:"product_sets"`
}

type positionPayload struct {
	Fabric   string  `json:"fabric"`
	Humidity reading `json:"humidity"`
}

type spotCheckPayload struct {
	Positions []positionPayload `json:"positions"`
}

type recheckPayload struct {
	SemiSets    []setPayload `json:"semi_sets"`
	ProductSets []setPayload `json:"product_sets"`
}

type classifyPayload struct {
	Fabric   string  `json:"fabric"`
	Humidity reading `json:"humidity"`
}

// ClassifyResponse is the verdict for one reading. Classification is null
// when the reading cannot be classified.
type ClassifyResponse struct {
	Fabric         string                     `json:"fabric"`
	Humidity       string                     `json:"humidity"`
	Classification *compliance.Classification `json:"classification"`
	Limit          *float64                   `json:"limit"`
}

type standardsResponse struct {
	Standards []standard.FabricStandard `json:"standards"`
}

type departmentsResponse struct {
	Factories   []string            `json:"factories"`
	Departments []department.Policy `json:"departments"`
	SewingLines map[string][]string `json:"sewing_lines"`
}

type recordsResponse struct {
	Records []record.RecordView `json:"records"`
}

type activityResponse struct {
	Entries []activity.ActivityEntry `json:"entries"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidJSON, err.Error())
		return false
	}
	return true
}

func (s *Server) handleListStandards(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, standardsResponse{Standards: s.records.Standards().Standards()})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyPayload
	if !decodeBody(w, r, &req) {
		return
	}

	reg := s.records.Standards()
	resp := ClassifyResponse{Fabric: req.Fabric, Humidity: string(req.Humidity)}
	if c, ok := compliance.Classify(reg, req.Fabric, string(req.Humidity)); ok {
		resp.Classification = &c
	}
	if std, ok := reg.Lookup(req.Fabric); ok {
		limit := std.Limit
		resp.Limit = &limit
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListDepartments(w http.ResponseWriter, _ *http.Request) {
	policies := make([]department.Policy, 0, len(department.Departments))
	for _, name := range department.Departments {
		policies = append(policies, department.PolicyFor(name))
	}
	writeJSON(w, http.StatusOK, departmentsResponse{
		Factories:   department.Factories,
		Departments: policies,
		SewingLines: department.SewingLines,
	})
}

func (s *Server) handleDepartmentPolicy(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	if !department.IsDepartment(name) {
		writeError(w, http.StatusNotFound, codeNotFound, fmt.Sprintf("unknown department %q", name))
		return
	}
	writeJSON(w, http.StatusOK, department.PolicyFor(name))
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := s.tenant(w, r)
	if !ok {
		return
	}
	var req createRecordPayload
	if !decodeBody(w, r, &req) {
		return
	}

	view, err := s.records.Create(r.Context(), tenantID, record.CreateRequest{
		Factory:     req.Factory,
		Department:  req.Department,
		Type:        req.Type,
		TimeSlot:    req.TimeSlot,
		Operator:    req.Operator,
		Temperature: string(req.Temperature),
		Humidity:    string(req.Humidity),
		Room:        req.Room,
		Line:        req.Line,
		SemiSets:    toSets(req.SemiSets),
		ProductSets: toSets(req.ProductSets),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := s.tenant(w, r)
	if !ok {
		return
	}
	opts, err := parseListOptions(r.URL.Query(), true)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, err.Error())
		return
	}

	views, err := s.records.List(r.Context(), tenantID, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recordsResponse{Records: views})
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := s.tenant(w, r)
	if !ok {
		return
	}
	view, err := s.records.View(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := s.tenant(w, r)
	if !ok {
		return
	}
	opts, err := parseListOptions(r.URL.Query(), false)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, err.Error())
		return
	}

	dashboard, err := s.records.Dashboard(r.Context(), tenantID, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (s *Server) handleSpotCheck(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := s.tenant(w, r)
	if !ok {
		return
	}
	var req spotCheckPayload
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Positions) != 4 {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "a spot check needs exactly 4 positions")
		return
	}

	var positions [4]record.Position
	for i, p := range req.Positions {
		positions[i] = record.Position{Fabric: p.Fabric, Humidity: string(p.Humidity)}
	}
	view, err := s.records.SubmitSpotCheck(r.Context(), tenantID, record.SpotCheckRequest{
		ID:        chi.URLParam(r, "id"),
		Positions: positions,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRecheck(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := s.tenant(w, r)
	if !ok {
		return
	}
	var req recheckPayload
	if !decodeBody(w, r, &req) {
		return
	}

	view, err := s.records.SubmitProductRecheck(r.Context(), tenantID, record.RecheckRequest{
		ID:          chi.URLParam(r, "id"),
		SemiSets:    toSets(req.SemiSets),
		ProductSets: toSets(req.ProductSets),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRecordActivity(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := s.tenant(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if _, err := s.records.View(r.Context(), tenantID, id); err != nil {
		s.fail(w, r, err)
		return
	}
	opts, err := parseActivityOptions(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidInput, err.Error())
		return
	}
	opts.RecordID = id

	entries, err := s.activity.GetRecentActivity(r.Context(), tenantID, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activityResponse{Entries: entries})
}

func parseListOptions(q url.Values, paging bool) (record.ListOptions, error) {
	opts := record.ListOptions{
		Factory:    q.Get("factory"),
		Department: q.Get("department"),
		Type:       record.Type(q.Get("type")),
	}
	switch opts.Type {
	case "", record.TypeEnvironment, record.TypeProduct:
	default:
		return opts, fmt.Errorf("unknown record type %q", opts.Type)
	}
	if !paging {
		return opts, nil
	}

	opts.Status = record.Status(q.Get("status"))
	switch opts.Status {
	case "", record.StatusTakeAction, record.StatusResolved, record.StatusNoActionNeeded:
	default:
		return opts, fmt.Errorf("unknown status %q", opts.Status)
	}

	var err error
	if opts.Limit, err = intParam(q, "limit"); err != nil {
		return opts, err
	}
	if opts.Offset, err = intParam(q, "offset"); err != nil {
		return opts, err
	}
	return opts, nil
}

func parseActivityOptions(q url.Values) (activity.ListActivityOptions, error) {
	var opts activity.ListActivityOptions
	for _, t := range q["type"] {
		opts.Types = append(opts.Types, activity.ActivityType(t))
	}
	if raw := q.Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return opts, fmt.Errorf("since must be an RFC 3339 timestamp")
		}
		opts.Since = since
	}

	var err error
	if opts.Limit, err = intParam(q, "limit"); err != nil {
		return opts, err
	}
	if opts.Offset, err = intParam(q, "offset"); err != nil {
		return opts, err
	}
	return opts, nil
}

func intParam(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}
