package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/hygrotrack/internal/domain/activity"
	"github.com/rpggio/hygrotrack/internal/domain/record"
	"github.com/rpggio/hygrotrack/internal/domain/standard"
	"github.com/stretchr/testify/require"
)

// stubRecords serves canned results; unset funcs fail the test.
type stubRecords struct {
	t         *testing.T
	create    func(tenantID string, req record.CreateRequest) (*record.RecordView, error)
	view      func(tenantID, id string) (*record.RecordView, error)
	list      func(tenantID string, opts record.ListOptions) ([]record.RecordView, error)
	dashboard func(tenantID string, opts record.ListOptions) (*record.Dashboard, error)
	spotCheck func(tenantID string, req record.SpotCheckRequest) (*record.RecordView, error)
	recheck   func(tenantID string, req record.RecheckRequest) (*record.RecordView, error)
}

func (s *stubRecords) Standards() *standard.Registry { return standard.Default() }

func (s *stubRecords) Create(_ context.Context, tenantID string, req record.CreateRequest) (*record.RecordView, error) {
	require.NotNil(s.t, s.create, "unexpected Create")
	return s.create(tenantID, req)
}

func (s *stubRecords) View(_ context.Context, tenantID, id string) (*record.RecordView, error) {
	require.NotNil(s.t, s.view, "unexpected View")
	return s.view(tenantID, id)
}

func (s *stubRecords) List(_ context.Context, tenantID string, opts record.ListOptions) ([]record.RecordView, error) {
	require.NotNil(s.t, s.list, "unexpected List")
	return s.list(tenantID, opts)
}

func (s *stubRecords) Dashboard(_ context.Context, tenantID string, opts record.ListOptions) (*record.Dashboard, error) {
	require.NotNil(s.t, s.dashboard, "unexpected Dashboard")
	return s.dashboard(tenantID, opts)
}

func (s *stubRecords) SubmitSpotCheck(_ context.Context, tenantID string, req record.SpotCheckRequest) (*record.RecordView, error) {
	require.NotNil(s.t, s.spotCheck, "unexpected SubmitSpotCheck")
	return s.spotCheck(tenantID, req)
}

func (s *stubRecords) SubmitProductRecheck(_ context.Context, tenantID string, req record.RecheckRequest) (*record.RecordView, error) {
	require.NotNil(s.t, s.recheck, "unexpected SubmitProductRecheck")
	return s.recheck(tenantID, req)
}

type stubActivity struct {
	entries []activity.ActivityEntry
	opts    activity.ListActivityOptions
}

func (s *stubActivity) GetRecentActivity(_ context.Context, _ string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	s.opts = opts
	return s.entries, nil
}

func newTestRouter(t *testing.T, records *stubRecords, acts *stubActivity) http.Handler {
	t.Helper()
	records.t = t
	if acts == nil {
		acts = &stubActivity{}
	}
	return NewServer(Config{
		Services:       Services{Records: records, Activity: acts},
		AuthMiddleware: StaticTenantMiddleware("tenant1"),
	})
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Code
}

func TestHTTPServer_Health(t *testing.T) {
	h := NewServer(Config{})

	rec := serve(h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestHTTPServer_NoTenant(t *testing.T) {
	h := NewServer(Config{Services: Services{Records: &stubRecords{t: t}, Activity: &stubActivity{}}})

	rec := serve(h, http.MethodGet, "/api/records", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, codeUnauthorized, errorCode(t, rec))
}

func TestHTTPServer_CreateRecord(t *testing.T) {
	var got record.CreateRequest
	records := &stubRecords{create: func(tenantID string, req record.CreateRequest) (*record.RecordView, error) {
		require.Equal(t, "tenant1", tenantID)
		got = req
		return &record.RecordView{Record: record.Record{ID: "r1"}, Status: record.StatusTakeAction}, nil
	}}
	h := newTestRouter(t, records, nil)

	rec := serve(h, http.MethodPost, "/api/records/",
		`{"factory":"TTT","department":"Print","operator":"A","temperature":30,"humidity":"52.5"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "30", got.Temperature)
	require.Equal(t, "52.5", got.Humidity)

	var view record.RecordView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	require.Equal(t, "r1", view.Record.ID)
	require.Equal(t, record.StatusTakeAction, view.Status)
}

func TestHTTPServer_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid", record.ErrInvalidInput, http.StatusBadRequest, codeInvalidInput},
		{"not found", record.ErrRecordNotFound, http.StatusNotFound, codeNotFound},
		{"conflict", record.ErrConflict, http.StatusConflict, codeConflict},
		{"wrong type", record.ErrWrongRecordType, http.StatusUnprocessableEntity, codeWrongRecordType},
		{"not required", record.ErrFollowUpNotRequired, http.StatusUnprocessableEntity, codeFollowUpRejected},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, codeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := &stubRecords{view: func(string, string) (*record.RecordView, error) {
				return nil, tt.err
			}}
			rec := serve(newTestRouter(t, records, nil), http.MethodGet, "/api/records/r1", "")
			require.Equal(t, tt.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			require.Equal(t, tt.code, body.Code)
			require.NotContains(t, body.Message, "disk on fire")
		})
	}
}

func TestHTTPServer_SpotCheckPositions(t *testing.T) {
	var got record.SpotCheckRequest
	records := &stubRecords{spotCheck: func(_ string, req record.SpotCheckRequest) (*record.RecordView, error) {
		got = req
		return &record.RecordView{Record: record.Record{ID: req.ID}, Status: record.StatusResolved}, nil
	}}
	h := newTestRouter(t, records, nil)

	rec := serve(h, http.MethodPost, "/api/records/r1/spot-checks",
		`{"positions":[{"fabric":"100% Cotton","humidity":50},{"fabric":"100% Cotton","humidity":50},{"fabric":"100% Cotton","humidity":50}]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, codeInvalidInput, errorCode(t, rec))

	rec = serve(h, http.MethodPost, "/api/records/r1/spot-checks",
		`{"positions":[{"fabric":"100% Cotton","humidity":50},{"fabric":"100% Cotton","humidity":51},{"fabric":"100% Cotton","humidity":52},{"fabric":"100% Cotton","humidity":"53"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "r1", got.ID)
	require.Equal(t, "51", got.Positions[1].Humidity)
	require.Equal(t, "53", got.Positions[3].Humidity)
}

func TestHTTPServer_ListOptions(t *testing.T) {
	var got record.ListOptions
	records := &stubRecords{list: func(_ string, opts record.ListOptions) ([]record.RecordView, error) {
		got = opts
		return []record.RecordView{}, nil
	}}
	h := newTestRouter(t, records, nil)

	rec := serve(h, http.MethodGet, "/api/records?factory=TN&type=Product&status=Take%20Action&limit=5&offset=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, record.ListOptions{
		Factory: "TN",
		Type:    record.TypeProduct,
		Status:  record.StatusTakeAction,
		Limit:   5,
		Offset:  10,
	}, got)

	rec = serve(h, http.MethodGet, "/api/records?type=Ambient", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h, http.MethodGet, "/api/records?offset=x", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPServer_RecordActivity(t *testing.T) {
	records := &stubRecords{view: func(_ string, id string) (*record.RecordView, error) {
		return &record.RecordView{Record: record.Record{ID: id}}, nil
	}}
	acts := &stubActivity{entries: []activity.ActivityEntry{{
		ID:           1,
		RecordID:     "r1",
		ActivityType: activity.TypeRecordCreated,
		CreatedAt:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}}}
	h := newTestRouter(t, records, acts)

	rec := serve(h, http.MethodGet, "/api/records/r1/activity?limit=20&type=record_created&type=spot_check_submitted&since=2026-03-01T00:00:00Z", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "r1", acts.opts.RecordID)
	require.Equal(t, 20, acts.opts.Limit)
	require.Equal(t, []activity.ActivityType{activity.TypeRecordCreated, activity.TypeSpotCheckSubmitted}, acts.opts.Types)
	require.True(t, acts.opts.Since.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))

	var body struct {
		Entries []activity.ActivityEntry `json:"entries"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Entries, 1)
	require.Equal(t, activity.TypeRecordCreated, body.Entries[0].ActivityType)

	rec = serve(h, http.MethodGet, "/api/records/r1/activity?since=yesterday", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPServer_Classify(t *testing.T) {
	h := newTestRouter(t, &stubRecords{}, nil)

	rec := serve(h, http.MethodPost, "/api/classify", `{"fabric":"100% Cotton","humidity":56}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp ClassifyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Classification)
	require.Equal(t, "Potential Risk", string(*resp.Classification))
	require.Equal(t, 56.0, *resp.Limit)

	rec = serve(h, http.MethodPost, "/api/classify", `{"fabric":"Silk","humidity":56}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = ClassifyResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Nil(t, resp.Classification)
	require.Nil(t, resp.Limit)

	rec = serve(h, http.MethodPost, "/api/classify", `{"fabric":"Silk","humidity":true}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, codeInvalidJSON, errorCode(t, rec))
}

func TestHTTPServer_Departments(t *testing.T) {
	h := newTestRouter(t, &stubRecords{}, nil)

	rec := serve(h, http.MethodGet, "/api/departments", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp departmentsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Departments, 14)
	require.Equal(t, []string{"TTT", "TN", "TM2", "VAS"}, resp.Factories)
	require.Len(t, resp.SewingLines["H"], 5)
}

func TestHTTPServer_CORS(t *testing.T) {
	h := NewServer(Config{CORSOrigins: []string{"https://qa.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/health", nil)
	req.Header.Set("Origin", "https://qa.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "https://qa.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHTTPServer_MountsMCP(t *testing.T) {
	var path string
	mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusAccepted)
	})
	h := NewServer(Config{
		AuthMiddleware: func(http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			})
		},
		MCPHandler: mcpHandler,
	})

	rec := serve(h, http.MethodPost, "/mcp", `{}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, "/mcp", path)
}
