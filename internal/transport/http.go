package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rpggio/hygrotrack/internal/domain/activity"
	"github.com/rpggio/hygrotrack/internal/domain/record"
	"github.com/rpggio/hygrotrack/internal/domain/standard"
)

// RecordService defines record operations served over HTTP.
type RecordService interface {
	Standards() *standard.Registry
	Create(ctx context.Context, tenantID string, req record.CreateRequest) (*record.RecordView, error)
	View(ctx context.Context, tenantID, id string) (*record.RecordView, error)
	List(ctx context.Context, tenantID string, opts record.ListOptions) ([]record.RecordView, error)
	Dashboard(ctx context.Context, tenantID string, opts record.ListOptions) (*record.Dashboard, error)
	SubmitSpotCheck(ctx context.Context, tenantID string, req record.SpotCheckRequest) (*record.RecordView, error)
	SubmitProductRecheck(ctx context.Context, tenantID string, req record.RecheckRequest) (*record.RecordView, error)
}

// ActivityService defines activity operations served over HTTP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains the domain services behind the API.
type Services struct {
	Records  RecordService
	Activity ActivityService
}

// Config contains HTTP server wiring.
type Config struct {
	Services Services
	// AuthMiddleware guards /api. Nil leaves the API open.
	AuthMiddleware func(http.Handler) http.Handler
	// MCPHandler is mounted at /mcp when set. It authenticates on its own.
	MCPHandler  http.Handler
	CORSOrigins []string
	Logger      *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	records  RecordService
	activity ActivityService
	logger   *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(cfg Config) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", "Mcp-Session-Id"},
			MaxAge:         300,
		}))
	}

	srv := &Server{
		records:  cfg.Services.Records,
		activity: cfg.Services.Activity,
		logger:   logger,
	}

	r.Get("/health", srv.handleHealth)

	r.Route("/api", func(r chi.Router) {
		if cfg.AuthMiddleware != nil {
			r.Use(cfg.AuthMiddleware)
		}

		r.Get("/standards", srv.handleListStandards)
		r.Post("/classify", srv.handleClassify)
		r.Get("/departments", srv.handleListDepartments)
		r.Get("/departments/{name}/policy", srv.handleDepartmentPolicy)
		r.Get("/dashboard", srv.handleDashboard)

		r.Route("/records", func(r chi.Router) {
			r.Post("/", srv.handleCreateRecord)
			r.Get("/", srv.handleListRecords)
			r.Get("/{id}", srv.handleGetRecord)
			r.Post("/{id}/spot-checks", srv.handleSpotCheck)
			r.Post("/{id}/rechecks", srv.handleRecheck)
			r.Get("/{id}/activity", srv.handleRecordActivity)
		})
	})

	if cfg.MCPHandler != nil {
		r.Handle("/mcp", cfg.MCPHandler)
		r.Handle("/mcp/*", cfg.MCPHandler)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) tenant(w http.ResponseWriter, r *http.Request) (string, bool) {
	tenantID, ok := TenantFromContext(r.Context())
	if !ok || tenantID == "" {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing tenant")
		return "", false
	}
	return tenantID, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := mapError(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, status, code, "internal error")
		return
	}
	writeError(w, status, code, err.Error())
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
