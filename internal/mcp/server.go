package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/hygrotrack/internal/domain/activity"
	"github.com/rpggio/hygrotrack/internal/domain/record"
	"github.com/rpggio/hygrotrack/internal/domain/standard"
)

// DefaultTenant is used for every call when authentication is off.
const DefaultTenant = "default"

// RecordService defines record operations needed by MCP.
type RecordService interface {
	Standards() *standard.Registry
	Create(ctx context.Context, tenantID string, req record.CreateRequest) (*record.RecordView, error)
	View(ctx context.Context, tenantID, id string) (*record.RecordView, error)
	List(ctx context.Context, tenantID string, opts record.ListOptions) ([]record.RecordView, error)
	Dashboard(ctx context.Context, tenantID string, opts record.ListOptions) (*record.Dashboard, error)
	SubmitSpotCheck(ctx context.Context, tenantID string, req record.SpotCheckRequest) (*record.RecordView, error)
	SubmitProductRecheck(ctx context.Context, tenantID string, req record.RecheckRequest) (*record.RecordView, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Records  RecordService
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      TenantResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Version       string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "hygrotrack",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server, cfg.Services.Records.Standards())

	// Later middleware wraps earlier middleware, so auth runs before logging
	// and the logged context carries the tenant.
	server.AddReceivingMiddleware(trafficLoggingMiddleware(logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))

	// Stdio is a local, single-user transport: auth is always off.
	if cfg.TransportMode == "stdio" || !cfg.AuthEnabled {
		server.AddReceivingMiddleware(noAuthMiddleware(DefaultTenant))
	} else {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver, logger))
	}

	registerTools(server, cfg.Services)

	return server
}
