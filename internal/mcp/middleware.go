package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const tenantIDKey contextKey = iota

// errUnauthorized is wrapped by every authentication failure.
var errUnauthorized = errors.New("unauthorized")

// getTenantID extracts tenant ID from context.
func getTenantID(ctx context.Context) string {
	v, _ := ctx.Value(tenantIDKey).(string)
	return v
}

// TenantResolver resolves a tenant ID from a bearer token.
type TenantResolver interface {
	ResolveTenant(ctx context.Context, token string) (string, error)
}

// publicMethods expose nothing tenant-scoped: the handshake, discovery and
// the shared reference documents.
var publicMethods = map[string]bool{
	"initialize":               true,
	"ping":                     true,
	"tools/list":               true,
	"prompts/list":             true,
	"resources/list":           true,
	"resources/templates/list": true,
	"resources/read":           true,
}

func isPublic(method string) bool {
	return publicMethods[method] || strings.HasPrefix(method, "notifications/")
}

// authMiddleware resolves the bearer token of each tenant-scoped call.
func authMiddleware(resolver TenantResolver, logger *slog.Logger) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if isPublic(method) {
				return next(ctx, method, req)
			}

			tenantID, err := authenticate(ctx, resolver, req)
			if err != nil {
				logger.Warn("mcp auth rejected", "method", method, "error", err)
				return nil, err
			}
			return next(context.WithValue(ctx, tenantIDKey, tenantID), method, req)
		}
	}
}

func authenticate(ctx context.Context, resolver TenantResolver, req sdkmcp.Request) (string, error) {
	extra := req.GetExtra()
	if extra == nil || extra.Header == nil {
		return "", fmt.Errorf("%w: missing headers", errUnauthorized)
	}
	token := strings.TrimSpace(strings.TrimPrefix(extra.Header.Get("Authorization"), "Bearer "))
	if token == "" {
		return "", fmt.Errorf("%w: missing bearer token", errUnauthorized)
	}
	if resolver == nil {
		return "", fmt.Errorf("%w: no key store configured", errUnauthorized)
	}
	tenantID, err := resolver.ResolveTenant(ctx, token)
	if err != nil || tenantID == "" {
		return "", fmt.Errorf("%w: invalid bearer token", errUnauthorized)
	}
	return tenantID, nil
}

// noAuthMiddleware assigns every call to tenantID.
func noAuthMiddleware(tenantID string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			return next(context.WithValue(ctx, tenantIDKey, tenantID), method, req)
		}
	}
}
