package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rpggio/hygrotrack/internal/repository"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

type tenantKey struct{}

// TenantResolver maps a bearer token to the tenant owning it. Unknown tokens
// return repository.ErrNotFound or ErrUnauthorized.
type TenantResolver interface {
	ResolveTenant(ctx context.Context, token string) (string, error)
}

func TenantFromContext(ctx context.Context) (string, bool) {
	tenantID, ok := ctx.Value(tenantKey{}).(string)
	return tenantID, ok && tenantID != ""
}

func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantKey{}, tenantID)
}

// bearerToken returns the credential of an "Authorization: Bearer" header.
// The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func rejectUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="hygrotrack"`)
	writeError(w, http.StatusUnauthorized, codeUnauthorized, message)
}

// AuthMiddleware puts the tenant owning the request's bearer token into the
// request context. A failing key store is a server error, not a 401.
func AuthMiddleware(resolver TenantResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				rejectUnauthorized(w, "missing bearer token")
				return
			}

			tenantID, err := resolver.ResolveTenant(r.Context(), token)
			switch {
			case errors.Is(err, repository.ErrNotFound), errors.Is(err, ErrUnauthorized):
				rejectUnauthorized(w, "invalid bearer token")
				return
			case err != nil:
				writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
				return
			case tenantID == "":
				rejectUnauthorized(w, "invalid bearer token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), tenantID)))
		})
	}
}

// StaticTenantMiddleware assigns every request to tenantID. It stands in for
// AuthMiddleware when authentication is disabled.
func StaticTenantMiddleware(tenantID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), tenantID)))
		})
	}
}
