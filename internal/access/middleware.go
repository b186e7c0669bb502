package access

import (
	"context"
	"log/slog"
	"net/http"

	"nexuscomply/pkg/domain"
	"nexuscomply/pkg/requestcontext"
)

// PrincipalSource yields the current principal, nil when signed out.
type PrincipalSource interface {
	Current(ctx context.Context) *domain.Principal
}

type contextKeyPrincipal struct{}

// WithPrincipal stores a principal snapshot in ctx.
func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, contextKeyPrincipal{}, p)
}

// PrincipalFrom returns the principal stored by Require, or nil.
func PrincipalFrom(ctx context.Context) *domain.Principal {
	if p, ok := ctx.Value(contextKeyPrincipal{}).(*domain.Principal); ok {
		return p
	}
	return nil
}

// Require returns middleware that lets a request through only when the
// current principal holds capability c. Denials are resolved to redirects:
// signed out to /login, forced password change to /change-password, role
// mismatch to /dashboard. No error message is produced for role mismatches.
func Require(src PrincipalSource, c Capability, logger *slog.Logger) func(http.Handler) http.Handler {
	route := Route{Capability: c}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			p := src.Current(ctx)

			decision := Decide(route, p)
			if decision != Allow {
				logger.DebugContext(ctx, "route gated",
					"capability", c.String(),
					"decision", decision.String(),
					"request_id", requestcontext.RequestID(ctx),
				)
				http.Redirect(w, r, decision.Target(), http.StatusFound)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, p)))
		})
	}
}
