package middleware

import (
	"context"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/localblog/internal/errpage"
	"github.com/2beens/localblog/internal/localstore"
	"github.com/2beens/localblog/internal/telemetry/tracing"
)

//go:generate mockgen -source=auth.go -destination=mocks_test.go -package=middleware_test

type sessionReader interface {
	CurrentUser(ctx context.Context) (*localstore.User, error)
}

// AuthMiddlewareHandler lets reads through and requires a logged-in session
// for every write outside of the open paths.
type AuthMiddlewareHandler struct {
	sessions             sessionReader
	allowedPaths         map[string]bool
	allowedPathsPrefixes []string
}

func NewAuthMiddlewareHandler(sessions sessionReader) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		sessions: sessions,
		allowedPaths: map[string]bool{
			"/auth/signup": true,
			"/auth/login":  true,
			"/auth/logout": true,
			"/error":       true,
		},
		allowedPathsPrefixes: []string{
			"/errors/",
		},
	}
}

func (h *AuthMiddlewareHandler) pathIsAlwaysAllowed(path string) bool {
	if h.allowedPaths[path] {
		return true
	}
	for _, prefix := range h.allowedPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func isReadOnly(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if isReadOnly(r.Method) || h.pathIsAlwaysAllowed(r.URL.Path) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			user, err := h.sessions.CurrentUser(ctx)
			if err != nil {
				log.Errorf("[failed session check] => %s: %s", r.URL.Path, err)
				errpage.Respond(w, err, false)
				span.SetStatus(codes.Error, "session-check-err")
				span.RecordError(err)
				return
			}
			if user == nil {
				log.Tracef("[no session] [auth middleware] unauthorized => [%s] %s", r.Method, r.URL.Path)
				errpage.RespondStatus(w, http.StatusUnauthorized, "Please log in first.")
				span.SetStatus(codes.Error, "not-logged")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}
