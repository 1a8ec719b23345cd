package api

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/auth"
	"github.com/jakechorley/voluntarios/pkg/core/model"
)

type contextKey string

const (
	claimsContextKey contextKey = "claims"
	holderContextKey contextKey = "claims-holder"
)

// ClaimsFromContext returns the authenticated caller, if any
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// requestLogger logs one line per request with its status and duration
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			holder := &claimsHolder{}

			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), holderContextKey, holder)))

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("remote_ip", r.RemoteAddr),
			}
			if holder.claims != nil {
				fields = append(fields, zap.String("user_id", holder.claims.UserID))
			}

			switch {
			case ww.Status() >= 500:
				logger.Error("HTTP request", fields...)
			case ww.Status() >= 400:
				logger.Warn("HTTP request", fields...)
			default:
				logger.Info("HTTP request", fields...)
			}
		})
	}
}

// claimsHolder lets authenticate publish the caller to requestLogger, which
// runs outside the authenticated route group
type claimsHolder struct {
	claims *auth.Claims
}

// authenticate requires a valid bearer access token and stores its claims in the request context
func authenticate(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeErrorCode(w, model.CodeUnauthenticated, "Missing authorization header")
				return
			}

			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found || tokenString == "" {
				writeErrorCode(w, model.CodeUnauthenticated, "Invalid authorization header format")
				return
			}

			claims, err := tokens.ParseAccessToken(tokenString)
			if err != nil {
				writeErrorCode(w, model.CodeOf(err), err.Error())
				return
			}

			if holder, ok := r.Context().Value(holderContextKey).(*claimsHolder); ok {
				holder.claims = claims
			}
			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireRole rejects callers whose role is not one of roles
func requireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeErrorCode(w, model.CodeUnauthenticated, "Authentication required")
				return
			}
			if !slices.Contains(roles, claims.Role) {
				writeErrorCode(w, model.CodeNotAuthorized, "Access denied for role "+string(claims.Role))
				return
			}
			if claims.Role == model.RoleOrgAdmin && claims.OrgID == "" {
				writeErrorCode(w, model.CodeNotAuthorized, "Account is not linked to an organization")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// mustClaims returns the caller of a route behind authenticate
func mustClaims(r *http.Request) *auth.Claims {
	claims, _ := ClaimsFromContext(r.Context())
	return claims
}
