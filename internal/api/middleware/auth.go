package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/eduassist/chat-backend/internal/entity"
	"github.com/eduassist/chat-backend/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ProfileVerifier exchanges a bearer token for the caller's profile.
type ProfileVerifier interface {
	GetProfile(ctx context.Context, token string) (*entity.UserProfile, error)
}

type profileContextKey struct{}

// ProfileFromContext returns the authenticated profile installed by Auth.
func ProfileFromContext(ctx context.Context) (*entity.UserProfile, bool) {
	profile, ok := ctx.Value(profileContextKey{}).(*entity.UserProfile)
	return profile, ok
}

// Auth requires a bearer token and resolves it to a profile through the
// identity service. A missing token is 401; a rejected one is 403.
func Auth(verifier ProfileVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := bearerToken(r)
			if token == "" {
				ctxzap.Warn(ctx, "request without bearer token",
					zap.String("path", r.URL.Path),
				)
				response.Error(w, http.StatusUnauthorized, entity.ErrTokenMissing.Error())
				return
			}

			profile, err := verifier.GetProfile(ctx, token)
			if err != nil {
				ctxzap.Warn(ctx, "token verification failed", zap.Error(err))
				response.Error(w, http.StatusForbidden, entity.ErrForbidden.Error())
				return
			}

			ctx = context.WithValue(ctx, profileContextKey{}, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
