package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tasklane/tasklane/internal/auth"
	"github.com/tasklane/tasklane/internal/identity"
	"github.com/tasklane/tasklane/internal/metrics"
	"github.com/tasklane/tasklane/internal/model"
)

// UserStore provisions user profiles during authentication.
// *repository.Repository satisfies this interface.
type UserStore interface {
	EnsureUser(ctx context.Context, user *model.User) error
}

// IdentityCache caches verified identities keyed by token hash.
// *cache.Cache satisfies this interface.
type IdentityCache interface {
	GetIdentity(ctx context.Context, tokenHash string) (*model.Identity, error)
	SetIdentity(ctx context.Context, tokenHash string, id *model.Identity) error
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Verifier identity.Verifier
	Users    UserStore
	Cache    IdentityCache
	Metrics  metrics.Recorder
}

// Auth returns a middleware that authenticates API requests.
// It extracts the bearer token from the Authorization header, verifies
// it against the identity provider, lazily provisions the user profile,
// and injects the verified identity into the request context.
// On any failure it short-circuits with 401 and never forwards.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, "Missing token")
				return
			}

			// Check cache first. A hit means the token was verified and
			// the profile provisioned within the cache TTL.
			tokenHash := hashToken(token)
			id, _ := cfg.Cache.GetIdentity(r.Context(), tokenHash)
			if id != nil {
				recorder.IncIdentityCacheHit()
				ctx := auth.ContextWithIdentity(r.Context(), id)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			recorder.IncIdentityCacheMiss()

			id, err := cfg.Verifier.Verify(r.Context(), token)
			if err != nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_token"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, "Invalid token")
				return
			}

			// Lazily provision the user profile from token claims.
			// Conditional create: concurrent first requests are safe.
			user := &model.User{
				UID:       id.Subject,
				Name:      id.Name,
				Email:     id.Email,
				AvatarURL: id.AvatarURL,
			}
			if err := cfg.Users.EnsureUser(r.Context(), user); err != nil {
				cfg.Logger.Error("profile provisioning failed during auth",
					slog.String("error", err.Error()),
					slog.String("subject", id.Subject),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, "Invalid token")
				return
			}

			// Cache the result; failures only cost a re-verify next time.
			_ = cfg.Cache.SetIdentity(r.Context(), tokenHash, id)

			cfg.Logger.Info("authentication successful",
				slog.String("subject", id.Subject),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := auth.ContextWithIdentity(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken extracts the bearer token from the Authorization header.
// Returns empty string if the header is missing or malformed.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

// hashToken returns the cache key for a token.
// Raw tokens are never used as Redis keys.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// writeAuthError writes a 401 Unauthorized response.
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
