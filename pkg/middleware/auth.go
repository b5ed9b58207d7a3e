package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity carries the authenticated caller extracted from a verified bearer token.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// IdentityFrom returns the Identity stored in the request context, if any.
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok
}

// WithIdentity returns a context carrying the given identity.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// TokenVerifier validates a raw bearer token and returns the verified ID token.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*oidc.IDToken, error)
}

// NewVerifier builds a TokenVerifier through OIDC issuer discovery.
func NewVerifier(ctx context.Context, cfg *AuthConfig) (TokenVerifier, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("discover oidc issuer %s: %w", cfg.Issuer, err)
	}

	return provider.Verifier(&oidc.Config{ClientID: cfg.Audience}), nil
}

// Auth returns middleware that verifies bearer tokens and injects the caller
// Identity into the request context. Requests without a valid token are
// rejected with 401. Disabled auth passes every request through untouched.
func Auth(cfg *AuthConfig, verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	log := logger.With("middleware", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := bearerToken(r)
			if !ok {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			token, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				log.Warn("token verification failed", "error", err)
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}

			var claims struct {
				Email string `json:"email"`
				Name  string `json:"name"`
			}
			if err := token.Claims(&claims); err != nil {
				log.Warn("token claims parse failed", "error", err)
			}

			id := &Identity{
				Subject: token.Subject,
				Email:   claims.Email,
				Name:    claims.Name,
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
