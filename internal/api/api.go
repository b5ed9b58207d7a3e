// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/crewledger/seatime/internal/config"
	"github.com/crewledger/seatime/internal/infrastructure"
	"github.com/crewledger/seatime/pkg/middleware"
)

// New assembles the API handler: domain systems, route registration, and the
// middleware stack. The returned handler expects the API base path already
// stripped by the caller.
func New(
	ctx context.Context,
	cfg *config.Config,
	infra *infrastructure.Infrastructure,
) (http.Handler, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime)

	var verifier middleware.TokenVerifier
	if cfg.API.Auth.Enabled {
		v, err := middleware.NewVerifier(ctx, &cfg.API.Auth)
		if err != nil {
			return nil, fmt.Errorf("auth verifier init failed: %w", err)
		}
		verifier = v
	}

	stack := middleware.New()
	stack.Use(middleware.Logger(runtime.Logger))
	stack.Use(middleware.CORS(&cfg.API.CORS))
	stack.Use(middleware.Auth(&cfg.API.Auth, verifier, runtime.Logger))

	return stack.Apply(mux), nil
}
