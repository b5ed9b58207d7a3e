package main

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/crewledger/seatime/internal/config"
	"github.com/crewledger/seatime/internal/infrastructure"
)

// buildRouter mounts the API under its base path and exposes health probes
// outside it, so probes stay reachable regardless of auth configuration.
func buildRouter(
	infra *infrastructure.Infrastructure,
	cfg *config.Config,
	apiHandler http.Handler,
) http.Handler {
	mux := http.NewServeMux()

	base := strings.TrimSuffix(cfg.API.BasePath, "/")
	mux.Handle(base+"/", http.StripPrefix(base, apiHandler))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return mux
}
