package api

import (
	"net/http"

	"github.com/crewledger/seatime/internal/config"
	"github.com/crewledger/seatime/pkg/routes"
	"github.com/crewledger/seatime/pkg/storage"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Letters.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Records.Handler().Routes(),
		newStorageHandler(
			runtime.Storage,
			runtime.Logger,
			storage.MaxListCap,
		).routes(),
	)
}
