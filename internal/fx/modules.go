package fx

import (
	"draft-assistant/internal/api"
	"draft-assistant/internal/config"
	"draft-assistant/internal/constants"
	"draft-assistant/internal/database"
	"draft-assistant/internal/logger"
	"draft-assistant/internal/repository"
	"draft-assistant/internal/server"
	"draft-assistant/internal/service"
	"draft-assistant/internal/store"
	"draft-assistant/internal/validate"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideFallback(cfg *config.Config, log zerolog.Logger) (*store.SnapshotStore, error) {
	return store.NewSnapshotStore(cfg.SnapshotPath, log)
}

func ProvideBackend(primary *repository.PlayerRepository, fallback *store.SnapshotStore, log zerolog.Logger) *store.Backend {
	return store.NewBackend(primary, fallback, constants.PrimaryStoreTimeout, log)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// stores
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(ProvideFallback),
	fx.Provide(ProvideBackend),
	// ingestion boundary
	fx.Provide(validate.New),
	fx.Provide(api.NewSleeperClient),
	fx.Provide(api.NewADPClient),
	fx.Provide(api.NewESPNClient),
	// svc
	fx.Provide(service.NewPoolService),
	fx.Provide(service.NewQueryService),
	fx.Provide(service.NewRecommendService),
	fx.Provide(service.NewTeamService),
	// server
	fx.Provide(server.NewAssistantServer),
)
