package fx

import (
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/api"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/config"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/logger"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/repository"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/server"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/service"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/storage"

	"go.uber.org/fx"
)

var Module = fx.Options(
	config.Module,
	logger.Module,
	// local fallback store
	fx.Provide(storage.New),
	// repos
	fx.Provide(repository.NewInviteRepository),
	fx.Provide(repository.NewBattleRepository),
	// remote store client
	fx.Provide(api.NewRemoteClient),
	// svc
	fx.Provide(service.NewInviteService),
	fx.Provide(service.NewBattleService),
	// server
	fx.Provide(server.NewBattleServer),
)
