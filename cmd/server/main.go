package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/api"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/config"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/constants"
	fxmodules "github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/fx"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/middleware"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/server"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runServer),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	battleServer *server.BattleServer,
	remote *api.RemoteClient,
	cfg *config.Config,
	logger zerolog.Logger,
) {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-ID"},
	})

	handler := middleware.RequestID(logger)(middleware.Recover(c.Handler(battleServer.Routes())))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           http.TimeoutHandler(handler, constants.RequestTimeout, "request timed out"),
		ReadHeaderTimeout: constants.RequestTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().
					Str("addr", srv.Addr).
					Str("remote_store", remote.BaseURL()).
					Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
