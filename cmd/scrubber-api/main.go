package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"scrubber/internal/platform/config"
	"scrubber/internal/platform/logger"
	phttp "scrubber/internal/platform/net/http"

	"scrubber/internal/services/api"
)

func main() {
	// best effort; real deployments set the environment directly
	_ = godotenv.Load()

	root := config.New()
	apiCfg := root.Prefix("SCRUBBER_API_")

	logger.Init(logger.FromEnv())
	l := logger.Get()

	// http server (reads SCRUBBER_API_PORT)
	srv := phttp.NewServer(apiCfg)

	if _, err := api.Mount(srv.Router(), api.Options{
		Config: apiCfg,
		Logger: l,
	}); err != nil {
		l.Panic().Err(err).Msg("api.Mount failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l.Info().Str("addr", srv.Addr()).Msg("scrubber api listening")
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
