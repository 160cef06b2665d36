package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/collabify/relay/config"
	"github.com/collabify/relay/src/bridge"
	"github.com/collabify/relay/src/hub"
	"github.com/collabify/relay/src/server"
	"github.com/collabify/relay/src/service"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	logger := newLogger()

	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("no .env file loaded")
	}

	cfg := config.FromEnv()

	h := hub.New(cfg, logger)
	svc := service.New(h, logger)

	// Attempt the Redis bridge; the relay runs standalone without it.
	var br bridge.Bridge
	rb := bridge.NewRedisBridge(bridge.RedisConfigFromEnv(), h, logger)
	if err := rb.Start(); err != nil {
		logger.Warn().Err(err).Msg("redis bridge unavailable, running standalone")
	} else {
		br = rb
		h.SetBridge(rb)
	}

	srv := server.New(cfg, h, svc, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Listen() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server stopped")
	}

	if br != nil {
		if err := br.Stop(); err != nil {
			logger.Error().Err(err).Msg("bridge stop error")
		}
	}
	h.Shutdown()
	if err := srv.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && lvl != zerolog.NoLevel {
		level = lvl
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if os.Getenv("LOG_PRETTY") == "true" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return logger
}
