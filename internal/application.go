package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/mafia-arena-backend/internal/agent"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/config"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/engine"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/events"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/repository"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/repository/storage"
	"github.com/rocketscienceinc/mafia-arena-backend/internal/usecase"
	"github.com/rocketscienceinc/mafia-arena-backend/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	gameRepo := repository.NewGameRepository(redisStorage.Connection)
	playerRepo := repository.NewPlayerRepository(redisStorage.Connection)
	messageRepo := repository.NewMessageRepository(redisStorage.Connection)
	nightMessageRepo := repository.NewNightMessageRepository(redisStorage.Connection)
	voteRepo := repository.NewVoteRepository(redisStorage.Connection)
	eventRepo := repository.NewEventRepository(redisStorage.Connection)

	emitter := events.NewEmitter(logger, eventRepo)
	tracker := engine.NewRepetitionTracker()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	contextBuilder := agent.NewContextBuilder(gameRepo, playerRepo, messageRepo, nightMessageRepo, voteRepo, tracker)

	generator := agent.NewClient(
		conf.Generation.BaseURL,
		conf.Generation.APIKey,
		conf.Generation.Model,
		conf.Generation.Timeout(),
	)

	orchestrator := usecase.NewOrchestrator(logger, usecase.OrchestratorDeps{
		Games:         gameRepo,
		Players:       playerRepo,
		Messages:      messageRepo,
		NightMessages: nightMessageRepo,
		Votes:         voteRepo,
		Contexts:      contextBuilder,
		Generator:     generator,
		Emitter:       emitter,
		Tracker:       tracker,
		Rand:          rng,
	}, conf.Game, conf.Generation.Timeout())

	gameManager := usecase.NewGameManager(logger, gameRepo, playerRepo, orchestrator, conf.Game, rng)

	handlers := rest.NewHandlers(logger, gameManager, emitter, eventRepo)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(logger, conf.HTTPPort, handlers); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
