package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mining-chatbot/internal/data/cache"
	"mining-chatbot/internal/data/repository"
	"mining-chatbot/internal/usecase"
	"mining-chatbot/internal/wire"
	redisclient "mining-chatbot/pkg/cache"
	"mining-chatbot/pkg/database"
	"mining-chatbot/pkg/events"
	"mining-chatbot/pkg/llm"
	"mining-chatbot/pkg/mailer"
	"mining-chatbot/pkg/speech"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	config, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("verification_mode", config.OTP.Mode),
		zap.String("llm_provider", config.LLM.Provider),
	)

	db, err := database.InitDB(config.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()
	logger.Info("Database connected successfully")

	rdb, err := redisclient.InitRedis(config.Redis, logger)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rdb.Close()

	sender, err := mailer.New(config.Email, logger)
	if err != nil {
		return fmt.Errorf("init mailer: %w", err)
	}

	llmClient, err := llm.New(ctx, config.LLM, logger)
	if err != nil {
		return fmt.Errorf("init llm client: %w", err)
	}

	publisher := events.New(config.Kafka.Brokers, config.Kafka.Topic, logger)
	defer publisher.Close()

	deps := usecase.Deps{
		Mailer:   sender,
		Events:   publisher,
		LLM:      llmClient,
		Sessions: cache.NewChatSessionCache(rdb, config.Redis.SessionTTL, logger),
	}
	if config.Voice.Transcribe {
		transcriber, err := speech.NewGeminiTranscriber(ctx, config.Voice.APIKey, config.Voice.Model, logger)
		if err != nil {
			return fmt.Errorf("init transcriber: %w", err)
		}
		deps.Transcriber = transcriber
	}

	repos := repository.NewRepository(db, logger)
	app := wire.Wiring(repos, deps, config, logger)

	return APIServer(ctx, app.Router, config.App.Port, logger)
}

// APIServer serves route until ctx is cancelled, then drains in-flight
// requests.
func APIServer(ctx context.Context, route *chi.Mux, port string, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           route,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
