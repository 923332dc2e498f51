package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"kbc-quiz-game/internal/config"
	"kbc-quiz-game/internal/infra/sound"
	transport "kbc-quiz-game/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg, *port)
		},
	}
}

func runServer(ctx context.Context, cfg config.Config, portFlag string) error {
	if cfg.Questions.Source == config.SourcePostgres {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	service, backends, err := buildGameService(ctx, cfg)
	if err != nil {
		return err
	}
	defer backends.close()

	sounds := sound.NewCatalog(cfg.Sounds)
	wsHandler := transport.NewWSHandler(service, sounds, cfg.Game, cfg.Questions.Topic)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     transport.NewRouter(service, sounds, wsHandler),
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("port", finalPort).Str("source", cfg.Questions.Source).Msg("starting game server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info().Msg("shutting down server...")
	case <-ctx.Done():
		log.Info().Msg("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
