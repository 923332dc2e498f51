package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"kbc-quiz-game/internal/app"
	"kbc-quiz-game/internal/config"
	"kbc-quiz-game/internal/domain"
	"kbc-quiz-game/internal/infra/gemini"
	"kbc-quiz-game/internal/infra/memory"
	pgloader "kbc-quiz-game/internal/infra/postgres"
	redisinfra "kbc-quiz-game/internal/infra/redis"
)

// backends holds the connections opened for a command; close releases them.
type backends struct {
	redis *redis.Client
	pool  *pgxpool.Pool
}

func (b *backends) close() {
	if b.pool != nil {
		b.pool.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
}

func openBackends(ctx context.Context, cfg config.Config) (*backends, error) {
	b := &backends{}
	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	if cfg.Questions.Source == config.SourcePostgres {
		if cfg.Postgres.URL == "" {
			return nil, fmt.Errorf("questions.source is postgres but postgres url not configured")
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			b.close()
			return nil, err
		}
		b.pool = pool
	}
	return b, nil
}

func buildQuestionProvider(cfg config.Config, b *backends) (app.QuestionProvider, error) {
	if cfg.Questions.Source == config.SourceAI {
		return gemini.NewGenerator(gemini.Config{
			APIKey:  cfg.Gemini.APIKey,
			BaseURL: cfg.Gemini.BaseURL,
			Model:   cfg.Gemini.Model,
			Timeout: config.TTLDuration(cfg.Gemini.Timeout, gemini.DefaultTimeout),
		}), nil
	}

	var loader memory.QuestionLoader
	switch cfg.Questions.Source {
	case config.SourceStatic, "":
		bundled, err := memory.BundledQuestionLoader()
		if err != nil {
			return nil, err
		}
		loader = bundled
	case config.SourcePostgres:
		loader = pgloader.NewQuestionLoader(b.pool)
	default:
		return nil, fmt.Errorf("unknown question source %q", cfg.Questions.Source)
	}

	ttl := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	if b.redis != nil {
		return redisinfra.NewQuestionRepository(b.redis, loader, ttl), nil
	}
	return memory.NewQuestionRepository(loader, ttl), nil
}

func buildSessionStore(cfg config.Config, b *backends) app.SessionRepository {
	if b.redis != nil {
		return redisinfra.NewSessionStore(b.redis, config.TTLDuration(cfg.Redis.TTL, 30*time.Minute))
	}
	return memory.NewSessionStore()
}

func buildGameService(ctx context.Context, cfg config.Config) (*app.GameService, *backends, error) {
	b, err := openBackends(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	provider, err := buildQuestionProvider(cfg, b)
	if err != nil {
		b.close()
		return nil, nil, err
	}
	log.Info().
		Str("source", cfg.Questions.Source).
		Bool("redis", b.redis != nil).
		Msg("question source ready")
	return app.NewGameService(buildSessionStore(cfg, b), provider, domain.DefaultLadder()), b, nil
}
