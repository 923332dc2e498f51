package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"kbc-quiz-game/internal/domain"
)

// QuestionLoader fetches a topic's question set from a backing store.
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, topic domain.Topic) ([]domain.Question, error)
}

// QuestionRepository caches whole question sets in Redis and falls back to a loader on a miss.
// Sets are stored as JSON: SET kbc:questions:{topic} [...questions]
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) FetchQuestions(ctx context.Context, req domain.QuestionRequest) ([]domain.Question, error) {
	key := r.key(req.Topic)
	if qs, ok := r.cached(ctx, key); ok {
		return qs, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another caller filled it.
		if qs, ok := r.cached(ctx, key); ok {
			return qs, nil
		}

		qs, err := r.loader.LoadQuestions(ctx, req.Topic)
		if err != nil {
			return nil, err
		}

		payload, err := json.Marshal(qs)
		if err != nil {
			return nil, err
		}
		if err := r.client.Set(ctx, key, payload, r.ttlWithJitter()).Err(); err != nil {
			// the set is still usable without the cache
			log.Warn().Err(err).Str("key", key).Msg("cache question set")
		}
		return qs, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// Invalidate removes a cached topic, e.g. after reseeding.
func (r *QuestionRepository) Invalidate(ctx context.Context, topic domain.Topic) error {
	return r.client.Del(ctx, r.key(topic)).Err()
}

func (r *QuestionRepository) cached(ctx context.Context, key string) ([]domain.Question, bool) {
	payload, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("read cached question set")
		}
		return nil, false
	}
	var qs []domain.Question
	if err := json.Unmarshal(payload, &qs); err != nil || len(qs) == 0 {
		return nil, false
	}
	return qs, true
}

func (r *QuestionRepository) key(topic domain.Topic) string {
	return "kbc:questions:" + string(topic)
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
