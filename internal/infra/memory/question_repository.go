package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"kbc-quiz-game/internal/domain"
)

// QuestionLoader fetches a topic's question set from a backing store (bundled bank, Postgres).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, topic domain.Topic) ([]domain.Question, error)
}

// QuestionRepository caches question sets per topic with TTL to avoid repeated loads.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[domain.Topic]cachedSet
}

type cachedSet struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[domain.Topic]cachedSet),
	}
}

// FetchQuestions returns the cached set for the request topic, loading it on a miss.
// Callers get their own copy of the slice.
func (r *QuestionRepository) FetchQuestions(ctx context.Context, req domain.QuestionRequest) ([]domain.Question, error) {
	topic := req.Topic
	if qs, ok := r.lookup(topic, r.clock()); ok {
		return qs, nil
	}

	result, err, _ := r.sf.Do(string(topic), func() (interface{}, error) {
		now := r.clock()
		if qs, ok := r.lookup(topic, now); ok {
			return qs, nil
		}

		qs, err := r.loader.LoadQuestions(ctx, topic)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[topic] = cachedSet{
			questions: qs,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return copyQuestions(qs), nil
	})
	if err != nil {
		return nil, err
	}
	return copyQuestions(result.([]domain.Question)), nil
}

// Invalidate drops a topic so the next fetch reloads it.
func (r *QuestionRepository) Invalidate(topic domain.Topic) {
	r.mu.Lock()
	delete(r.cache, topic)
	r.mu.Unlock()
}

func (r *QuestionRepository) lookup(topic domain.Topic, now time.Time) ([]domain.Question, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[topic]
	if !ok || !entry.expiresAt.After(now) {
		return nil, false
	}
	return copyQuestions(entry.questions), true
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// up to 10% extra so topics loaded together do not expire together
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

func copyQuestions(qs []domain.Question) []domain.Question {
	out := make([]domain.Question, len(qs))
	for i, q := range qs {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}
