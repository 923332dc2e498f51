package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"kbc-quiz-game/internal/domain"
	"kbc-quiz-game/internal/game"
)

// SessionRepository abstracts where running sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Put(c *Controller)
	Get(sessionID string) (*Controller, bool)
	Delete(sessionID string)
}

// QuestionProvider fetches the ordered questions for a session. Static banks,
// Postgres and the AI generator all sit behind this one contract.
type QuestionProvider interface {
	FetchQuestions(ctx context.Context, req domain.QuestionRequest) ([]domain.Question, error)
}

// StartRequest carries everything the player chose before pressing play.
type StartRequest struct {
	PlayerID   string
	PlayerName string
	Topic      domain.Topic
	Settings   domain.Settings
}

// GameService contains the game session use cases.
type GameService struct {
	sessions  SessionRepository
	questions QuestionProvider
	ladder    domain.PrizeLadder
	clock     Clock
	newRand   func() game.Rand
	newID     func() string
}

// Option customises a GameService.
type Option func(*GameService)

// WithClock swaps the time source, typically for a clockwork.FakeClock in tests.
func WithClock(clock Clock) Option {
	return func(s *GameService) { s.clock = clock }
}

// WithRandSource makes lifeline randomness reproducible.
func WithRandSource(newRand func() game.Rand) Option {
	return func(s *GameService) { s.newRand = newRand }
}

// WithSessionIDs overrides session ID generation.
func WithSessionIDs(newID func() string) Option {
	return func(s *GameService) { s.newID = newID }
}

func NewGameService(store SessionRepository, questions QuestionProvider, ladder domain.PrizeLadder, opts ...Option) *GameService {
	s := &GameService{
		sessions:  store,
		questions: questions,
		ladder:    ladder,
		clock:     clockwork.NewRealClock(),
		newRand:   game.NewRand,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ladder returns the prize ladder every session is played on.
func (s *GameService) Ladder() domain.PrizeLadder {
	return s.ladder
}

// StartGame fetches a question set and starts a new session. No session exists
// unless a valid set was obtained.
func (s *GameService) StartGame(ctx context.Context, req StartRequest) (*Controller, error) {
	if err := req.Settings.Validate(); err != nil {
		return nil, err
	}
	if err := s.ladder.Validate(); err != nil {
		return nil, err
	}
	if req.Topic == "" {
		req.Topic = domain.TopicAgricultureCore
	}

	info := SessionInfo{
		ID:         s.newID(),
		PlayerID:   req.PlayerID,
		PlayerName: req.PlayerName,
		Topic:      req.Topic,
	}

	questions, err := s.questions.FetchQuestions(ctx, domain.QuestionRequest{
		Topic:     req.Topic,
		PlayerID:  req.PlayerID,
		SessionID: info.ID,
	})
	if err != nil {
		log.Warn().Err(err).Str("topic", string(req.Topic)).Str("player_id", req.PlayerID).Msg("question source failed")
		return nil, fmt.Errorf("fetch questions: %w", err)
	}

	questions, ramped, err := domain.PrepareQuestionSet(questions, s.ladder.Len())
	if err != nil {
		log.Warn().Err(err).Str("topic", string(req.Topic)).Msg("question set rejected")
		return nil, fmt.Errorf("prepare questions: %w", err)
	}
	if !ramped {
		log.Warn().Str("topic", string(req.Topic)).Msg("question difficulty does not ramp up")
	}

	machine := game.NewMachine(questions, s.ladder, req.Settings, req.PlayerName, s.newRand())
	c := newController(info, machine, s.clock)
	s.sessions.Put(c)

	log.Info().
		Str("session_id", info.ID).
		Str("player_id", info.PlayerID).
		Str("topic", string(info.Topic)).
		Int("questions", len(questions)).
		Int("timer", req.Settings.TimerDuration).
		Msg("session started")
	return c, nil
}

// Session looks up a running session.
func (s *GameService) Session(sessionID string) (*Controller, error) {
	c, ok := s.sessions.Get(sessionID)
	if !ok || c.Closed() {
		return nil, domain.ErrSessionNotFound
	}
	return c, nil
}

// Restart plays the same question set again from the first rung.
func (s *GameService) Restart(sessionID string) (*Controller, error) {
	c, err := s.Session(sessionID)
	if err != nil {
		return nil, err
	}
	c.Restart()
	return c, nil
}

// ReturnToMenu discards the session.
func (s *GameService) ReturnToMenu(sessionID string) {
	c, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	c.Close()
	s.sessions.Delete(sessionID)
}
