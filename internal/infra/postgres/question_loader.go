package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"kbc-quiz-game/internal/domain"
)

// QuestionLoader loads question set JSONB from Postgres.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context, topic domain.Topic) ([]domain.Question, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_sets WHERE topic=$1`, string(topic)).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrQuestionSetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load question set: %w", err)
	}
	var qs []domain.Question
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, fmt.Errorf("unmarshal question set: %w", err)
	}
	return qs, nil
}
