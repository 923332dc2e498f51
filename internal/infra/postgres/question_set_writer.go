package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"kbc-quiz-game/internal/domain"
)

// OpenDB opens a bun handle over the pgdriver connector.
func OpenDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

type questionSetRow struct {
	bun.BaseModel `bun:"table:question_sets"`

	Topic     domain.Topic      `bun:"topic,pk"`
	Data      []domain.Question `bun:"data,type:jsonb,notnull"`
	UpdatedAt time.Time         `bun:"updated_at,notnull"`
}

// QuestionSetWriter stores question sets for the Postgres loader to serve.
type QuestionSetWriter struct {
	db  *bun.DB
	now func() time.Time
}

func NewQuestionSetWriter(db *bun.DB) *QuestionSetWriter {
	return &QuestionSetWriter{db: db, now: time.Now}
}

// SaveQuestionSet validates and upserts the set for a topic.
func (w *QuestionSetWriter) SaveQuestionSet(ctx context.Context, topic domain.Topic, questions []domain.Question) error {
	if len(questions) == 0 {
		return domain.ErrEmptyQuestionSet
	}
	for _, q := range questions {
		if err := domain.ValidateQuestion(q); err != nil {
			return err
		}
	}
	row := &questionSetRow{Topic: topic, Data: questions, UpdatedAt: w.now().UTC()}
	_, err := w.db.NewInsert().
		Model(row).
		On("CONFLICT (topic) DO UPDATE").
		Set("data = EXCLUDED.data").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("save question set %s: %w", topic, err)
	}
	return nil
}

// Topics lists the topics that have a stored set.
func (w *QuestionSetWriter) Topics(ctx context.Context) ([]domain.Topic, error) {
	var topics []domain.Topic
	err := w.db.NewSelect().
		Model((*questionSetRow)(nil)).
		Column("topic").
		Order("topic ASC").
		Scan(ctx, &topics)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}
