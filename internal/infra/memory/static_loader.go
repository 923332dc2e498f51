package memory

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"kbc-quiz-game/internal/domain"
)

//go:embed questions.yaml
var bundledQuestions []byte

// StaticQuestionLoader serves question sets from memory. It backs the bundled
// bank, demos and tests.
type StaticQuestionLoader struct {
	sets map[domain.Topic][]domain.Question
}

func NewStaticQuestionLoader(sets map[domain.Topic][]domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{sets: sets}
}

// BundledQuestionLoader parses the question bank compiled into the binary.
func BundledQuestionLoader() (*StaticQuestionLoader, error) {
	sets, err := ParseQuestionBank(bundledQuestions)
	if err != nil {
		return nil, err
	}
	return NewStaticQuestionLoader(sets), nil
}

// ParseQuestionBank decodes a YAML document mapping topic to its ordered questions.
func ParseQuestionBank(data []byte) (map[domain.Topic][]domain.Question, error) {
	var sets map[domain.Topic][]domain.Question
	if err := yaml.Unmarshal(data, &sets); err != nil {
		return nil, fmt.Errorf("decode question bank: %w", err)
	}
	for topic, qs := range sets {
		for i, q := range qs {
			if err := domain.ValidateQuestion(q); err != nil {
				return nil, fmt.Errorf("question bank %s #%d: %w", topic, i+1, err)
			}
		}
	}
	return sets, nil
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context, topic domain.Topic) ([]domain.Question, error) {
	if qs, ok := l.sets[topic]; ok && len(qs) > 0 {
		return copyQuestions(qs), nil
	}
	return nil, domain.ErrQuestionSetNotFound
}

// FetchQuestions lets the loader act as a question provider without a cache.
func (l *StaticQuestionLoader) FetchQuestions(ctx context.Context, req domain.QuestionRequest) ([]domain.Question, error) {
	return l.LoadQuestions(ctx, req.Topic)
}

// Topics lists the topics the loader has sets for.
func (l *StaticQuestionLoader) Topics() []domain.Topic {
	out := make([]domain.Topic, 0, len(l.sets))
	for topic := range l.sets {
		out = append(out, topic)
	}
	return out
}
