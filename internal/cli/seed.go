package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"kbc-quiz-game/internal/config"
	"kbc-quiz-game/internal/domain"
	"kbc-quiz-game/internal/infra/memory"
	pgstore "kbc-quiz-game/internal/infra/postgres"
)

// NewSeedCmd writes question sets into Postgres for the postgres source.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Store the bundled (or a given YAML) question bank in Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			sets, err := readQuestionBank(file)
			if err != nil {
				return err
			}
			return seedQuestionSets(cmd.Context(), cfg, sets)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML question bank (topic -> questions); defaults to the bundled bank")
	return cmd
}

func readQuestionBank(path string) (map[domain.Topic][]domain.Question, error) {
	if path == "" {
		loader, err := memory.BundledQuestionLoader()
		if err != nil {
			return nil, err
		}
		sets := make(map[domain.Topic][]domain.Question)
		for _, topic := range loader.Topics() {
			qs, err := loader.LoadQuestions(context.Background(), topic)
			if err != nil {
				return nil, err
			}
			sets[topic] = qs
		}
		return sets, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return memory.ParseQuestionBank(data)
}

func seedQuestionSets(ctx context.Context, cfg config.Config, sets map[domain.Topic][]domain.Question) error {
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	db := pgstore.OpenDB(cfg.Postgres.URL)
	defer db.Close()
	writer := pgstore.NewQuestionSetWriter(db)

	topics := make([]domain.Topic, 0, len(sets))
	for topic := range sets {
		topics = append(topics, topic)
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i] < topics[j] })

	for _, topic := range topics {
		if err := writer.SaveQuestionSet(ctx, topic, sets[topic]); err != nil {
			return fmt.Errorf("seed %s: %w", topic, err)
		}
		log.Info().Str("topic", string(topic)).Int("questions", len(sets[topic])).Msg("question set stored")
	}
	return nil
}
