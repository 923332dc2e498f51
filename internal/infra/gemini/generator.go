// Package gemini generates question sets with the Gemini generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"kbc-quiz-game/internal/domain"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 30 * time.Second

	// QuestionsPerSet is one question per rung of the default ladder.
	QuestionsPerSet = 16
)

// Config holds the generator's endpoint and credential.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// ModelEndpoint returns the generateContent endpoint for the configured model.
func (c Config) ModelEndpoint() string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + c.Model + ":generateContent"
}

// Generator is a question provider backed by Gemini. Each call asks for a new set.
type Generator struct {
	config Config
	client *http.Client
	now    func() time.Time
}

func NewGenerator(cfg Config) *Generator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Generator{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		now:    time.Now,
	}
}

// FetchQuestions generates a fresh set for the request topic. Question IDs are
// "<sessionID>-<index>".
func (g *Generator) FetchQuestions(ctx context.Context, req domain.QuestionRequest) ([]domain.Question, error) {
	if g.config.APIKey == "" {
		return nil, domain.ErrMissingCredential
	}

	text, err := g.generate(ctx, userPrompt(req, g.now()))
	if err != nil {
		return nil, err
	}

	var generated []domain.Question
	if err := json.Unmarshal([]byte(text), &generated); err != nil {
		return nil, fmt.Errorf("%w: %w: %v", domain.ErrGenerationFailed, domain.ErrMalformedResponse, err)
	}
	if len(generated) == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, domain.ErrEmptyQuestionSet)
	}
	for i := range generated {
		generated[i].ID = fmt.Sprintf("%s-%d", req.SessionID, i)
		if err := domain.ValidateQuestion(generated[i]); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
		}
	}

	log.Info().
		Str("topic", string(req.Topic)).
		Str("session_id", req.SessionID).
		Int("questions", len(generated)).
		Msg("generated question set")
	return generated, nil
}

func (g *Generator) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"systemInstruction": map[string]interface{}{
			"parts": []map[string]string{{"text": systemInstruction}},
		},
		"contents": []map[string]interface{}{
			{
				"role":  "user",
				"parts": []map[string]string{{"text": prompt}},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"responseSchema":   responseSchema,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", g.config.ModelEndpoint(), g.config.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", domain.ErrGenerationFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", domain.ErrGenerationFailed, resp.StatusCode)
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("%w: %w: %v", domain.ErrGenerationFailed, domain.ErrMalformedResponse, err)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response from Gemini", domain.ErrGenerationFailed)
	}
	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

func userPrompt(req domain.QuestionRequest, now time.Time) string {
	return fmt.Sprintf(`Generate %d unique questions for the "%s" section.
User context: ID %s, Session %s, Timestamp %d.
Ensure no repeats from previous sessions.
The difficulty must progressively increase from question 1 to %d.`,
		QuestionsPerSet, req.Topic.Title(), req.PlayerID, req.SessionID, now.UnixMilli(), QuestionsPerSet)
}

const systemInstruction = `You are a quiz generator for Agriculture students preparing for B.Sc. Agriculture,
ICAR and PSC exams.

Rules:
1. Never repeat a question for the same user.
2. Generate questions from the session context you are given.
3. Use simple, student-friendly English.
4. Provide a Hindi translation of the question when possible.

Agriculture Core: Agronomy, Soil Science, Genetics & Plant Breeding, Entomology, Plant Pathology,
Horticulture, Agricultural Economics, Extension Education.

Rural Sociology: Rural Social Structure, Panchayati Raj, Development Programs (MGNREGA, PMFBY, etc.),
Gender & Agriculture, Rural Leadership.

Output: 16 unique MCQs, one per prize level. Questions 1-5 easy, 6-10 medium, 11-16 hard.
Every question has 4 options and exactly 1 correct answer. Return a JSON array of question objects.`

var responseSchema = map[string]interface{}{
	"type": "ARRAY",
	"items": map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"question":      map[string]string{"type": "STRING"},
			"questionHindi": map[string]string{"type": "STRING"},
			"options": map[string]interface{}{
				"type":        "ARRAY",
				"items":       map[string]string{"type": "STRING"},
				"description": "Exactly 4 options",
			},
			"correctAnswerIndex": map[string]string{"type": "INTEGER", "description": "0-3 index of the correct option"},
			"category":           map[string]string{"type": "STRING"},
			"explanation":        map[string]string{"type": "STRING"},
			"difficulty": map[string]interface{}{
				"type": "STRING",
				"enum": []string{"easy", "medium", "hard"},
			},
		},
		"required": []string{"question", "options", "correctAnswerIndex", "category", "explanation", "difficulty"},
	},
}
