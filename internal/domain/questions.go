package domain

import "fmt"

// ValidateQuestion checks the structural contract of a single question.
func ValidateQuestion(q Question) error {
	if q.Prompt == "" {
		return fmt.Errorf("%w %q: empty prompt", ErrInvalidQuestion, q.ID)
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("%w %q: expected %d options, got %d", ErrInvalidQuestion, q.ID, OptionCount, len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= OptionCount {
		return fmt.Errorf("%w %q: correct index %d out of range", ErrInvalidQuestion, q.ID, q.CorrectIndex)
	}
	if q.Difficulty.Rank() == 0 {
		return fmt.Errorf("%w %q: unknown difficulty %q", ErrInvalidQuestion, q.ID, q.Difficulty)
	}
	return nil
}

// PrepareQuestionSet validates a set and trims it to the ladder length.
// The returned bool is false when difficulty does not ramp up monotonically;
// such sets are still playable.
func PrepareQuestionSet(questions []Question, ladderLen int) ([]Question, bool, error) {
	if len(questions) == 0 {
		return nil, false, ErrEmptyQuestionSet
	}
	if ladderLen > 0 && len(questions) > ladderLen {
		questions = questions[:ladderLen]
	}
	out := make([]Question, len(questions))
	ramped := true
	for i, q := range questions {
		if err := ValidateQuestion(q); err != nil {
			return nil, false, err
		}
		if i > 0 && q.Difficulty.Rank() < questions[i-1].Difficulty.Rank() {
			ramped = false
		}
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out, ramped, nil
}
