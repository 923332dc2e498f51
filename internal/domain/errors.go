package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a game session does not exist or was discarded.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrQuestionSetNotFound indicates no question set exists for the requested topic.
	ErrQuestionSetNotFound = errors.New("question set not found")
	// ErrInvalidQuestion marks a question that breaks the 4-option / correct-index contract.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrEmptyQuestionSet is returned when a source produced no questions.
	ErrEmptyQuestionSet = errors.New("empty question set")
	// ErrInvalidSettings is returned for settings that cannot start a session.
	ErrInvalidSettings = errors.New("invalid settings")
	// ErrInvalidLadder is returned for a prize ladder that cannot be played.
	ErrInvalidLadder = errors.New("invalid prize ladder")
	// ErrMissingCredential means the question generator has no API key configured.
	ErrMissingCredential = errors.New("missing API key")
	// ErrGenerationFailed wraps every other question generation failure.
	ErrGenerationFailed = errors.New("question generation failed")
	// ErrMalformedResponse indicates the generator answered with something unparseable.
	ErrMalformedResponse = errors.New("malformed generator response")
)

// PlayerMessage turns a question source failure into text that can be shown to the player.
func PlayerMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCredential):
		return "Missing API key. Please add GEMINI_API_KEY to the environment to generate questions."
	case errors.Is(err, ErrQuestionSetNotFound):
		return "No questions are available for this section yet."
	case errors.Is(err, ErrInvalidSettings):
		return "These settings cannot start a game. Please check the timer duration."
	case errors.Is(err, ErrSessionNotFound):
		return "This game is no longer running. Please start a new one."
	default:
		return "Failed to generate quiz. Please check your connection and try again."
	}
}
