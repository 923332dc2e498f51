package domain

// Difficulty tags how hard a question is meant to be.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Rank orders difficulties so a question set can be checked for a non-decreasing ramp.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	}
	return 0
}

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

// Question is a multiple choice question with exactly one correct option.
// It is treated as immutable once loaded.
type Question struct {
	ID           string     `json:"id" yaml:"id"`
	Prompt       string     `json:"question" yaml:"question"`
	PromptAlt    string     `json:"questionHindi,omitempty" yaml:"questionHindi,omitempty"`
	Options      []string   `json:"options" yaml:"options"`
	CorrectIndex int        `json:"correctAnswerIndex" yaml:"correctAnswerIndex"`
	Category     string     `json:"category" yaml:"category"`
	Explanation  string     `json:"explanation" yaml:"explanation"`
	Difficulty   Difficulty `json:"difficulty" yaml:"difficulty"`
}

// CorrectOption returns the text of the correct option.
func (q Question) CorrectOption() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// Topic names a question section a player can ask questions for.
type Topic string

const (
	TopicAgricultureCore Topic = "agriculture-core"
	TopicRuralSociology  Topic = "rural-sociology"
)

// Title is the human readable section name used in prompts and menus.
func (t Topic) Title() string {
	switch t {
	case TopicAgricultureCore:
		return "Agriculture Core"
	case TopicRuralSociology:
		return "Rural Sociology"
	}
	return string(t)
}

// QuestionRequest asks a question source for an ordered set for one session.
type QuestionRequest struct {
	Topic     Topic
	PlayerID  string
	SessionID string
}

// Lifeline identifies one of the four single-use assistance mechanisms.
type Lifeline int

const (
	LifelineFiftyFifty Lifeline = iota
	LifelineAudiencePoll
	LifelinePhoneAFriend
	LifelineDoubleDip

	LifelineCount = 4
)

var lifelineNames = [LifelineCount]string{"fiftyFifty", "audiencePoll", "phoneAFriend", "doubleDip"}

func (l Lifeline) String() string {
	if l < 0 || int(l) >= LifelineCount {
		return "unknown"
	}
	return lifelineNames[l]
}

// Valid reports whether l is one of the known lifelines.
func (l Lifeline) Valid() bool {
	return l >= 0 && int(l) < LifelineCount
}

// ParseLifeline maps a wire name back to a lifeline kind.
func ParseLifeline(name string) (Lifeline, bool) {
	for i, n := range lifelineNames {
		if n == name {
			return Lifeline(i), true
		}
	}
	return 0, false
}

// Lifelines lists every lifeline kind in display order.
func Lifelines() []Lifeline {
	return []Lifeline{LifelineFiftyFifty, LifelineAudiencePoll, LifelinePhoneAFriend, LifelineDoubleDip}
}

// Cue is an abstract feedback signal; playback belongs to whoever renders the game.
type Cue string

const (
	CueLock      Cue = "lock"
	CueCorrect   Cue = "correct"
	CueWrong     Cue = "wrong"
	CueTick      Cue = "tick"
	CueWin       Cue = "win"
	CueLose      Cue = "lose"
	CueLifeline  Cue = "lifeline"
	CueMenuClick Cue = "menu-click"
)
