package game

import "kbc-quiz-game/internal/domain"

// OptionState is the visual category of one answer option.
type OptionState string

const (
	OptionNeutral            OptionState = "neutral"
	OptionSelected           OptionState = "selected"
	OptionEliminated         OptionState = "eliminated"
	OptionCorrectHighlight   OptionState = "correct"
	OptionIncorrectHighlight OptionState = "incorrect"
)

// RungState places a ladder rung relative to the current question.
type RungState string

const (
	RungPassed   RungState = "passed"
	RungCurrent  RungState = "current"
	RungUpcoming RungState = "upcoming"
)

type OptionView struct {
	Label string      `json:"label"`
	Text  string      `json:"text"`
	State OptionState `json:"state"`
}

type LifelineView struct {
	Kind   string `json:"kind"`
	Used   bool   `json:"used"`
	Active bool   `json:"active"`
}

type Rung struct {
	Number    int       `json:"number"`
	Amount    int64     `json:"amount"`
	SafeHaven bool      `json:"safeHaven"`
	State     RungState `json:"state"`
}

// View is everything a renderer needs to draw a session.
type View struct {
	Position         int             `json:"position"`
	TotalQuestions   int             `json:"totalQuestions"`
	Question         domain.Question `json:"question"`
	Phase            Phase           `json:"phase"`
	Status           Status          `json:"status"`
	Outcome          Outcome         `json:"outcome"`
	Selected         *int            `json:"selected"`
	Options          []OptionView    `json:"options"`
	Eliminated       []int           `json:"eliminated"`
	Lifelines        []LifelineView  `json:"lifelines"`
	DoubleDip        bool            `json:"doubleDip"`
	RemainingSeconds int             `json:"remainingSeconds"`
	TimerWarning     bool            `json:"timerWarning"`
	Transitioning    bool            `json:"transitioning"`
	MoneyWon         int64           `json:"moneyWon"`
	CurrentPrize     int64           `json:"currentPrize"`
	Overlay          Overlay         `json:"overlay,omitempty"`
	Poll             []int           `json:"poll,omitempty"`
	Advice           string          `json:"advice,omitempty"`
	Ladder           []Rung          `json:"ladder"`
}

// CurrentPrize is the ladder amount for the question on screen.
func (m *Machine) CurrentPrize(s State) int64 {
	return m.ladder.Amount(s.Position)
}

// OptionStates classifies each option for display. Reveal highlights win over
// selection, which wins over elimination.
func (m *Machine) OptionStates(s State) [domain.OptionCount]OptionState {
	correct := m.Question(s.Position).CorrectIndex
	var out [domain.OptionCount]OptionState
	for i := range out {
		switch {
		case s.Outcome == OutcomeCorrect && i == correct:
			out[i] = OptionCorrectHighlight
		case s.Outcome == OutcomeIncorrect && i == s.Selected:
			out[i] = OptionIncorrectHighlight
		case s.Outcome == OutcomeIncorrect && i == correct:
			out[i] = OptionCorrectHighlight
		case s.Selected == i:
			out[i] = OptionSelected
		case s.Eliminated.Has(i):
			out[i] = OptionEliminated
		default:
			out[i] = OptionNeutral
		}
	}
	return out
}

// Rungs lists the ladder bottom to top.
func (m *Machine) Rungs(s State) []Rung {
	rungs := make([]Rung, m.ladder.Len())
	for i := range rungs {
		state := RungUpcoming
		switch {
		case i == s.Position:
			state = RungCurrent
		case i < s.Position:
			state = RungPassed
		}
		rungs[i] = Rung{
			Number:    i + 1,
			Amount:    m.ladder.Amount(i),
			SafeHaven: m.ladder.IsSafeHaven(i),
			State:     state,
		}
	}
	return rungs
}

// View renders s for display.
func (m *Machine) View(s State) View {
	q := m.Question(s.Position)
	states := m.OptionStates(s)

	options := make([]OptionView, len(q.Options))
	for i, text := range q.Options {
		st := OptionNeutral
		if i < len(states) {
			st = states[i]
		}
		options[i] = OptionView{Label: string(rune('A' + i)), Text: text, State: st}
	}

	lifelines := make([]LifelineView, 0, domain.LifelineCount)
	for _, l := range domain.Lifelines() {
		active := false
		switch l {
		case domain.LifelineAudiencePoll:
			active = s.Overlay == OverlayAudience
		case domain.LifelinePhoneAFriend:
			active = s.Overlay == OverlayPhone
		case domain.LifelineDoubleDip:
			active = s.DoubleDip
		}
		lifelines = append(lifelines, LifelineView{Kind: l.String(), Used: s.Used[l], Active: active})
	}

	v := View{
		Position:         s.Position,
		TotalQuestions:   len(m.questions),
		Question:         q,
		Phase:            s.Phase,
		Status:           s.Status(),
		Outcome:          s.Outcome,
		Options:          options,
		Eliminated:       s.Eliminated.Indices(),
		Lifelines:        lifelines,
		DoubleDip:        s.DoubleDip,
		RemainingSeconds: s.Remaining,
		TimerWarning:     s.Remaining < TickWarnThreshold,
		Transitioning:    s.Phase == PhaseAdvancing,
		MoneyWon:         s.Money,
		CurrentPrize:     m.CurrentPrize(s),
		Overlay:          s.Overlay,
		Advice:           s.Advice,
		Ladder:           m.Rungs(s),
	}
	if s.Selected != NoSelection {
		sel := s.Selected
		v.Selected = &sel
	}
	if s.Overlay == OverlayAudience {
		v.Poll = append([]int(nil), s.Poll[:]...)
	}
	return v
}
