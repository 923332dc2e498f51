// Package game holds the session state machine. Apply is a pure function of
// (State, Event); timers, audio and overlays are expressed as returned effects.
package game

import "kbc-quiz-game/internal/domain"

// Phase is the explicit position of a session in the question cycle.
type Phase string

const (
	PhasePresenting Phase = "presenting"
	PhaseLocked     Phase = "locked"
	PhaseRevealing  Phase = "revealing"
	PhaseAdvancing  Phase = "advancing"
	PhaseWon        Phase = "won"
	PhaseLost       Phase = "lost"
)

// Status is the coarse game status derived from the phase.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Outcome is the correctness of the current answer.
type Outcome string

const (
	OutcomeUnknown   Outcome = "unknown"
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
)

// Overlay is the lifeline dialog currently covering the question, if any.
type Overlay string

const (
	OverlayNone     Overlay = ""
	OverlayAudience Overlay = "audience"
	OverlayPhone    Overlay = "phone"
)

// NoSelection marks the absence of a selected option.
const NoSelection = -1

// OptionSet is a bitset over the four answer options.
type OptionSet uint8

func (s OptionSet) Has(i int) bool {
	return i >= 0 && i < domain.OptionCount && s&(1<<uint(i)) != 0
}

func (s OptionSet) With(i int) OptionSet {
	if i < 0 || i >= domain.OptionCount {
		return s
	}
	return s | 1<<uint(i)
}

func (s OptionSet) Len() int {
	n := 0
	for i := 0; i < domain.OptionCount; i++ {
		if s.Has(i) {
			n++
		}
	}
	return n
}

// Indices lists the members in ascending order.
func (s OptionSet) Indices() []int {
	out := make([]int, 0, domain.OptionCount)
	for i := 0; i < domain.OptionCount; i++ {
		if s.Has(i) {
			out = append(out, i)
		}
	}
	return out
}

// State is one immutable snapshot of a session. It is a comparable value so
// callers can detect changes with ==.
type State struct {
	Position   int
	Selected   int
	Phase      Phase
	Outcome    Outcome
	Used       [domain.LifelineCount]bool
	Eliminated OptionSet
	// DoubleDip is set while the re-guess lifeline covers the current question.
	DoubleDip bool
	// BonusSpent records that the re-guess has already absorbed one wrong answer.
	BonusSpent bool
	Money      int64
	Remaining  int
	Overlay    Overlay
	Poll       [domain.OptionCount]int
	Advice     string
}

func (s State) Status() Status {
	switch s.Phase {
	case PhaseWon:
		return StatusWon
	case PhaseLost:
		return StatusLost
	}
	return StatusPlaying
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s.Phase == PhaseWon || s.Phase == PhaseLost
}

// CountdownActive reports whether the per-question countdown should be running.
func (s State) CountdownActive() bool {
	return s.Phase == PhasePresenting && s.Overlay == OverlayNone
}

// InputOpen reports whether option selection and lifelines are accepted.
func (s State) InputOpen() bool {
	return s.Phase == PhasePresenting && s.Overlay == OverlayNone
}
