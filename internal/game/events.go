package game

import (
	"time"

	"kbc-quiz-game/internal/domain"
)

// Fixed delays between the phases of a question.
const (
	LockDelay    = 2000 * time.Millisecond
	RevealDelay  = 2500 * time.Millisecond
	AdvanceDelay = 1000 * time.Millisecond
	TickInterval = time.Second

	// TimerRampPerQuestion is the extra time granted per answered question.
	TimerRampPerQuestion = 2
	// TickWarnThreshold is the remaining time at or below which ticks are audible.
	TickWarnThreshold = 10
)

// Event is anything that can move a session forward.
type Event interface {
	isEvent()
}

// SelectOption is the player choosing an answer.
type SelectOption struct{ Index int }

// UseLifeline is the player activating a lifeline.
type UseLifeline struct{ Kind domain.Lifeline }

// CloseOverlay dismisses the audience poll or phone dialog.
type CloseOverlay struct{}

// Tick is one second of countdown.
type Tick struct{}

// RevealDue fires LockDelay after an answer is locked.
type RevealDue struct{}

// ConsequenceDue fires RevealDelay after correctness is shown.
type ConsequenceDue struct{}

// AdvanceDue fires AdvanceDelay after the fade to the next question starts.
type AdvanceDue struct{}

func (SelectOption) isEvent()   {}
func (UseLifeline) isEvent()    {}
func (CloseOverlay) isEvent()   {}
func (Tick) isEvent()           {}
func (RevealDue) isEvent()      {}
func (ConsequenceDue) isEvent() {}
func (AdvanceDue) isEvent()     {}

// Effect is a side effect requested by a transition.
type Effect interface {
	isEffect()
}

// PlayCue asks the feedback layer to play a cue.
type PlayCue struct{ Cue domain.Cue }

// Schedule asks the effect layer to deliver Event after the delay.
type Schedule struct {
	Event Event
	After time.Duration
}

func (PlayCue) isEffect()  {}
func (Schedule) isEffect() {}
