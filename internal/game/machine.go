package game

import "kbc-quiz-game/internal/domain"

// Machine carries the immutable inputs of one session: its questions, the ladder,
// the settings and the random source used by lifelines.
type Machine struct {
	questions  []domain.Question
	ladder     domain.PrizeLadder
	settings   domain.Settings
	playerName string
	rnd        Rand
}

// NewMachine builds a machine. Questions are expected to be validated already
// (see domain.PrepareQuestionSet); rnd defaults to a time-seeded source.
func NewMachine(questions []domain.Question, ladder domain.PrizeLadder, settings domain.Settings, playerName string, rnd Rand) *Machine {
	if rnd == nil {
		rnd = NewRand()
	}
	return &Machine{
		questions:  questions,
		ladder:     ladder,
		settings:   settings,
		playerName: playerName,
		rnd:        rnd,
	}
}

func (m *Machine) Questions() []domain.Question {
	return m.questions
}

func (m *Machine) Ladder() domain.PrizeLadder {
	return m.ladder
}

func (m *Machine) Settings() domain.Settings {
	return m.settings
}

// Question returns the question shown at pos.
func (m *Machine) Question(pos int) domain.Question {
	if pos < 0 || pos >= len(m.questions) {
		return domain.Question{}
	}
	return m.questions[pos]
}

// Start returns the state of a brand new session.
func (m *Machine) Start() State {
	return State{
		Position:  0,
		Selected:  NoSelection,
		Phase:     PhasePresenting,
		Outcome:   OutcomeUnknown,
		Used:      m.settings.InitialUsed(),
		Remaining: m.settings.TimerDuration,
	}
}

// Apply computes the state that follows s after ev. Events that are not legal in the
// current state return s unchanged and no effects.
func (m *Machine) Apply(s State, ev Event) (State, []Effect) {
	switch e := ev.(type) {
	case SelectOption:
		return m.selectOption(s, e.Index)
	case UseLifeline:
		return m.useLifeline(s, e.Kind)
	case CloseOverlay:
		return m.closeOverlay(s)
	case Tick:
		return m.tick(s)
	case RevealDue:
		return m.reveal(s)
	case ConsequenceDue:
		return m.consequence(s)
	case AdvanceDue:
		return m.advance(s)
	}
	return s, nil
}

func (m *Machine) selectOption(s State, index int) (State, []Effect) {
	if !s.InputOpen() || index < 0 || index >= domain.OptionCount || s.Eliminated.Has(index) {
		return s, nil
	}
	q := m.Question(s.Position)
	effects := []Effect{PlayCue{Cue: domain.CueLock}}

	if s.DoubleDip && !s.BonusSpent && index != q.CorrectIndex {
		s.Eliminated = s.Eliminated.With(index)
		s.Selected = NoSelection
		s.BonusSpent = true
		return s, append(effects, PlayCue{Cue: domain.CueWrong})
	}

	s.Selected = index
	s.Phase = PhaseLocked
	s.DoubleDip = false
	return s, append(effects, Schedule{Event: RevealDue{}, After: LockDelay})
}

func (m *Machine) closeOverlay(s State) (State, []Effect) {
	if s.Overlay == OverlayNone {
		return s, nil
	}
	s.Overlay = OverlayNone
	s.Poll = [domain.OptionCount]int{}
	s.Advice = ""
	return s, nil
}

func (m *Machine) tick(s State) (State, []Effect) {
	if !s.CountdownActive() {
		return s, nil
	}
	if s.Remaining <= 1 {
		// Timeout keeps whatever was banked from the last correct answer.
		s.Remaining = 0
		s.Phase = PhaseLost
		return s, []Effect{PlayCue{Cue: domain.CueLose}}
	}
	var effects []Effect
	if s.Remaining <= TickWarnThreshold {
		effects = append(effects, PlayCue{Cue: domain.CueTick})
	}
	s.Remaining--
	return s, effects
}

func (m *Machine) reveal(s State) (State, []Effect) {
	if s.Phase != PhaseLocked {
		return s, nil
	}
	s.Phase = PhaseRevealing
	cue := domain.CueWrong
	if s.Selected == m.Question(s.Position).CorrectIndex {
		s.Outcome = OutcomeCorrect
		cue = domain.CueCorrect
	} else {
		s.Outcome = OutcomeIncorrect
	}
	return s, []Effect{
		PlayCue{Cue: cue},
		Schedule{Event: ConsequenceDue{}, After: RevealDelay},
	}
}

func (m *Machine) consequence(s State) (State, []Effect) {
	if s.Phase != PhaseRevealing {
		return s, nil
	}
	if s.Outcome != OutcomeCorrect {
		s.Money = m.ladder.SafeFloor(s.Position)
		s.Phase = PhaseLost
		return s, []Effect{PlayCue{Cue: domain.CueLose}}
	}
	if s.Position+1 >= len(m.questions) {
		s.Money = m.ladder.Amount(s.Position)
		s.Phase = PhaseWon
		return s, []Effect{PlayCue{Cue: domain.CueWin}}
	}
	s.Phase = PhaseAdvancing
	return s, []Effect{Schedule{Event: AdvanceDue{}, After: AdvanceDelay}}
}

func (m *Machine) advance(s State) (State, []Effect) {
	if s.Phase != PhaseAdvancing {
		return s, nil
	}
	answered := s.Position
	s.Money = m.ladder.Amount(answered)
	s.Remaining = m.settings.TimerDuration + TimerRampPerQuestion*answered
	s.Position = answered + 1
	s.Selected = NoSelection
	s.Outcome = OutcomeUnknown
	s.Eliminated = 0
	s.DoubleDip = false
	s.BonusSpent = false
	s.Phase = PhasePresenting
	return s, nil
}
