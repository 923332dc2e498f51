package game

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"kbc-quiz-game/internal/domain"
)

func TestStartState(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Lifelines.PhoneAFriend = false
	m := newTestMachine(16, settings)

	s := m.Start()
	if s.Position != 0 || s.Phase != PhasePresenting || s.Selected != NoSelection {
		t.Fatalf("unexpected start state %+v", s)
	}
	if s.Outcome != OutcomeUnknown || s.Money != 0 || s.Remaining != 45 {
		t.Fatalf("unexpected start fields %+v", s)
	}
	if !s.Used[domain.LifelinePhoneAFriend] || s.Used[domain.LifelineFiftyFifty] {
		t.Fatalf("used flags should mirror disabled lifelines, got %+v", s.Used)
	}
}

func TestSelectLocksAndSchedulesReveal(t *testing.T) {
	m := newTestMachine(16, domain.DefaultSettings())
	s, effects := m.Apply(m.Start(), SelectOption{Index: 2})

	if s.Phase != PhaseLocked || s.Selected != 2 {
		t.Fatalf("expected locked on option 2, got %+v", s)
	}
	assertCues(t, effects, domain.CueLock)
	assertSchedule(t, effects, RevealDue{}, LockDelay)

	next, effects := m.Apply(s, SelectOption{Index: 1})
	if next != s || len(effects) != 0 {
		t.Fatalf("selection while locked must be ignored")
	}
}

func TestSelectIgnoredForInvalidInput(t *testing.T) {
	m := newTestMachine(16, domain.DefaultSettings())
	s := m.Start()
	s.Eliminated = s.Eliminated.With(3)

	for _, idx := range []int{-1, 4, 3} {
		next, effects := m.Apply(s, SelectOption{Index: idx})
		if next != s || len(effects) != 0 {
			t.Fatalf("selecting %d should be ignored", idx)
		}
	}

	s.Overlay = OverlayPhone
	if next, _ := m.Apply(s, SelectOption{Index: 0}); next != s {
		t.Fatalf("selection behind an overlay should be ignored")
	}
}

func TestCorrectAnswerAdvances(t *testing.T) {
	m := newTestMachine(16, domain.DefaultSettings())
	s := m.Start()
	correct := m.Question(0).CorrectIndex

	s, _ = m.Apply(s, SelectOption{Index: correct})
	s, effects := m.Apply(s, RevealDue{})
	if s.Phase != PhaseRevealing || s.Outcome != OutcomeCorrect {
		t.Fatalf("expected correct reveal, got %+v", s)
	}
	assertCues(t, effects, domain.CueCorrect)
	assertSchedule(t, effects, ConsequenceDue{}, RevealDelay)

	s, effects = m.Apply(s, ConsequenceDue{})
	if s.Phase != PhaseAdvancing {
		t.Fatalf("expected advancing, got %s", s.Phase)
	}
	assertSchedule(t, effects, AdvanceDue{}, AdvanceDelay)
	if next, _ := m.Apply(s, SelectOption{Index: 0}); next != s {
		t.Fatalf("input must be suppressed while advancing")
	}

	s, _ = m.Apply(s, AdvanceDue{})
	if s.Position != 1 || s.Phase != PhasePresenting || s.Selected != NoSelection || s.Outcome != OutcomeUnknown {
		t.Fatalf("unexpected state after advance %+v", s)
	}
	if s.Money != 1000 {
		t.Fatalf("expected 1000 banked, got %d", s.Money)
	}
	if s.Remaining != 45 {
		t.Fatalf("expected 45s for the second question, got %d", s.Remaining)
	}

	s = answerCorrectly(t, m, s)
	if s.Position != 2 || s.Money != 2000 || s.Remaining != 47 {
		t.Fatalf("expected ramped timer 47 at position 2, got %+v", s)
	}
}

func TestWinOnFinalQuestion(t *testing.T) {
	m := newTestMachine(16, domain.DefaultSettings())
	s := m.Start()
	for i := 0; i < 15; i++ {
		s = answerCorrectly(t, m, s)
	}
	if s.Position != 15 {
		t.Fatalf("expected final question, got %d", s.Position)
	}
	s, _ = m.Apply(s, SelectOption{Index: m.Question(15).CorrectIndex})
	s, _ = m.Apply(s, RevealDue{})
	s, effects := m.Apply(s, ConsequenceDue{})
	if s.Phase != PhaseWon || s.Status() != StatusWon {
		t.Fatalf("expected won, got %s", s.Phase)
	}
	if s.Money != 70000000 {
		t.Fatalf("expected 70000000, got %d", s.Money)
	}
	assertCues(t, effects, domain.CueWin)

	for _, ev := range []Event{SelectOption{Index: 0}, Tick{}, AdvanceDue{}, UseLifeline{Kind: domain.LifelineDoubleDip}} {
		if next, eff := m.Apply(s, ev); next != s || len(eff) != 0 {
			t.Fatalf("terminal state must not change on %T", ev)
		}
	}
}

func TestWrongAnswerFallsBackToSafeHaven(t *testing.T) {
	cases := []struct {
		at   int
		want int64
	}{
		{at: 2, want: 0},
		{at: 4, want: 0},
		{at: 6, want: 10000},
		{at: 12, want: 320000},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("index %d", tc.at), func(t *testing.T) {
			m := newTestMachine(16, domain.DefaultSettings())
			s := m.Start()
			for i := 0; i < tc.at; i++ {
				s = answerCorrectly(t, m, s)
			}
			s, _ = m.Apply(s, SelectOption{Index: wrongIndex(m.Question(tc.at))})
			s, effects := m.Apply(s, RevealDue{})
			if s.Outcome != OutcomeIncorrect {
				t.Fatalf("expected incorrect outcome")
			}
			assertCues(t, effects, domain.CueWrong)
			s, effects = m.Apply(s, ConsequenceDue{})
			if s.Phase != PhaseLost {
				t.Fatalf("expected lost, got %s", s.Phase)
			}
			if s.Money != tc.want {
				t.Fatalf("expected %d banked, got %d", tc.want, s.Money)
			}
			assertCues(t, effects, domain.CueLose)
		})
	}
}

func TestTimeoutKeepsBankedMoney(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.TimerDuration = 3
	m := newTestMachine(16, settings)
	s := m.Start()
	for i := 0; i < 6; i++ {
		s = answerCorrectly(t, m, s)
	}
	banked := s.Money
	if banked != 20000 {
		t.Fatalf("expected 20000 banked after six answers, got %d", banked)
	}

	for s.Phase == PhasePresenting {
		s, _ = m.Apply(s, Tick{})
	}
	if s.Phase != PhaseLost || s.Remaining != 0 {
		t.Fatalf("expected timeout loss, got %+v", s)
	}
	if s.Money != banked {
		t.Fatalf("timeout must not recompute money: want %d, got %d", banked, s.Money)
	}
}

func TestTickCues(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.TimerDuration = 12
	m := newTestMachine(16, settings)
	s := m.Start()

	s, effects := m.Apply(s, Tick{})
	if s.Remaining != 11 || len(effects) != 0 {
		t.Fatalf("no cue expected above threshold, got %v at %d", effects, s.Remaining)
	}
	s, _ = m.Apply(s, Tick{})
	s, effects = m.Apply(s, Tick{})
	if s.Remaining != 9 {
		t.Fatalf("expected 9, got %d", s.Remaining)
	}
	assertCues(t, effects, domain.CueTick)
}

func TestCountdownSuspendedAndResumed(t *testing.T) {
	m := newTestMachine(16, domain.DefaultSettings())
	s := m.Start()
	s, _ = m.Apply(s, Tick{})
	s, _ = m.Apply(s, Tick{})
	if s.Remaining != 43 {
		t.Fatalf("expected 43, got %d", s.Remaining)
	}

	s, _ = m.Apply(s, UseLifeline{Kind: domain.LifelineAudiencePoll})
	if s.CountdownActive() {
		t.Fatalf("countdown must pause behind an overlay")
	}
	paused, _ := m.Apply(s, Tick{})
	if paused != s {
		t.Fatalf("tick while paused must be a no-op")
	}

	s, _ = m.Apply(s, CloseOverlay{})
	if !s.CountdownActive() || s.Remaining != 43 {
		t.Fatalf("countdown should resume at 43, got %+v", s)
	}
	s, _ = m.Apply(s, Tick{})
	if s.Remaining != 42 {
		t.Fatalf("expected 42 after resume, got %d", s.Remaining)
	}

	locked, _ := m.Apply(s, SelectOption{Index: 0})
	if after, _ := m.Apply(locked, Tick{}); after.Remaining != 42 {
		t.Fatalf("countdown must pause while locked")
	}
}

func TestEliminatedNeverContainsCorrect(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		rnd := rand.New(rand.NewSource(seed))
		m := NewMachine(testQuestions(16), domain.DefaultLadder(), domain.DefaultSettings(), "Asha", rnd)
		s := m.Start()
		for step := 0; step < 200 && !s.Terminal(); step++ {
			var ev Event
			switch rnd.Intn(6) {
			case 0:
				ev = UseLifeline{Kind: domain.Lifeline(rnd.Intn(domain.LifelineCount))}
			case 1:
				ev = CloseOverlay{}
			case 2:
				ev = Tick{}
			case 3:
				ev = pendingEvent(s)
			default:
				ev = SelectOption{Index: rnd.Intn(domain.OptionCount)}
			}
			prev := s
			s, _ = m.Apply(s, ev)
			if s.Eliminated.Has(m.Question(s.Position).CorrectIndex) {
				t.Fatalf("seed %d: correct option eliminated after %T", seed, ev)
			}
			if s.Position < prev.Position {
				t.Fatalf("seed %d: position went backwards", seed)
			}
			for l := range s.Used {
				if prev.Used[l] && !s.Used[l] {
					t.Fatalf("seed %d: lifeline %d was unmarked", seed, l)
				}
			}
		}
	}
}

func newTestMachine(n int, settings domain.Settings) *Machine {
	return NewMachine(testQuestions(n), domain.DefaultLadder(), settings, "Asha", rand.New(rand.NewSource(7)))
}

func testQuestions(n int) []domain.Question {
	qs := make([]domain.Question, n)
	for i := range qs {
		d := domain.DifficultyEasy
		switch {
		case i >= 10:
			d = domain.DifficultyHard
		case i >= 5:
			d = domain.DifficultyMedium
		}
		qs[i] = domain.Question{
			ID:           fmt.Sprintf("q%d", i+1),
			Prompt:       fmt.Sprintf("Question %d?", i+1),
			Options:      []string{"A", "B", "C", "D"},
			CorrectIndex: i % domain.OptionCount,
			Category:     "Agronomy",
			Explanation:  "Because the correct option is the one the agronomist would pick in the field.",
			Difficulty:   d,
		}
	}
	return qs
}

func answerCorrectly(t *testing.T, m *Machine, s State) State {
	t.Helper()
	s, _ = m.Apply(s, SelectOption{Index: m.Question(s.Position).CorrectIndex})
	for _, ev := range []Event{RevealDue{}, ConsequenceDue{}, AdvanceDue{}} {
		s, _ = m.Apply(s, ev)
	}
	if s.Phase != PhasePresenting {
		t.Fatalf("expected presenting after correct answer, got %s", s.Phase)
	}
	return s
}

func wrongIndex(q domain.Question) int {
	return (q.CorrectIndex + 1) % domain.OptionCount
}

func pendingEvent(s State) Event {
	switch s.Phase {
	case PhaseLocked:
		return RevealDue{}
	case PhaseRevealing:
		return ConsequenceDue{}
	case PhaseAdvancing:
		return AdvanceDue{}
	}
	return Tick{}
}

func assertCues(t *testing.T, effects []Effect, want ...domain.Cue) {
	t.Helper()
	var got []domain.Cue
	for _, e := range effects {
		if c, ok := e.(PlayCue); ok {
			got = append(got, c.Cue)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("expected cues %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected cues %v, got %v", want, got)
		}
	}
}

func assertSchedule(t *testing.T, effects []Effect, ev Event, after time.Duration) {
	t.Helper()
	for _, e := range effects {
		if sch, ok := e.(Schedule); ok && sch.Event == ev && sch.After == after {
			return
		}
	}
	t.Fatalf("expected %T scheduled after %v, got %v", ev, after, effects)
}
