package game

import (
	"math/rand"
	"strings"
	"testing"

	"kbc-quiz-game/internal/domain"
)

type scriptedRand struct {
	values []int
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v % n
}

func TestFiftyFiftyEliminatesTwoWrongOptions(t *testing.T) {
	for seed := int64(0); seed < 500; seed++ {
		rnd := rand.New(rand.NewSource(seed))
		correct := int(seed % domain.OptionCount)
		got := fiftyFifty(rnd, correct, 0)
		if got.Len() != 2 {
			t.Fatalf("seed %d: expected 2 eliminated, got %v", seed, got.Indices())
		}
		if got.Has(correct) {
			t.Fatalf("seed %d: correct option %d eliminated", seed, correct)
		}
	}
}

func TestFiftyFiftyIsDeterministicWithScriptedSource(t *testing.T) {
	got := fiftyFifty(&scriptedRand{values: []int{2, 0}}, 1, 0)
	// candidates [0 2 3]: pick index 2 -> 3, then [0 2] index 0 -> 0
	if !got.Has(3) || !got.Has(0) || got.Has(1) || got.Has(2) {
		t.Fatalf("unexpected elimination %v", got.Indices())
	}
}

func TestFiftyFiftyKeepsEarlierElimination(t *testing.T) {
	already := OptionSet(0).With(2)
	for seed := int64(0); seed < 50; seed++ {
		got := fiftyFifty(rand.New(rand.NewSource(seed)), 0, already)
		if !got.Has(2) || got.Len() != 2 || got.Has(0) {
			t.Fatalf("seed %d: unexpected elimination %v", seed, got.Indices())
		}
	}
}

func TestUseFiftyFifty(t *testing.T) {
	m := newTestMachine(16, domain.DefaultSettings())
	s, effects := m.Apply(m.Start(), UseLifeline{Kind: domain.LifelineFiftyFifty})
	if !s.Used[domain.LifelineFiftyFifty] {
		t.Fatalf("fifty-fifty should be marked used")
	}
	if s.Eliminated.Len() != 2 || s.Eliminated.Has(m.Question(0).CorrectIndex) {
		t.Fatalf("unexpected elimination %v", s.Eliminated.Indices())
	}
	assertCues(t, effects, domain.CueLifeline)
	if !s.CountdownActive() {
		t.Fatalf("fifty-fifty opens no overlay")
	}
}

func TestLifelinesAreSingleUse(t *testing.T) {
	for _, kind := range domain.Lifelines() {
		m := newTestMachine(16, domain.DefaultSettings())
		s, _ := m.Apply(m.Start(), UseLifeline{Kind: kind})
		s, _ = m.Apply(s, CloseOverlay{})
		again, effects := m.Apply(s, UseLifeline{Kind: kind})
		if again != s || len(effects) != 0 {
			t.Fatalf("%v: second activation must be a no-op", kind)
		}
	}
}

func TestDisabledLifelineRefused(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Lifelines.DoubleDip = false
	m := newTestMachine(16, settings)
	s := m.Start()
	next, effects := m.Apply(s, UseLifeline{Kind: domain.LifelineDoubleDip})
	if next != s || len(effects) != 0 || next.DoubleDip {
		t.Fatalf("disabled lifeline must not activate")
	}
}

func TestLifelinesRefusedDuringTransitions(t *testing.T) {
	m := newTestMachine(16, domain.DefaultSettings())
	locked, _ := m.Apply(m.Start(), SelectOption{Index: m.Question(0).CorrectIndex})
	revealing, _ := m.Apply(locked, RevealDue{})
	advancing, _ := m.Apply(revealing, ConsequenceDue{})

	for _, s := range []State{locked, revealing, advancing} {
		for _, kind := range domain.Lifelines() {
			if next, effects := m.Apply(s, UseLifeline{Kind: kind}); next != s || len(effects) != 0 {
				t.Fatalf("%v must be refused in phase %s", kind, s.Phase)
			}
		}
	}

	if next, _ := m.Apply(m.Start(), UseLifeline{Kind: domain.Lifeline(9)}); next != m.Start() {
		t.Fatalf("unknown lifeline must be ignored")
	}
}

func TestAudiencePollFavoursCorrect(t *testing.T) {
	for seed := int64(0); seed < 500; seed++ {
		correct := int(seed % domain.OptionCount)
		poll := AudiencePoll(rand.New(rand.NewSource(seed)), correct)
		sum := 0
		for i, p := range poll {
			sum += p
			if i != correct && p >= poll[correct] {
				t.Fatalf("seed %d: option %d (%d%%) not below correct (%d%%)", seed, i, p, poll[correct])
			}
		}
		if sum < 98 || sum > 102 {
			t.Fatalf("seed %d: percentages sum to %d", seed, sum)
		}
	}
}

func TestAudiencePollOpensOverlay(t *testing.T) {
	m := newTestMachine(16, domain.DefaultSettings())
	s, _ := m.Apply(m.Start(), UseLifeline{Kind: domain.LifelineAudiencePoll})
	if s.Overlay != OverlayAudience || s.CountdownActive() {
		t.Fatalf("expected audience overlay, got %+v", s)
	}
	if s.Poll[m.Question(0).CorrectIndex] == 0 {
		t.Fatalf("expected poll results, got %v", s.Poll)
	}
	if next, _ := m.Apply(s, UseLifeline{Kind: domain.LifelineFiftyFifty}); next != s {
		t.Fatalf("lifelines are refused while an overlay is open")
	}
	closed, _ := m.Apply(s, CloseOverlay{})
	if closed.Overlay != OverlayNone || closed.Poll != ([domain.OptionCount]int{}) {
		t.Fatalf("closing should clear the overlay, got %+v", closed)
	}
	if !closed.Used[domain.LifelineAudiencePoll] {
		t.Fatalf("closing must not unmark the lifeline")
	}
}

func TestPhoneAdvice(t *testing.T) {
	q := domain.Question{
		Options:      []string{"Rice", "Wheat", "Maize", "Barley"},
		CorrectIndex: 1,
		Explanation:  "Wheat is globally referred to as the King of Cereals due to its vast cultivation area.",
	}
	advice := PhoneAdvice("Asha", q)
	if !strings.Contains(advice, "Hello Asha!") || !strings.Contains(advice, "likely Wheat.") {
		t.Fatalf("unexpected advice %q", advice)
	}
	if !strings.HasSuffix(advice, "Wheat is globally referred to as the King of Cerea...") {
		t.Fatalf("expected explanation truncated to 50 runes, got %q", advice)
	}

	m := newTestMachine(16, domain.DefaultSettings())
	s, _ := m.Apply(m.Start(), UseLifeline{Kind: domain.LifelinePhoneAFriend})
	if s.Overlay != OverlayPhone || s.Advice == "" {
		t.Fatalf("expected phone overlay with advice, got %+v", s)
	}
}

func TestDoubleDip(t *testing.T) {
	m := newTestMachine(16, domain.DefaultSettings())
	s, _ := m.Apply(m.Start(), UseLifeline{Kind: domain.LifelineDoubleDip})
	if !s.DoubleDip || !s.Used[domain.LifelineDoubleDip] {
		t.Fatalf("double dip should be active and used")
	}

	q := m.Question(0)
	wrong := wrongIndex(q)
	s, effects := m.Apply(s, SelectOption{Index: wrong})
	if s.Phase != PhasePresenting || s.Selected != NoSelection {
		t.Fatalf("first wrong guess must keep the question open, got %+v", s)
	}
	if !s.Eliminated.Has(wrong) || !s.DoubleDip {
		t.Fatalf("wrong guess should be eliminated with double dip still set, got %+v", s)
	}
	assertCues(t, effects, domain.CueLock, domain.CueWrong)

	if next, _ := m.Apply(s, SelectOption{Index: wrong}); next != s {
		t.Fatalf("eliminated option cannot be picked again")
	}

	s, effects = m.Apply(s, SelectOption{Index: q.CorrectIndex})
	if s.Phase != PhaseLocked || s.DoubleDip || s.Selected != q.CorrectIndex {
		t.Fatalf("correct guess should lock and clear double dip, got %+v", s)
	}
	assertSchedule(t, effects, RevealDue{}, LockDelay)
	s, _ = m.Apply(s, RevealDue{})
	if s.Outcome != OutcomeCorrect {
		t.Fatalf("expected correct outcome")
	}
}

func TestDoubleDipSecondWrongGuessIsFinal(t *testing.T) {
	m := newTestMachine(16, domain.DefaultSettings())
	s, _ := m.Apply(m.Start(), UseLifeline{Kind: domain.LifelineDoubleDip})
	q := m.Question(0)
	first := (q.CorrectIndex + 1) % domain.OptionCount
	second := (q.CorrectIndex + 2) % domain.OptionCount

	s, _ = m.Apply(s, SelectOption{Index: first})
	s, _ = m.Apply(s, SelectOption{Index: second})
	if s.Phase != PhaseLocked || s.DoubleDip {
		t.Fatalf("second wrong guess should lock, got %+v", s)
	}
	s, _ = m.Apply(s, RevealDue{})
	s, _ = m.Apply(s, ConsequenceDue{})
	if s.Phase != PhaseLost {
		t.Fatalf("expected loss after second wrong guess, got %s", s.Phase)
	}
}

func TestDoubleDipCorrectFirstGuess(t *testing.T) {
	m := newTestMachine(16, domain.DefaultSettings())
	s, _ := m.Apply(m.Start(), UseLifeline{Kind: domain.LifelineDoubleDip})
	s, _ = m.Apply(s, SelectOption{Index: m.Question(0).CorrectIndex})
	if s.Phase != PhaseLocked || s.DoubleDip {
		t.Fatalf("correct guess should take the normal path, got %+v", s)
	}
}
