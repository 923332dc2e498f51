package game

import (
	"testing"

	"kbc-quiz-game/internal/domain"
)

func TestOptionStates(t *testing.T) {
	m := newTestMachine(16, domain.DefaultSettings())
	correct := m.Question(0).CorrectIndex // 0
	s := m.Start()
	s.Eliminated = s.Eliminated.With(2)

	got := m.OptionStates(s)
	if got[2] != OptionEliminated || got[0] != OptionNeutral {
		t.Fatalf("unexpected presenting states %v", got)
	}

	s, _ = m.Apply(s, SelectOption{Index: 1})
	got = m.OptionStates(s)
	if got[1] != OptionSelected {
		t.Fatalf("expected selected highlight, got %v", got)
	}

	s, _ = m.Apply(s, RevealDue{})
	got = m.OptionStates(s)
	if got[1] != OptionIncorrectHighlight || got[correct] != OptionCorrectHighlight {
		t.Fatalf("expected wrong pick and correct answer highlighted, got %v", got)
	}
	if got[2] != OptionEliminated || got[3] != OptionNeutral {
		t.Fatalf("unexpected remaining states %v", got)
	}
}

func TestViewReflectsSession(t *testing.T) {
	m := newTestMachine(16, domain.DefaultSettings())
	s := answerCorrectly(t, m, m.Start())
	s, _ = m.Apply(s, UseLifeline{Kind: domain.LifelineAudiencePoll})

	v := m.View(s)
	if v.Position != 1 || v.TotalQuestions != 16 || v.Question.ID != "q2" {
		t.Fatalf("unexpected position fields %+v", v)
	}
	if v.CurrentPrize != 2000 || v.MoneyWon != 1000 {
		t.Fatalf("expected prize 2000 with 1000 banked, got %d/%d", v.CurrentPrize, v.MoneyWon)
	}
	if v.Selected != nil {
		t.Fatalf("expected no selection")
	}
	if len(v.Options) != 4 || v.Options[0].Label != "A" || v.Options[3].Label != "D" {
		t.Fatalf("unexpected options %+v", v.Options)
	}
	if v.Overlay != OverlayAudience || len(v.Poll) != 4 {
		t.Fatalf("expected audience overlay in view, got %+v", v)
	}
	if !v.Lifelines[domain.LifelineAudiencePoll].Used || !v.Lifelines[domain.LifelineAudiencePoll].Active {
		t.Fatalf("audience lifeline should be used and active")
	}
	if v.Ladder[0].State != RungPassed || v.Ladder[1].State != RungCurrent || v.Ladder[2].State != RungUpcoming {
		t.Fatalf("unexpected rung states %+v", v.Ladder[:3])
	}
	if !v.Ladder[4].SafeHaven || v.Ladder[15].Amount != 70000000 {
		t.Fatalf("unexpected ladder %+v", v.Ladder)
	}
	if v.TimerWarning {
		t.Fatalf("no timer warning expected at %d seconds", v.RemainingSeconds)
	}
}
