package game

import (
	"fmt"
	"math"

	"kbc-quiz-game/internal/domain"
)

const adviceExcerptRunes = 50

func (m *Machine) useLifeline(s State, kind domain.Lifeline) (State, []Effect) {
	if !kind.Valid() || !s.InputOpen() || s.Used[kind] {
		return s, nil
	}
	q := m.Question(s.Position)
	s.Used[kind] = true

	switch kind {
	case domain.LifelineFiftyFifty:
		s.Eliminated = fiftyFifty(m.rnd, q.CorrectIndex, s.Eliminated)
	case domain.LifelineAudiencePoll:
		s.Overlay = OverlayAudience
		s.Poll = AudiencePoll(m.rnd, q.CorrectIndex)
	case domain.LifelinePhoneAFriend:
		s.Overlay = OverlayPhone
		s.Advice = PhoneAdvice(m.playerName, q)
	case domain.LifelineDoubleDip:
		s.DoubleDip = true
		s.BonusSpent = false
	}
	return s, []Effect{PlayCue{Cue: domain.CueLifeline}}
}

// fiftyFifty leaves the correct option and exactly one wrong option visible.
// Wrong options already eliminated stay eliminated.
func fiftyFifty(rnd Rand, correct int, already OptionSet) OptionSet {
	var out OptionSet
	candidates := make([]int, 0, domain.OptionCount-1)
	for i := 0; i < domain.OptionCount; i++ {
		if i == correct {
			continue
		}
		if already.Has(i) {
			out = out.With(i)
			continue
		}
		candidates = append(candidates, i)
	}
	for out.Len() < 2 && len(candidates) > 0 {
		j := rnd.Intn(len(candidates))
		out = out.With(candidates[j])
		candidates = append(candidates[:j], candidates[j+1:]...)
	}
	return out
}

// AudiencePoll produces a synthetic vote favouring the correct option: it draws
// 50-89 for the correct index and 0-19 for the others, then scales to percent.
func AudiencePoll(rnd Rand, correct int) [domain.OptionCount]int {
	var raw [domain.OptionCount]int
	total := 0
	for i := range raw {
		if i == correct {
			raw[i] = rnd.Intn(40) + 50
		} else {
			raw[i] = rnd.Intn(20)
		}
		total += raw[i]
	}
	var out [domain.OptionCount]int
	for i, v := range raw {
		out[i] = int(math.Round(float64(v) / float64(total) * 100))
	}
	return out
}

// PhoneAdvice is the canned message from the friend on the line.
func PhoneAdvice(playerName string, q domain.Question) string {
	if playerName == "" {
		playerName = "there"
	}
	return fmt.Sprintf("Hello %s! Based on my knowledge, the answer is likely %s. %s...",
		playerName, q.CorrectOption(), truncateRunes(q.Explanation, adviceExcerptRunes))
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
