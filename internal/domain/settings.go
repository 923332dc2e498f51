package domain

import "fmt"

// LifelineToggles enables or disables each lifeline for the next session.
type LifelineToggles struct {
	FiftyFifty   bool `json:"fiftyFifty" yaml:"fifty_fifty"`
	AudiencePoll bool `json:"audiencePoll" yaml:"audience_poll"`
	PhoneAFriend bool `json:"phoneAFriend" yaml:"phone_a_friend"`
	DoubleDip    bool `json:"doubleDip" yaml:"double_dip"`
}

// Enabled reports the toggle for one lifeline.
func (t LifelineToggles) Enabled(l Lifeline) bool {
	switch l {
	case LifelineFiftyFifty:
		return t.FiftyFifty
	case LifelineAudiencePoll:
		return t.AudiencePoll
	case LifelinePhoneAFriend:
		return t.PhoneAFriend
	case LifelineDoubleDip:
		return t.DoubleDip
	}
	return false
}

// Settings are chosen by the player before a session starts.
type Settings struct {
	TimerDuration int             `json:"timerDuration" yaml:"timer_duration"` // seconds for the first question
	Lifelines     LifelineToggles `json:"availableLifelines" yaml:"lifelines"`
}

func DefaultSettings() Settings {
	return Settings{
		TimerDuration: 45,
		Lifelines: LifelineToggles{
			FiftyFifty:   true,
			AudiencePoll: true,
			PhoneAFriend: true,
			DoubleDip:    true,
		},
	}
}

func (s Settings) Validate() error {
	if s.TimerDuration <= 0 {
		return fmt.Errorf("%w: timer duration must be positive, got %d", ErrInvalidSettings, s.TimerDuration)
	}
	return nil
}

// InitialUsed returns the lifeline-used flags a fresh session starts with:
// a disabled lifeline counts as already used.
func (s Settings) InitialUsed() [LifelineCount]bool {
	var used [LifelineCount]bool
	for _, l := range Lifelines() {
		used[l] = !s.Lifelines.Enabled(l)
	}
	return used
}
