// Package sound resolves feedback cues to playable asset URLs.
package sound

import (
	"sort"

	"kbc-quiz-game/internal/domain"
)

var defaultURLs = map[domain.Cue]string{
	domain.CueLock:      "https://assets.mixkit.co/active_storage/sfx/2571/2571-preview.mp3",
	domain.CueCorrect:   "https://assets.mixkit.co/active_storage/sfx/2000/2000-preview.mp3",
	domain.CueWrong:     "https://assets.mixkit.co/active_storage/sfx/2003/2003-preview.mp3",
	domain.CueTick:      "https://assets.mixkit.co/active_storage/sfx/2568/2568-preview.mp3",
	domain.CueWin:       "https://assets.mixkit.co/active_storage/sfx/2019/2019-preview.mp3",
	domain.CueLose:      "https://assets.mixkit.co/active_storage/sfx/2018/2018-preview.mp3",
	domain.CueLifeline:  "https://assets.mixkit.co/active_storage/sfx/2578/2578-preview.mp3",
	domain.CueMenuClick: "https://assets.mixkit.co/active_storage/sfx/2568/2568-preview.mp3",
}

// Catalog maps cues to URLs. It is read-only after construction.
type Catalog struct {
	urls map[domain.Cue]string
}

// NewCatalog returns the default asset table with overrides applied.
// An empty override URL mutes that cue.
func NewCatalog(overrides map[string]string) *Catalog {
	urls := make(map[domain.Cue]string, len(defaultURLs))
	for cue, url := range defaultURLs {
		urls[cue] = url
	}
	for cue, url := range overrides {
		urls[domain.Cue(cue)] = url
	}
	return &Catalog{urls: urls}
}

// URL returns the asset for a cue, or "" when the cue has none.
func (c *Catalog) URL(cue domain.Cue) string {
	return c.urls[cue]
}

// Cues lists the cues that resolve to an asset, sorted.
func (c *Catalog) Cues() []domain.Cue {
	out := make([]domain.Cue, 0, len(c.urls))
	for cue, url := range c.urls {
		if url != "" {
			out = append(out, cue)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
