package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"kbc-quiz-game/internal/app"
	"kbc-quiz-game/internal/domain"
	"kbc-quiz-game/internal/game"
)

// NewPlayCmd runs one game in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var name string
	var topic string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("log-level") {
				zerolog.SetGlobalLevel(zerolog.WarnLevel)
			}
			service, backends, err := buildGameService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer backends.close()

			if topic == "" {
				topic = string(cfg.Questions.Topic)
			}
			c, err := service.StartGame(cmd.Context(), app.StartRequest{
				PlayerID:   "terminal",
				PlayerName: name,
				Topic:      domain.Topic(topic),
				Settings:   cfg.Game,
			})
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), domain.PlayerMessage(err))
				return err
			}
			defer service.ReturnToMenu(c.ID())
			return playSession(c, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&name, "name", "Player", "player name")
	cmd.Flags().StringVar(&topic, "topic", "", "question section (agriculture-core, rural-sociology)")
	return cmd
}

type playCommand struct {
	kind     string // select, lifeline, close, restart, quit, help
	index    int
	lifeline domain.Lifeline
}

func parseCommand(line string) (playCommand, bool) {
	word := strings.ToLower(strings.TrimSpace(line))
	switch word {
	case "a", "b", "c", "d":
		return playCommand{kind: "select", index: int(word[0] - 'a')}, true
	case "50", "5050", "fifty":
		return playCommand{kind: "lifeline", lifeline: domain.LifelineFiftyFifty}, true
	case "poll", "audience":
		return playCommand{kind: "lifeline", lifeline: domain.LifelineAudiencePoll}, true
	case "phone", "call":
		return playCommand{kind: "lifeline", lifeline: domain.LifelinePhoneAFriend}, true
	case "dip", "double":
		return playCommand{kind: "lifeline", lifeline: domain.LifelineDoubleDip}, true
	case "ok", "close":
		return playCommand{kind: "close"}, true
	case "r", "restart":
		return playCommand{kind: "restart"}, true
	case "q", "quit", "menu":
		return playCommand{kind: "quit"}, true
	case "h", "help", "?":
		return playCommand{kind: "help"}, true
	}
	return playCommand{}, false
}

const playHelp = "answer: a b c d | lifelines: 50 poll phone dip | ok (close dialog) | restart | quit"

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func playSession(c *app.Controller, in io.Reader, w io.Writer) error {
	out := &lockedWriter{w: w}
	updates, cancel := c.Subscribe()
	defer cancel()

	rendered := make(chan struct{})
	go func() {
		defer close(rendered)
		var last app.Snapshot
		first := true
		for u := range updates {
			if first || screenChanged(last, u.Snapshot) {
				renderSnapshot(out, u.Snapshot)
			} else if u.Snapshot.TimerWarning && u.Snapshot.RemainingSeconds != last.RemainingSeconds {
				fmt.Fprintf(out, "  ... %ds\n", u.Snapshot.RemainingSeconds)
			}
			last = u.Snapshot
			first = false
		}
	}()

	fmt.Fprintln(out, playHelp)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		cmd, ok := parseCommand(scanner.Text())
		if !ok {
			fmt.Fprintln(out, playHelp)
			continue
		}
		switch cmd.kind {
		case "select":
			c.Select(cmd.index)
		case "lifeline":
			c.UseLifeline(cmd.lifeline)
		case "close":
			c.CloseOverlay()
		case "restart":
			c.Restart()
		case "help":
			fmt.Fprintln(out, playHelp)
		case "quit":
			c.Close()
			<-rendered
			return nil
		}
	}
	c.Close()
	<-rendered
	return scanner.Err()
}

func screenChanged(prev, next app.Snapshot) bool {
	return prev.Position != next.Position ||
		prev.Phase != next.Phase ||
		prev.Overlay != next.Overlay ||
		len(prev.Eliminated) != len(next.Eliminated) ||
		prev.DoubleDip != next.DoubleDip
}

func renderSnapshot(w io.Writer, s app.Snapshot) {
	switch s.Status {
	case game.StatusWon:
		fmt.Fprintf(w, "\nCROREPATI! %s wins %s. Type restart or quit.\n", s.PlayerName, formatMoney(s.MoneyWon))
		return
	case game.StatusLost:
		fmt.Fprintf(w, "\nGame over. You take home %s. Type restart or quit.\n", formatMoney(s.MoneyWon))
		return
	}

	fmt.Fprintf(w, "\nQuestion %d/%d for %s (banked %s) [%ds]\n",
		s.Position+1, s.TotalQuestions, formatMoney(s.CurrentPrize), formatMoney(s.MoneyWon), s.RemainingSeconds)
	fmt.Fprintln(w, s.Question.Prompt)
	if s.Question.PromptAlt != "" {
		fmt.Fprintln(w, s.Question.PromptAlt)
	}
	for _, opt := range s.Options {
		marker := " "
		switch opt.State {
		case game.OptionEliminated:
			fmt.Fprintf(w, "  %s: ---\n", opt.Label)
			continue
		case game.OptionSelected:
			marker = ">"
		case game.OptionCorrectHighlight:
			marker = "+"
		case game.OptionIncorrectHighlight:
			marker = "x"
		}
		fmt.Fprintf(w, "%s %s: %s\n", marker, opt.Label, opt.Text)
	}

	var available []string
	for _, l := range s.Lifelines {
		if !l.Used {
			available = append(available, l.Kind)
		}
	}
	if len(available) > 0 {
		fmt.Fprintf(w, "lifelines: %s\n", strings.Join(available, ", "))
	}
	if s.DoubleDip {
		fmt.Fprintln(w, "double dip active: you may guess twice")
	}

	switch s.Overlay {
	case game.OverlayAudience:
		fmt.Fprintln(w, "Audience poll:")
		for i, p := range s.Poll {
			fmt.Fprintf(w, "  %c: %d%%\n", 'A'+i, p)
		}
		fmt.Fprintln(w, "(ok to continue)")
	case game.OverlayPhone:
		fmt.Fprintf(w, "Phone: %q\n(ok to continue)\n", s.Advice)
	}
	if s.Phase == game.PhaseRevealing {
		if s.Outcome == game.OutcomeCorrect {
			fmt.Fprintln(w, "Correct!")
		} else {
			fmt.Fprintf(w, "Wrong. The answer was %s.\n", s.Question.CorrectOption())
		}
	}
}

// formatMoney groups digits the Indian way: 1,00,00,000.
func formatMoney(amount int64) string {
	digits := fmt.Sprintf("%d", amount)
	if len(digits) <= 3 {
		return "₹" + digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return "₹" + strings.Join(groups, ",") + "," + tail
}
