package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/eliteGoblin/syscmd/internal/domain"
)

func stdout() io.Writer { return os.Stdout }

// promptConfirmer prints the question before handing off to the engine.
type promptConfirmer struct {
	next domain.Confirmer
	out  io.Writer
}

func newPromptConfirmer(next domain.Confirmer, out io.Writer) *promptConfirmer {
	return &promptConfirmer{next: next, out: out}
}

func (p *promptConfirmer) Confirm(
	ctx context.Context,
	req *domain.ConfirmationRequest,
	answers <-chan domain.Answer,
	onTick func(remaining int),
) (domain.ConfirmationState, error) {
	fmt.Fprintf(p.out, "\n%s\n%s\n", req.Title, req.Message)
	if req.RequiresCountdown {
		fmt.Fprintf(p.out, "Proceeding in %d seconds. [y] run now, [c] cancel\n", req.CountdownSeconds)
	} else {
		fmt.Fprint(p.out, "[y] yes, [n] no\n")
	}
	return p.next.Confirm(ctx, req, answers, onTick)
}

// parseAnswer maps a typed line to an Answer.
func parseAnswer(line string) (domain.Answer, bool) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return domain.AnswerYes, true
	case "n", "no":
		return domain.AnswerNo, true
	case "c", "cancel":
		return domain.AnswerCancel, true
	default:
		return 0, false
	}
}

// answerSource feeds answers from r, one per line. With assumeYes a single
// AnswerYes is queued instead. The channel closes at EOF.
func answerSource(ctx context.Context, assumeYes bool, r io.Reader) <-chan domain.Answer {
	if assumeYes {
		ch := make(chan domain.Answer, 1)
		ch <- domain.AnswerYes
		close(ch)
		return ch
	}

	ch := make(chan domain.Answer)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			answer, ok := parseAnswer(scanner.Text())
			if !ok {
				continue
			}
			select {
			case ch <- answer:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func printTick(w io.Writer, ev domain.ActionEvent) {
	fmt.Fprintf(w, "\r  %s in %2ds... ", ev.Intent.Title(), ev.SecondsRemaining)
}

func printResolved(w io.Writer, ev domain.ActionEvent) {
	switch ev.State {
	case domain.ConfirmationApproved:
		fmt.Fprintln(w, "\nConfirmed.")
	case domain.ConfirmationCancelled:
		fmt.Fprintln(w, "\nCancelled.")
	case domain.ConfirmationExpired:
		fmt.Fprintln(w, "\nNo answer; cancelled.")
	}
}

func printMessage(w io.Writer, msg *domain.UserMessage) {
	if msg == nil {
		return
	}
	prefix := ""
	switch msg.Severity {
	case domain.SeverityWarning:
		prefix = "Warning: "
	case domain.SeverityError:
		prefix = "Error: "
	}
	fmt.Fprintf(w, "%s%s - %s\n", prefix, msg.Title, msg.Body)
}

func printSnapshot(w io.Writer, s domain.InterfaceSnapshot) {
	name := s.Name
	if name == "" {
		name = "(none)"
	}
	fmt.Fprintf(w, "  %s: %s  IPv4 %s  MAC %s\n", name, s.AdminState.Label(), s.IPv4, s.MAC)
}
