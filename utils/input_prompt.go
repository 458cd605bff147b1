package utils

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bionotebook/seeddata/constants/lipgloss"
)

// ConfirmPrompt asks a yes/no question on out and reads the answer. Only
// "y" and "yes" (any case) confirm; EOF counts as no.
func ConfirmPrompt(reader *bufio.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprint(out, lipgloss.BlueSky.Render(question+" (y/N): "))

	answer, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("error reading input: %w", err)
	}
	return isYes(answer), nil
}

// ConfirmPromptWithContext is ConfirmPrompt with context cancellation support.
func ConfirmPromptWithContext(ctx context.Context, reader *bufio.Reader, out io.Writer, question string) (bool, error) {
	type answer struct {
		ok  bool
		err error
	}
	answerChan := make(chan answer, 1)

	go func() {
		ok, err := ConfirmPrompt(reader, out, question)
		answerChan <- answer{ok: ok, err: err}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(out)
		return false, ctx.Err()
	case a := <-answerChan:
		return a.ok, a.err
	}
}

func isYes(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "y" || s == "yes"
}
