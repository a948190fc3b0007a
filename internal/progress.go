package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

var spinnerChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ShowProgress runs fn while a spinner with message animates on stderr.
// Off a terminal the message is logged and fn runs plainly.
func ShowProgress(ctx context.Context, message string, fn func() error) error {
	if !isTerminal(os.Stderr) {
		LogInfo(message)
		return fn()
	}
	return showProgressTo(ctx, os.Stderr, message, true, fn)
}

// ShowWaiting animates message while fn runs and then erases the line, for
// transient states such as waiting on the assistant
func ShowWaiting(ctx context.Context, message string, fn func()) {
	wrapped := func() error {
		fn()
		return nil
	}
	if !isTerminal(os.Stderr) {
		_ = wrapped()
		return
	}
	_ = showProgressTo(ctx, os.Stderr, message, false, wrapped)
}

func showProgressTo(ctx context.Context, w io.Writer, message string, keepLine bool, fn func() error) error {
	done := make(chan error, 1)
	spinnerCtx, stop := context.WithCancel(ctx)
	spinnerDone := make(chan struct{})

	go func() {
		defer close(spinnerDone)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-spinnerCtx.Done():
				return
			case <-ticker.C:
				char := spinnerChars[i%len(spinnerChars)]
				fmt.Fprintf(w, "\r%s %s", progressStyle.Render(char), message)
			}
		}
	}()

	go func() {
		done <- fn()
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	stop()
	<-spinnerDone

	switch {
	case !keepLine:
		fmt.Fprintf(w, "\r\033[K")
	case err != nil:
		fmt.Fprintf(w, "\r%s %s\n", errorStyle.Render("✗"), message)
	default:
		fmt.Fprintf(w, "\r%s %s\n", successStyle.Render("✓"), message)
	}
	return err
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	return isTerminal(w)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	printStyled(w, successStyle, "✓", "", message)
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	printStyled(w, errorStyle, "✗", "", message)
}

// PrintInfo prints an info message
func PrintInfo(w io.Writer, message string) {
	printStyled(w, progressStyle, "ℹ", "", message)
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	printStyled(w, warningStyle, "⚠", "WARNING: ", message)
}

func printStyled(w io.Writer, style lipgloss.Style, icon, plainPrefix, message string) {
	if isTerminal(w) {
		fmt.Fprintf(w, "%s %s\n", style.Render(icon), message)
	} else {
		fmt.Fprintf(w, "%s%s\n", plainPrefix, message)
	}
}
