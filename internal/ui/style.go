// Package ui holds the terminal styling shared by the commands.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// colour roles
var (
	Accent = lipgloss.Color("#FF5C00")
	Muted  = lipgloss.Color("#777777")
	Alert  = lipgloss.Color("#FF007F")
	Calm   = lipgloss.Color("#88AABB")
)

// Styles renders report elements for one writer
type Styles struct {
	Header lipgloss.Style
	Field  lipgloss.Style
	Notice lipgloss.Style
	Error  lipgloss.Style
	Rule   string
	// Plain is set when output must not be styled
	Plain bool
}

// Paint renders text with st unless the styles are plain
func (s Styles) Paint(st lipgloss.Style, text string) string {
	if s.Plain {
		return text
	}
	return st.Render(text)
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewStyles builds styles for w. Styles degrade to plain text when w is
// not a terminal or color is false.
func NewStyles(w io.Writer, color bool) Styles {
	r := lipgloss.NewRenderer(w)
	if !color || !IsTerminal(w) {
		return Styles{
			Header: r.NewStyle(),
			Field:  r.NewStyle(),
			Notice: r.NewStyle(),
			Error:  r.NewStyle(),
			Plain:  true,
		}
	}

	return Styles{
		Header: r.NewStyle().Foreground(Accent).Bold(true),
		Field:  r.NewStyle().Foreground(Calm),
		Notice: r.NewStyle().Foreground(Muted).Italic(true),
		Error:  r.NewStyle().Foreground(Alert).Bold(true),
		Rule:   r.NewStyle().Foreground(Muted).Render(strings.Repeat("─", 48)),
	}
}

// SpinWhile shows a spinner with label on w while fn runs. Nothing is drawn
// when w is not a terminal.
func SpinWhile[T any](w io.Writer, label string, fn func() (T, error)) (T, error) {
	if !IsTerminal(w) {
		return fn()
	}

	s := spinner.New(spinner.WithSpinner(spinner.Meter))
	frames := s.Spinner.Frames
	label = lipgloss.NewStyle().Foreground(Accent).Render(label)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(s.Spinner.FPS)
		defer ticker.Stop()

		frame := 0
		for {
			select {
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s %s", frames[frame], label)
				frame = (frame + 1) % len(frames)
			case <-done:
				fmt.Fprint(w, "\r\033[K")
				return
			}
		}
	}()

	out, err := fn()
	close(done)
	wg.Wait()
	return out, err
}
