package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Palette shared with the rest of the tooling.
var (
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorAccent  = lipgloss.Color("#06B6D4") // Cyan
	colorMuted   = lipgloss.Color("#6C7086") // Medium gray
	colorWarning = lipgloss.Color("#F9E2AF") // Yellow
)

// styles renders command output. Styling is applied only when the output
// is a terminal.
type styles struct {
	enabled bool

	title   lipgloss.Style
	name    lipgloss.Style
	id      lipgloss.Style
	muted   lipgloss.Style
	warning lipgloss.Style
}

func newStyles(w io.Writer) *styles {
	return &styles{
		enabled: isTerminal(w),
		title:   lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		name:    lipgloss.NewStyle().Bold(true),
		id:      lipgloss.NewStyle().Foreground(colorAccent),
		muted:   lipgloss.NewStyle().Foreground(colorMuted),
		warning: lipgloss.NewStyle().Foreground(colorWarning),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (s *styles) render(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return style.Render(text)
}

// Title renders a section header.
func (s *styles) Title(text string) string { return s.render(s.title, text) }

// Name renders an item name.
func (s *styles) Name(text string) string { return s.render(s.name, text) }

// ID renders an id.
func (s *styles) ID(text string) string { return s.render(s.id, text) }

// Muted renders secondary text.
func (s *styles) Muted(text string) string { return s.render(s.muted, text) }

// Warning renders a warning.
func (s *styles) Warning(text string) string { return s.render(s.warning, text) }
