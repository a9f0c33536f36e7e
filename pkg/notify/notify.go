// Package notify renders run notifications for the terminal.
package notify

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"consolidator/pkg/consolidate"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette for notifications.
type Theme struct {
	Success lipgloss.Color
	Failure lipgloss.Color
	Accent  lipgloss.Color
	Muted   lipgloss.Color
}

// themes maps the settings theme names onto terminal palettes.
var themes = map[string]Theme{
	"darkly":    {Success: "#00bc8c", Failure: "#e74c3c", Accent: "#3498db", Muted: "#888888"},
	"superhero": {Success: "#5cb85c", Failure: "#d9534f", Accent: "#df691a", Muted: "#abb6c2"},
	"cyborg":    {Success: "#77b300", Failure: "#cc0000", Accent: "#2a9fd6", Muted: "#555555"},
	"solar":     {Success: "#2aa198", Failure: "#d33682", Accent: "#b58900", Muted: "#839496"},
	"flatly":    {Success: "#18bc9c", Failure: "#e74c3c", Accent: "#2c3e50", Muted: "#95a5a6"},
	"litera":    {Success: "#02b875", Failure: "#d9831f", Accent: "#4582ec", Muted: "#868e96"},
}

// ThemeNames lists the known theme names in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupTheme returns the named theme, falling back to darkly.
func LookupTheme(name string) Theme {
	if t, ok := themes[strings.ToLower(name)]; ok {
		return t
	}
	return themes["darkly"]
}

// Printer writes styled notifications to a writer. Colour is dropped
// automatically when the writer is not a terminal.
type Printer struct {
	out     io.Writer
	success lipgloss.Style
	failure lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
}

// NewPrinter returns a Printer for out using the named theme.
func NewPrinter(out io.Writer, theme string) *Printer {
	t := LookupTheme(theme)
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:     out,
		success: r.NewStyle().Bold(true).Foreground(t.Success),
		failure: r.NewStyle().Bold(true).Foreground(t.Failure),
		heading: r.NewStyle().Bold(true).Foreground(t.Accent),
		muted:   r.NewStyle().Foreground(t.Muted),
	}
}

// Success prints a success line.
func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.out, p.success.Render("✔ "+msg))
}

// Failure prints a failure line.
func (p *Printer) Failure(msg string) {
	fmt.Fprintln(p.out, p.failure.Render("✘ "+msg))
}

// Notify prints the terminal message of a run.
func (p *Printer) Notify(n consolidate.Notification) {
	if n.OK() {
		p.Success(n.Message())
		return
	}
	p.Failure(n.Message())
}

// Heading prints a section title.
func (p *Printer) Heading(title string) {
	fmt.Fprintln(p.out, p.heading.Render(title))
}

// Note prints a muted line.
func (p *Printer) Note(msg string) {
	fmt.Fprintln(p.out, p.muted.Render(msg))
}

// Bullets prints one indented bullet per item, or a muted placeholder when empty.
func (p *Printer) Bullets(items []string) {
	if len(items) == 0 {
		fmt.Fprintln(p.out, p.muted.Render("  (none)"))
		return
	}
	for _, item := range items {
		fmt.Fprintf(p.out, "  • %s\n", item)
	}
}
