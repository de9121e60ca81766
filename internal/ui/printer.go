// Package ui renders user-facing output and interactive prompts.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

const (
	ColorTitle   = "12"
	ColorInfo    = "7"
	ColorSuccess = "10"
	ColorWarn    = "11"
	ColorError   = "9"
	ColorHint    = "8"
)

// Printer writes styled status lines. Diagnostics go through the logging
// package; Printer is what the operator reads.
type Printer struct {
	out   io.Writer
	color bool

	title   lipgloss.Style
	info    lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
	hint    lipgloss.Style
}

// NewPrinter returns a Printer writing to out. With color false every line is
// plain text.
func NewPrinter(out io.Writer, color bool) *Printer {
	return &Printer{
		out:     out,
		color:   color,
		title:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorTitle)).Bold(true),
		info:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorInfo)),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Bold(true),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarn)),
		err:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Bold(true),
		hint:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHint)).Italic(true),
	}
}

func (p *Printer) Title(format string, a ...any) {
	p.line(p.title, "", format, a...)
}

func (p *Printer) Info(format string, a ...any) {
	p.line(p.info, "", format, a...)
}

func (p *Printer) Success(format string, a ...any) {
	p.line(p.success, "", format, a...)
}

func (p *Printer) Warn(format string, a ...any) {
	p.line(p.warn, "Warning: ", format, a...)
}

func (p *Printer) Error(format string, a ...any) {
	p.line(p.err, "Error: ", format, a...)
}

// Hint prints remediation advice below an error.
func (p *Printer) Hint(format string, a ...any) {
	p.line(p.hint, "  ", format, a...)
}

func (p *Printer) line(style lipgloss.Style, prefix, format string, a ...any) {
	text := prefix + fmt.Sprintf(format, a...)
	if p.color {
		text = style.Render(text)
	}
	fmt.Fprintln(p.out, text)
}
