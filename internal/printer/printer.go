// Package printer writes human-facing CLI output. Styling is applied only
// when the destination is a terminal.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/colonyops/storefront/internal/core/notify"
	"github.com/colonyops/storefront/internal/core/styles"
)

type ctxKey struct{}

// Printer writes status lines and toasts.
type Printer struct {
	out    io.Writer
	styled bool
}

// New returns a printer writing to out. styled enables lipgloss rendering.
func New(out io.Writer, styled bool) *Printer {
	return &Printer{out: out, styled: styled}
}

// ForWriter returns a printer that styles output only when out is a
// terminal.
func ForWriter(out io.Writer) *Printer {
	return New(out, IsTerminal(out))
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w any) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewContext returns ctx carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer stored in ctx, or one for stdout.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return ForWriter(os.Stdout)
}

// Styled reports whether output is rendered with lipgloss.
func (p *Printer) Styled() bool {
	return p.styled
}

// Writer returns the destination.
func (p *Printer) Writer() io.Writer {
	return p.out
}

func (p *Printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

// Printf writes a plain line.
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

// Section writes a header line.
func (p *Printer) Section(title string) {
	_, _ = fmt.Fprintln(p.out, p.render(styles.HeaderStyle, title))
}

// Successf writes a success line.
func (p *Printer) Successf(format string, args ...any) {
	p.status(notify.LevelSuccess, fmt.Sprintf(format, args...))
}

// Infof writes an info line.
func (p *Printer) Infof(format string, args ...any) {
	p.status(notify.LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf writes a warning line.
func (p *Printer) Warnf(format string, args ...any) {
	p.status(notify.LevelWarning, fmt.Sprintf(format, args...))
}

// Errorf writes an error line.
func (p *Printer) Errorf(format string, args ...any) {
	p.status(notify.LevelError, fmt.Sprintf(format, args...))
}

func (p *Printer) status(level notify.Level, msg string) {
	if !p.styled {
		_, _ = fmt.Fprintf(p.out, "%s: %s\n", level, msg)
		return
	}
	icon := lipgloss.NewStyle().Foreground(styles.ToastStyle(level).GetBackground()).Render(styles.ToastIcon(level))
	_, _ = fmt.Fprintf(p.out, "%s %s\n", icon, msg)
}

// Toast writes the active toast, if any.
func (p *Printer) Toast(t *notify.Toast) {
	if t == nil {
		return
	}
	if !p.styled {
		_, _ = fmt.Fprintln(p.out, t.Message)
		return
	}
	_, _ = fmt.Fprintln(p.out, styles.RenderToast(t))
}

// Muted renders s dimmed.
func (p *Printer) Muted(s string) string {
	return p.render(styles.MutedStyle, s)
}

// Price renders an amount.
func (p *Printer) Price(s string) string {
	return p.render(styles.PriceStyle, s)
}
