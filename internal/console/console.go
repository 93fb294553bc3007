// Package console prints the timer's user-facing lines.
// Text is written verbatim; colour is added only when the output is a terminal.
package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/sweeney/yolodoro/internal/logic"
)

// Printer writes one line per call. Safe for concurrent use.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	styled bool
	work   lipgloss.Style
	rest   lipgloss.Style
}

// New creates a Printer for w. Styling is enabled only if w is a terminal.
func New(w io.Writer) *Printer {
	p := &Printer{w: w, styled: isTerminal(w)}
	if p.styled {
		r := lipgloss.NewRenderer(w)
		p.work = r.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
		p.rest = r.NewStyle().Foreground(lipgloss.Color("10"))
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Println writes msg for the given phase.
func (p *Printer) Println(phase logic.Phase, msg string) {
	if p.styled {
		if phase.IsBreak() {
			msg = p.rest.Render(msg)
		} else {
			msg = p.work.Render(msg)
		}
	}
	p.write(msg)
}

// Plain writes msg without styling.
func (p *Printer) Plain(msg string) {
	p.write(msg)
}

func (p *Printer) write(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// A closed stdout must not take the scheduler down.
	_, _ = fmt.Fprintln(p.w, msg)
}
