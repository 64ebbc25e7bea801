package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// printer writes styled status lines. Styles come from a renderer bound to
// the destination writer, so pipes and buffers receive plain text.
type printer struct {
	w            io.Writer
	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
	stepStyle    lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:            w,
		successStyle: r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		errorStyle:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		stepStyle:    r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Success prints a completed operation.
func (p *printer) Success(msg string) {
	fmt.Fprintln(p.w, p.successStyle.Render("✓ "+msg))
}

// Error prints err with the "Error:" prefix.
func (p *printer) Error(err error) {
	fmt.Fprintln(p.w, p.errorStyle.Render("Error: "+err.Error()))
}

// Step prints an indented detail line.
func (p *printer) Step(msg string) {
	fmt.Fprintln(p.w, p.stepStyle.Render("  "+msg))
}
