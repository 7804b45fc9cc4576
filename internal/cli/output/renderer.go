// Package output renders command results for three audiences: a styled
// terminal, piped plain/markdown text, and machine-readable JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode selects the output format.
type Mode string

const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	styles *Styles
}

// NewRenderer creates a renderer. ModeAuto resolves to styled text on a
// terminal and markdown when piped.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	r := &Renderer{out: out, errOut: errOut, mode: mode}
	r.styles = NewStyles(r.styled())
	return r
}

// EffectiveMode resolves ModeAuto against the actual output destination.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto && r.mode != "" {
		return r.mode
	}
	if r.isTerminal() {
		return ModeText
	}
	return ModeMarkdown
}

func (r *Renderer) isTerminal() bool {
	f, ok := r.out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// styled reports whether ANSI styling should be applied.
func (r *Renderer) styled() bool {
	if r.EffectiveMode() != ModeText {
		return false
	}
	return termenv.NewOutput(toWriter(r.out)).Profile != termenv.Ascii
}

func toWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return os.Stdout
}

// Styles returns the lipgloss styles for the current mode.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Out returns the output writer, for table renderers that write directly.
func (r *Renderer) Out() io.Writer {
	return r.out
}

// Println writes a line to the output stream.
func (r *Renderer) Println(a ...any) {
	fmt.Fprintln(r.out, a...)
}

// Printf writes formatted output to the output stream.
func (r *Renderer) Printf(format string, a ...any) {
	fmt.Fprintf(r.out, format, a...)
}

// Errorf writes formatted output to the error stream.
func (r *Renderer) Errorf(format string, a ...any) {
	fmt.Fprintf(r.errOut, format, a...)
}

// JSON writes v as indented JSON to the output stream.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
