// Package output renders command results in text, markdown or JSON.
// Commands build one Renderer per invocation and go through it for all
// user-facing output, so CI runs and terminals get consistent formats.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
)

// OutputMode selects how results are rendered.
type OutputMode string

const (
	// ModeAuto picks text on a TTY and markdown otherwise.
	ModeAuto OutputMode = "auto"
	// ModeText renders human-readable tables and status lines.
	ModeText OutputMode = "text"
	// ModeMarkdown renders pipe tables and headers for docs and CI logs.
	ModeMarkdown OutputMode = "markdown"
	// ModeJSON renders machine-readable JSON.
	ModeJSON OutputMode = "json"
)

// Mode parses a mode string, defaulting to auto.
func Mode(s string) OutputMode {
	switch strings.ToLower(s) {
	case "text":
		return ModeText
	case "markdown", "md":
		return ModeMarkdown
	case "json":
		return ModeJSON
	default:
		return ModeAuto
	}
}

// Renderer writes formatted output to a pair of streams.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	isTTY  bool
	mode   OutputMode
}

// NewRenderer creates a renderer, detecting TTY state from the output
// writer when it is a real file.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return NewRendererWithTTY(out, errOut, isTTY, mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
// Tests use this to pin the auto-mode resolution.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{out: out, errOut: errOut, isTTY: isTTY, mode: mode}
}

// EffectiveMode resolves auto to a concrete mode.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// JSONMode reports whether the renderer is in JSON mode. Commands use
// this to emit a single JSON document instead of formatted sections.
func (r *Renderer) JSONMode() bool {
	return r.mode == ModeJSON
}

// Println writes a plain line to the output stream.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to the output stream.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a section header. Markdown mode uses #-prefixes; text
// mode underlines top-level headers.
func (r *Renderer) Header(level int, text string) {
	_, _ = fmt.Fprintln(r.out, FormatHeader(r.EffectiveMode(), level, text))
}

// KeyValue writes an aligned key: value line.
func (r *Renderer) KeyValue(key, value string) {
	_, _ = fmt.Fprintln(r.out, FormatKeyValue(r.EffectiveMode(), key, value))
}

// Success writes a success line.
func (r *Renderer) Success(msg string) {
	if r.EffectiveMode() == ModeMarkdown {
		_, _ = fmt.Fprintf(r.out, "**%s**\n", msg)
		return
	}
	_, _ = fmt.Fprintf(r.out, "✓ %s\n", msg)
}

// Warning writes a warning line to the error stream.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintf(r.errOut, "Warning: %s\n", msg)
}

// StatusLine writes one name with a status marker and optional detail.
func (r *Renderer) StatusLine(name, status, detail string) {
	marker := "•"
	switch status {
	case "success", "deployed", "created":
		marker = "✓"
	case "failed", "error":
		marker = "✗"
	}
	if r.EffectiveMode() == ModeMarkdown {
		marker = "-"
	}
	if detail != "" {
		_, _ = fmt.Fprintf(r.out, "  %s %s (%s)\n", marker, name, detail)
		return
	}
	_, _ = fmt.Fprintf(r.out, "  %s %s\n", marker, name)
}

// Table renders a table of rows. Text mode uses a light box style;
// markdown mode emits a pipe table.
func (r *Renderer) Table(header []string, rows [][]string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.markdownTable(header, rows)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	hr := make(table.Row, len(header))
	for i, h := range header {
		hr[i] = h
	}
	t.AppendHeader(hr)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}
	t.Render()
}

func (r *Renderer) markdownTable(header []string, rows [][]string) {
	_, _ = fmt.Fprintf(r.out, "| %s |\n", strings.Join(header, " | "))
	seps := make([]string, len(header))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(r.out, "| %s |\n", strings.Join(seps, " | "))
	for _, row := range rows {
		_, _ = fmt.Fprintf(r.out, "| %s |\n", strings.Join(row, " | "))
	}
}

// JSON writes v as indented JSON to the output stream.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatHeader formats a section header for the given mode.
func FormatHeader(mode OutputMode, level int, text string) string {
	if mode == ModeMarkdown {
		return strings.Repeat("#", level) + " " + text
	}
	if level <= 1 {
		return text + "\n" + strings.Repeat("=", len(text))
	}
	return text
}

// FormatKeyValue formats a key: value line for the given mode.
func FormatKeyValue(mode OutputMode, key, value string) string {
	if mode == ModeMarkdown {
		return fmt.Sprintf("- **%s**: %s", key, value)
	}
	return fmt.Sprintf("%-14s %s", key+":", value)
}
