package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/neckcare/neckscan/internal/report"
)

// Printer writes UI components to a writer
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = width
	return p
}

// Width returns the width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(h *Header) {
	p.Println(h.SetWidth(p.width).Render())
	p.Newline()
}

// PrintStep prints one loading message line
func (p *Printer) PrintStep(message string, done bool) {
	if done {
		p.Println("  " + StepCompleteStyle.Render(StepMarkerComplete+" "+message))
		return
	}
	p.Println("  " + StepRunningStyle.Render(StepMarkerRunning+" "+message))
}

// PrintNote prints a muted line
func (p *Printer) PrintNote(note string) {
	p.Println("  " + NoteStyle.Render(note))
}

// PrintReport prints the report card
func (p *Printer) PrintReport(v report.View) {
	p.Println(RenderReportCard(v, p.width))
}

// PrintError prints the error box
func (p *Printer) PrintError(message string, hints []string) {
	p.Println(RenderErrorBox(message, hints, p.width))
}

// PrintJSON prints v as indented JSON
func (p *Printer) PrintJSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
