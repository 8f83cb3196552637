package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/neckcare/neckscan/internal/analysis"
	"github.com/neckcare/neckscan/internal/report"
	"github.com/neckcare/neckscan/internal/session"
)

// CompletedStep is printed once the analysis finishes
const CompletedStep = "분석 완료"

// RunnerConfig holds configuration for a one-shot analysis
type RunnerConfig struct {
	Title   string  // e.g., "Neck Scan"
	Command string  // e.g., "neckscan analyze"
	Params  []Param // Shown in the header
	Links   report.Links
	Hints   []string // Shown under an error
	Quiet   bool     // Suppress header and loading lines
}

// Runner drives a session through one analysis and prints the
// header → loading messages → result flow.
type Runner struct {
	config  RunnerConfig
	printer *Printer
}

// NewRunner creates a runner that prints with p
func NewRunner(config RunnerConfig, p *Printer) *Runner {
	if p == nil {
		p = NewPrinter(nil)
	}
	return &Runner{config: config, printer: p}
}

// Run submits img to m and blocks until the session leaves Loading or ctx is
// done. It returns the final snapshot; a snapshot in the Error state is not
// a Go error. The report card or error box is printed unless Quiet is set.
func (r *Runner) Run(ctx context.Context, m *session.Machine, img analysis.Image) (session.Snapshot, error) {
	start := time.Now()

	if !r.config.Quiet {
		r.printer.PrintHeader(NewHeader(r.config.Title, r.config.Command, r.config.Params...))
	}

	updates, unsubscribe := m.Subscribe()
	defer unsubscribe()

	previous := m.Snapshot().RequestID
	if err := m.SubmitImage(img); err != nil {
		return m.Snapshot(), fmt.Errorf("failed to start analysis: %w", err)
	}

	shown := -1
	for {
		select {
		case <-ctx.Done():
			m.Reset()
			return m.Snapshot(), ctx.Err()

		case snap, ok := <-updates:
			if !ok {
				return m.Snapshot(), session.ErrClosed
			}

			// Snapshots from before this submission
			if snap.RequestID <= previous {
				continue
			}

			switch snap.State {
			case session.StateLoading:
				if snap.LoadingIndex != shown && !r.config.Quiet {
					shown = snap.LoadingIndex
					r.printer.PrintStep(snap.LoadingMessage, false)
				}

			case session.StateResult, session.StateError:
				if !r.config.Quiet {
					r.printer.PrintStep(CompletedStep, true)
					r.printer.PrintNote(fmt.Sprintf("%.1fs", time.Since(start).Seconds()))
					r.printer.Newline()
				}
				return snap, r.render(snap)
			}
		}
	}
}

func (r *Runner) render(snap session.Snapshot) error {
	if r.config.Quiet {
		return nil
	}
	if snap.State == session.StateError {
		r.printer.PrintError(snap.Error, r.config.Hints)
		return nil
	}

	view, err := report.BuildView(snap.Result, r.config.Links)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	r.printer.PrintReport(view)
	return nil
}
