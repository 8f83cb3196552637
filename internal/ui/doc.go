// Package ui renders neckscan output for the non-interactive commands.
//
// Unlike the interactive TUI, these components print once and return, so
// they work when stdout is piped. Widths come from the terminal via
// golang.org/x/term and are clamped to MinTerminalWidth..MaxContentWidth.
//
// Components:
//
//   - Header: command banner with ordered parameters
//   - RenderReportCard: tier card, analysis report, advice, care routine, CTA
//   - RenderErrorBox: the error screen with optional hints
//   - Runner: submits an image to a session.Machine and prints the
//     header → loading messages → result flow
//
// Example:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:   "Neck Scan",
//	    Command: "neckscan analyze",
//	    Params:  []ui.Param{{Key: "Image", Value: path}},
//	}, ui.NewPrinter(os.Stdout))
//	snap, err := runner.Run(ctx, machine, img)
//
// Logging is silent unless NECKSCAN_LOG_LEVEL is set, so zap output does not
// interleave with the rendered boxes.
package ui
