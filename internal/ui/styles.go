package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/neckcare/neckscan/internal/report"
)

// Color palette
var (
	BrandColor   = lipgloss.Color("#10B981") // Emerald - headers, CTA
	AccentColor  = lipgloss.Color("#F59E0B") // Amber - advice
	InfoColor    = lipgloss.Color("#3B82F6") // Blue - analysis report
	ErrorColor   = lipgloss.Color("#EF4444") // Red - errors
	WarningColor = lipgloss.Color("#FFA500") // Orange - running step
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
)

var (
	// HeaderTitleStyle is for the command title (e.g., "NECK SCAN")
	HeaderTitleStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Bold(true).
				PaddingLeft(2)

	// HeaderCommandStyle is for the command path (e.g., "neckscan analyze")
	HeaderCommandStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	// HeaderParamKeyStyle is for parameter keys (e.g., "Image:")
	HeaderParamKeyStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	// HeaderParamValueStyle is for parameter values
	HeaderParamValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	// StepCompleteStyle is for loading messages already shown
	StepCompleteStyle = lipgloss.NewStyle().
				Foreground(BrandColor)

	// StepRunningStyle is for the current loading message
	StepRunningStyle = lipgloss.NewStyle().
				Foreground(WarningColor)

	// NoteStyle is for muted notes such as elapsed time
	NoteStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	// SectionTitleStyle is for card section headings
	SectionTitleStyle = lipgloss.NewStyle().
				Bold(true)

	// BodyStyle is for card body text
	BodyStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// ErrorTitleStyle is for the error box title
	ErrorTitleStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// ErrorMessageStyle is for error message text
	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)

	// CTAStyle is for the call-to-action line
	CTAStyle = lipgloss.NewStyle().
			Foreground(BrandColor).
			Bold(true)

	// LinkStyle is for URLs
	LinkStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Underline(true)
)

// Markers
const (
	StepMarkerComplete = "✓"
	StepMarkerRunning  = "●"
	FailureMarker      = "✗"
)

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// TierStyle returns the bordered box style for a tier's gradient
func TierStyle(color report.ColorToken, width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(color.From)).
		Width(width-2).
		Padding(1, 2)
}

// TierTitleStyle returns the nickname style for a tier
func TierTitleStyle(color report.ColorToken) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(color.To)).
		Bold(true)
}

// SectionBoxStyle returns a rounded box with the given border color
func SectionBoxStyle(border lipgloss.Color, width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(width-2).
		Padding(0, 2)
}

// ErrorBoxStyle returns the border style for error boxes
func ErrorBoxStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(ErrorColor).
		Width(width-2).
		Padding(1, 2)
}
