package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/neckcare/neckscan/internal/ui"
	"github.com/neckcare/neckscan/internal/urls"
	"github.com/neckcare/neckscan/internal/version"
)

// AppName is shown in the container header
const AppName = "NECKSCAN"

// Layout constants
const (
	MinTerminalWidth  = ui.MinTerminalWidth
	MinTerminalHeight = 16
	chromeHeight      = 6 // outer border, header and footer rows
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ui.BrandColor).
			Bold(true).
			Padding(1, 0)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ui.MutedColor).
			Italic(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ui.BrandColor)

	LoadingMessageStyle = lipgloss.NewStyle().
				Foreground(ui.TextColor).
				Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ui.BrandColor)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ui.ErrorColor)
)

// RenderTitle renders a screen title
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderSubtitle renders a dim subtitle line
func RenderSubtitle(text string) string {
	return SubtitleStyle.Render(text)
}

func buildHeaderContent() string {
	left := lipgloss.NewStyle().
		Foreground(ui.TextColor).
		Bold(true).
		Render(AppName + " v" + version.Version)

	right := lipgloss.NewStyle().
		Foreground(ui.MutedColor).
		Render(urls.ProductPage)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// RenderApplicationContainer wraps every screen in the same frame: a header
// with the app name, the screen content and a footer with key help
func RenderApplicationContainer(content, footerText string, terminalWidth, terminalHeight int) string {
	if terminalWidth < MinTerminalWidth {
		terminalWidth = MinTerminalWidth
	}
	if terminalHeight < MinTerminalHeight {
		terminalHeight = MinTerminalHeight
	}

	header := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(ui.BrandColor).
		Width(terminalWidth-4).
		Padding(0, 1).
		Render(buildHeaderContent())

	footer := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(ui.BrandColor).
		Width(terminalWidth-4).
		Padding(0, 1).
		Foreground(ui.MutedColor).
		Render(footerText)

	body := lipgloss.NewStyle().
		Width(terminalWidth - 4).
		Height(contentHeight(terminalHeight)).
		Render(content)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(ui.BrandColor).
		Width(terminalWidth - 2).
		AlignVertical(lipgloss.Top).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, body, footer))

	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Left, lipgloss.Top, bordered)
}

// contentWidth is the usable width inside the container
func contentWidth(terminalWidth int) int {
	if terminalWidth < MinTerminalWidth {
		terminalWidth = MinTerminalWidth
	}
	return terminalWidth - 4
}

// contentHeight is the usable height inside the container
func contentHeight(terminalHeight int) int {
	if terminalHeight < MinTerminalHeight {
		terminalHeight = MinTerminalHeight
	}
	return terminalHeight - chromeHeight
}
