package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/neckcare/neckscan/internal/report"
)

// Fixed copy used on the result card
const (
	CardBadge      = "NECK SCAN RESULT"
	ReportTitle    = "AI 분석 리포트"
	AdviceTitle    = "긴급 처방전"
	RoutineTitle   = "주름 역전 2단계 루틴"
	Step1Title     = "Step 1: 펩타이드 크림 (기초 공사)"
	Step2Title     = "Step 2: 히알루론산 패치 (강력 봉인)"
	ProductTagline = "와디즈 펀딩 1위 넥케어 세트 · 펩타이드 크림 & 패치 패키지"
	CTALabel       = "슈퍼 얼리버드 혜택 받기 ›"
	ErrorTitle     = "앗! 문제가 생겼어요"
	RetryHint      = "다시 시도해볼까요?"
)

// RenderTierCard renders the colored headline box: nickname, level, skin age
func RenderTierCard(v report.View, width int) string {
	badge := NoteStyle.Render(CardBadge)
	title := TierTitleStyle(v.Color).Render(v.Nickname)
	level := fmt.Sprintf("단계: %d레벨 (%s)", v.Level, v.Label)
	stats := fmt.Sprintf("추정 피부 나이 %s   │   %s 관찰됨", v.SkinAgeText, v.SimilarityEmoji)

	content := lipgloss.JoinVertical(lipgloss.Left, badge, "", title, BodyStyle.Render(level), "", BodyStyle.Render(stats))
	return TierStyle(v.Color, width).Render(content)
}

// RenderRoutine renders the two-step care routine and the call-to-action
func RenderRoutine(v report.View, width int) string {
	lines := []string{
		SectionTitleStyle.Foreground(BrandColor).Render(RoutineTitle),
		"",
		SectionTitleStyle.Render(Step1Title),
		BodyStyle.Render(v.Step1),
		"",
		SectionTitleStyle.Render(Step2Title),
		BodyStyle.Render(v.Step2),
		"",
		NoteStyle.Render(ProductTagline),
		CTAStyle.Render(CTALabel) + " " + LinkStyle.Render(v.ProductURL),
	}
	return SectionBoxStyle(BrandColor, width).Render(strings.Join(lines, "\n"))
}

// RenderReportCard renders the full result: tier card, analysis report,
// advice and the care routine
func RenderReportCard(v report.View, width int) string {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	description := SectionBoxStyle(InfoColor, width).Render(
		SectionTitleStyle.Foreground(InfoColor).Render(ReportTitle) + "\n" + BodyStyle.Render(v.Description))
	advice := SectionBoxStyle(AccentColor, width).Render(
		SectionTitleStyle.Foreground(AccentColor).Render(AdviceTitle) + "\n" + BodyStyle.Render(v.Advice))

	return lipgloss.JoinVertical(lipgloss.Left,
		RenderTierCard(v, width),
		description,
		advice,
		RenderRoutine(v, width),
	)
}

// RenderErrorBox renders the error screen with an optional list of hints
func RenderErrorBox(message string, hints []string, width int) string {
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	lines := []string{
		ErrorTitleStyle.Render(FailureMarker + "  " + ErrorTitle),
		"",
		ErrorMessageStyle.Render(message),
	}
	if len(hints) > 0 {
		lines = append(lines, "")
		for _, hint := range hints {
			lines = append(lines, NoteStyle.Render("• "+hint))
		}
	}

	return ErrorBoxStyle(width).Render(strings.Join(lines, "\n"))
}
