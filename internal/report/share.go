package report

import (
	"fmt"

	"github.com/neckcare/neckscan/internal/analysis"
)

const shareTemplate = "[목주름 AI 진단 결과] 나의 목주름은 %d레벨 '%s'!\n추정 목 나이는 무려 %s 😱\n당신의 목 나이도 3초 만에 확인해보세요 👉 %s"

// ShareMessage renders the share text for a result. The URL is appended
// verbatim; callers pass DefaultLinks().ShareURL when nothing is configured.
func ShareMessage(result *analysis.Result, shareURL string) string {
	if result == nil {
		return ""
	}
	return fmt.Sprintf(shareTemplate, result.Level, result.Nickname, FormatSkinAge(result.SkinAge), shareURL)
}
