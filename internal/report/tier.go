package report

import (
	"errors"
	"fmt"

	"github.com/neckcare/neckscan/internal/analysis"
)

// ErrLevelOutOfRange is returned when a level has no tier entry
var ErrLevelOutOfRange = errors.New("level out of range")

// ColorToken is a two-stop gradient used to paint a tier
type ColorToken struct {
	From string `json:"from"`
	To   string `json:"to"`
}

var tierColors = [analysis.MaxLevel]ColorToken{
	{From: "#4ADE80", To: "#059669"}, // green -> emerald
	{From: "#22D3EE", To: "#2563EB"}, // cyan -> blue
	{From: "#FACC15", To: "#F97316"}, // yellow -> orange
	{From: "#F97316", To: "#EF4444"}, // orange -> red
	{From: "#DC2626", To: "#7E22CE"}, // red -> purple
}

var tierLabels = [analysis.MaxLevel]string{
	"완벽한 평야",
	"잔잔한 파도",
	"눈에 띄는 골",
	"깊은 골짜기",
	"대자연의 나이테",
}

func checkLevel(level int) error {
	if level < analysis.MinLevel || level > analysis.MaxLevel {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrLevelOutOfRange, level, analysis.MinLevel, analysis.MaxLevel)
	}
	return nil
}

// TierColor returns the gradient for a severity level
func TierColor(level int) (ColorToken, error) {
	if err := checkLevel(level); err != nil {
		return ColorToken{}, err
	}
	return tierColors[level-1], nil
}

// TierLabel returns the display label for a severity level
func TierLabel(level int) (string, error) {
	if err := checkLevel(level); err != nil {
		return "", err
	}
	return tierLabels[level-1], nil
}
