package report

import (
	"errors"
	"testing"
)

func TestTierTables(t *testing.T) {
	tests := []struct {
		level     int
		wantLabel string
		wantColor ColorToken
	}{
		{1, "완벽한 평야", ColorToken{"#4ADE80", "#059669"}},
		{2, "잔잔한 파도", ColorToken{"#22D3EE", "#2563EB"}},
		{3, "눈에 띄는 골", ColorToken{"#FACC15", "#F97316"}},
		{4, "깊은 골짜기", ColorToken{"#F97316", "#EF4444"}},
		{5, "대자연의 나이테", ColorToken{"#DC2626", "#7E22CE"}},
	}

	for _, tt := range tests {
		label, err := TierLabel(tt.level)
		if err != nil {
			t.Fatalf("TierLabel(%d) error = %v", tt.level, err)
		}
		if label != tt.wantLabel {
			t.Errorf("TierLabel(%d) = %q, want %q", tt.level, label, tt.wantLabel)
		}

		color, err := TierColor(tt.level)
		if err != nil {
			t.Fatalf("TierColor(%d) error = %v", tt.level, err)
		}
		if color != tt.wantColor {
			t.Errorf("TierColor(%d) = %v, want %v", tt.level, color, tt.wantColor)
		}

		// Lookups are deterministic
		again, _ := TierLabel(tt.level)
		if again != label {
			t.Errorf("TierLabel(%d) changed between calls", tt.level)
		}
	}
}

func TestTierOutOfRange(t *testing.T) {
	for _, level := range []int{-1, 0, 6, 100} {
		if _, err := TierLabel(level); !errors.Is(err, ErrLevelOutOfRange) {
			t.Errorf("TierLabel(%d) error = %v, want ErrLevelOutOfRange", level, err)
		}
		if _, err := TierColor(level); !errors.Is(err, ErrLevelOutOfRange) {
			t.Errorf("TierColor(%d) error = %v, want ErrLevelOutOfRange", level, err)
		}
	}
}
