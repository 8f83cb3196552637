package report

import "strings"

// Routine step markers the service is asked to embed in careRoutine
const (
	Step1Marker = "1단계"
	Step2Marker = "2단계"
)

// Fallback step texts used when the routine cannot be split
const (
	DefaultStep1 = "주름 깊숙이 펩타이드 성분이 침투하도록 목 아래에서 위로 쓸어올리듯 마사지하며 발라주세요."
	DefaultStep2 = "크림 위에 패치를 밀착시켜 수분 증발을 막고 탄력을 꽉 잡아주세요. 밤사이 몰라보게 달라집니다."
)

// SplitRoutine splits a care routine into its two step texts.
//
// Without a Step1Marker both steps fall back to the defaults. Otherwise step1
// is the text after the first Step1Marker up to the next Step2Marker, and
// step2 is the text after that Step2Marker. Segments are trimmed and an empty
// segment falls back to its default.
func SplitRoutine(text string) (step1, step2 string) {
	_, afterFirst, found := strings.Cut(text, Step1Marker)
	if !found {
		return DefaultStep1, DefaultStep2
	}

	first, second, hasSecond := strings.Cut(afterFirst, Step2Marker)

	step1 = orDefault(first, DefaultStep1)
	if hasSecond {
		step2 = orDefault(second, DefaultStep2)
	} else {
		step2 = DefaultStep2
	}
	return step1, step2
}

func orDefault(segment, fallback string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return fallback
	}
	return segment
}
