package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

const (
	// MinLevel is the mildest wrinkle tier
	MinLevel = 1
	// MaxLevel is the most severe wrinkle tier
	MaxLevel = 5
)

// Result is the structured diagnosis returned by the analysis service.
// A Result is never mutated after it is returned.
type Result struct {
	Level           int     `json:"level"`
	Nickname        string  `json:"nickname"`
	SkinAge         float64 `json:"skinAge"`
	SimilarityEmoji string  `json:"similarityEmoji"`
	Description     string  `json:"description"`
	Advice          string  `json:"advice"`
	CareRoutine     string  `json:"careRoutine"`
}

// Image is a photo ready to be sent to the service
type Image struct {
	Data     []byte
	MIMEType string
	Name     string // File name or other label for display; may be empty
}

// Size returns the payload length in bytes
func (i Image) Size() int {
	return len(i.Data)
}

// Analyzer produces a Result for an image. Implementations make exactly one
// remote call per invocation and never retry.
type Analyzer interface {
	Analyze(ctx context.Context, img Image) (*Result, error)
}

// AnalyzerFunc adapts a function to the Analyzer interface
type AnalyzerFunc func(ctx context.Context, img Image) (*Result, error)

// Analyze calls f(ctx, img)
func (f AnalyzerFunc) Analyze(ctx context.Context, img Image) (*Result, error) {
	return f(ctx, img)
}

// wireResult mirrors the JSON object the service returns. Pointer fields
// distinguish a missing key from a zero value.
type wireResult struct {
	Level           *float64 `json:"level"`
	Nickname        *string  `json:"nickname"`
	SkinAge         *float64 `json:"skinAge"`
	SimilarityEmoji *string  `json:"similarityEmoji"`
	Description     *string  `json:"description"`
	Advice          *string  `json:"advice"`
	CareRoutine     *string  `json:"careRoutine"`
}

// ParseResult decodes the service's JSON text into a Result.
// Every field is required and level must be an integer in [MinLevel, MaxLevel].
func ParseResult(text string) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, NewMalformedError("empty response body", nil)
	}

	var w wireResult
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		return nil, NewMalformedError("response is not valid JSON", err)
	}

	var missing []string
	if w.Level == nil {
		missing = append(missing, "level")
	}
	if w.Nickname == nil {
		missing = append(missing, "nickname")
	}
	if w.SkinAge == nil {
		missing = append(missing, "skinAge")
	}
	if w.SimilarityEmoji == nil {
		missing = append(missing, "similarityEmoji")
	}
	if w.Description == nil {
		missing = append(missing, "description")
	}
	if w.Advice == nil {
		missing = append(missing, "advice")
	}
	if w.CareRoutine == nil {
		missing = append(missing, "careRoutine")
	}
	if len(missing) > 0 {
		return nil, NewMalformedError(fmt.Sprintf("missing fields: %s", strings.Join(missing, ", ")), nil)
	}

	level := *w.Level
	if level != math.Trunc(level) || level < MinLevel || level > MaxLevel {
		return nil, NewMalformedError(fmt.Sprintf("level %v outside %d-%d", level, MinLevel, MaxLevel), nil)
	}

	return &Result{
		Level:           int(level),
		Nickname:        *w.Nickname,
		SkinAge:         *w.SkinAge,
		SimilarityEmoji: *w.SimilarityEmoji,
		Description:     *w.Description,
		Advice:          *w.Advice,
		CareRoutine:     *w.CareRoutine,
	}, nil
}
