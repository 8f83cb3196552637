package report

import (
	"fmt"
	"strconv"

	"github.com/neckcare/neckscan/internal/analysis"
	"github.com/neckcare/neckscan/internal/urls"
)

// Links are the outbound URLs attached to a view
type Links struct {
	ProductURL string `json:"productUrl"`
	ShareURL   string `json:"shareUrl"`
}

// DefaultLinks returns the built-in product and share URLs
func DefaultLinks() Links {
	return Links{
		ProductURL: urls.ProductPage,
		ShareURL:   urls.SharePage,
	}
}

// View holds every display value derived from a Result
type View struct {
	Level           int        `json:"level"`
	Label           string     `json:"label"`
	Color           ColorToken `json:"color"`
	Nickname        string     `json:"nickname"`
	SkinAge         float64    `json:"skinAge"`
	SkinAgeText     string     `json:"skinAgeText"`
	SimilarityEmoji string     `json:"similarityEmoji"`
	Description     string     `json:"description"`
	Advice          string     `json:"advice"`
	Step1           string     `json:"step1"`
	Step2           string     `json:"step2"`
	ProductURL      string     `json:"productUrl"`
	ProductImage    string     `json:"productImage"`
	ShareText       string     `json:"shareText"`
}

// BuildView derives the display values for a result. Empty links fall back
// to DefaultLinks.
func BuildView(result *analysis.Result, links Links) (View, error) {
	if result == nil {
		return View{}, fmt.Errorf("result is nil")
	}

	color, err := TierColor(result.Level)
	if err != nil {
		return View{}, err
	}
	label, err := TierLabel(result.Level)
	if err != nil {
		return View{}, err
	}

	defaults := DefaultLinks()
	if links.ProductURL == "" {
		links.ProductURL = defaults.ProductURL
	}
	if links.ShareURL == "" {
		links.ShareURL = defaults.ShareURL
	}

	step1, step2 := SplitRoutine(result.CareRoutine)

	return View{
		Level:           result.Level,
		Label:           label,
		Color:           color,
		Nickname:        result.Nickname,
		SkinAge:         result.SkinAge,
		SkinAgeText:     FormatSkinAge(result.SkinAge),
		SimilarityEmoji: result.SimilarityEmoji,
		Description:     result.Description,
		Advice:          result.Advice,
		Step1:           step1,
		Step2:           step2,
		ProductURL:      links.ProductURL,
		ProductImage:    urls.ProductImage,
		ShareText:       ShareMessage(result, links.ShareURL),
	}, nil
}

// FormatSkinAge renders an age estimate, e.g. 29 -> "29세", 31.5 -> "31.5세"
func FormatSkinAge(age float64) string {
	return strconv.FormatFloat(age, 'f', -1, 64) + "세"
}
