package domain

import (
	"fmt"
	"time"
)

// Category is the AQI band predicted by the model
type Category int

const (
	CategoryGood Category = iota + 1
	CategoryFair
	CategoryModerate
	CategoryPoor
	CategoryVeryPoor
)

// CategoryFromPrediction maps a model class to its band.
// Anything outside 1..4 is treated as Very Poor.
func CategoryFromPrediction(prediction int) Category {
	switch c := Category(prediction); c {
	case CategoryGood, CategoryFair, CategoryModerate, CategoryPoor:
		return c
	default:
		return CategoryVeryPoor
	}
}

func (c Category) String() string {
	switch c {
	case CategoryGood:
		return "Good"
	case CategoryFair:
		return "Fair"
	case CategoryModerate:
		return "Moderate"
	case CategoryPoor:
		return "Poor"
	default:
		return "Very Poor"
	}
}

// MarshalText renders the category label in JSON responses
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a category label
func (c *Category) UnmarshalText(text []byte) error {
	for _, candidate := range []Category{CategoryGood, CategoryFair, CategoryModerate, CategoryPoor, CategoryVeryPoor} {
		if candidate.String() == string(text) {
			*c = candidate
			return nil
		}
	}
	return fmt.Errorf("domain: unknown category %q", text)
}

// Language codes accepted by the speech synthesizer
const (
	LanguageEnglish = "en"
	LanguageUrdu    = "ur"
)

// Advisory is the bilingual health guidance for one prediction
type Advisory struct {
	Category Category `json:"category"`
	Color    string   `json:"color"`
	English  string   `json:"english"`
	Urdu     string   `json:"urdu"`
}

// Text returns the advisory text for a language code
func (a Advisory) Text(lang string) (string, error) {
	switch lang {
	case LanguageEnglish:
		return a.English, nil
	case LanguageUrdu:
		return a.Urdu, nil
	default:
		return "", ErrUnsupportedLanguage
	}
}

// Result is the outcome of one successful air quality check
type Result struct {
	City        string        `json:"city"`
	Features    FeatureRecord `json:"features"`
	Prediction  int           `json:"prediction"`
	Advisory    Advisory      `json:"advisory"`
	Temperature *float64      `json:"temperature,omitempty"`
	Humidity    *float64      `json:"humidity,omitempty"`
	CheckedAt   time.Time     `json:"checked_at"`
}

// AdviceResponse wraps a result with metadata
type AdviceResponse struct {
	Data    Result `json:"data"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
