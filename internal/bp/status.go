// Package bp classifies blood-pressure readings into clinical categories.
package bp

import (
	"fmt"
	"strings"
)

// Category is a clinical blood-pressure class, stored by its snake_case name.
type Category string

const (
	Normal   Category = "normal"
	Elevated Category = "elevated"
	High     Category = "high"
	VeryHigh Category = "very_high"
)

// Status is the derived classification of a single systolic/diastolic pair.
type Status struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
}

// Classify maps a systolic/diastolic pair (mmHg) to a category. It accepts
// any integers and always returns one of the four categories.
//
// The third rule is an OR: a moderate systolic with a high diastolic (135/95)
// is "high", and only readings failing both halves reach "very_high".
func Classify(systolic, diastolic int) Status {
	switch {
	case systolic < 120 && diastolic < 80:
		return Status{Category: Normal, Label: Normal.Label()}
	case systolic < 130 && diastolic < 80:
		return Status{Category: Elevated, Label: Elevated.Label()}
	case systolic < 140 || diastolic < 90:
		return Status{Category: High, Label: High.Label()}
	default:
		return Status{Category: VeryHigh, Label: VeryHigh.Label()}
	}
}

// Categories returns every category in increasing severity.
func Categories() []Category {
	return []Category{Normal, Elevated, High, VeryHigh}
}

// Label is the human-readable name, e.g. "Very high".
func (c Category) Label() string {
	switch c {
	case Normal:
		return "Normal"
	case Elevated:
		return "Elevated"
	case High:
		return "High"
	case VeryHigh:
		return "Very high"
	default:
		return string(c)
	}
}

// Severity orders categories from 0 (normal) to 3 (very high); unknown
// values sort below normal.
func (c Category) Severity() int {
	switch c {
	case Normal:
		return 0
	case Elevated:
		return 1
	case High:
		return 2
	case VeryHigh:
		return 3
	default:
		return -1
	}
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	return c.Severity() >= 0
}

// ParseCategory accepts a category name case-insensitively, with "-" or "_"
// as separator.
func ParseCategory(value string) (Category, error) {
	c := Category(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "-", "_"))
	if !c.Valid() {
		return "", fmt.Errorf("invalid bp status %q (use normal|elevated|high|very_high)", value)
	}
	return c, nil
}
