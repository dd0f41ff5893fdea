package enums

import "fmt"

// Pillar identifies one of the six quality dimensions scored per product.
type Pillar string

const (
	PillarTitle       Pillar = "title"
	PillarDescription Pillar = "description"
	PillarImages      Pillar = "images"
	PillarPricing     Pillar = "pricing"
	PillarIdentifiers Pillar = "identifiers"
	PillarSEO         Pillar = "seo"
)

var validPillars = []Pillar{
	PillarTitle,
	PillarDescription,
	PillarImages,
	PillarPricing,
	PillarIdentifiers,
	PillarSEO,
}

// Pillars returns the six pillars in their canonical order.
func Pillars() []Pillar {
	out := make([]Pillar, len(validPillars))
	copy(out, validPillars)
	return out
}

// String implements fmt.Stringer.
func (p Pillar) String() string {
	return string(p)
}

// IsValid reports whether the value is a known Pillar.
func (p Pillar) IsValid() bool {
	for _, candidate := range validPillars {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePillar converts raw input into a Pillar.
func ParsePillar(value string) (Pillar, error) {
	for _, candidate := range validPillars {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pillar %q", value)
}
