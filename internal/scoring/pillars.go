package scoring

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/julienmercier/catalogpulse-backend/pkg/db/models"
	"github.com/julienmercier/catalogpulse-backend/pkg/enums"
)

// PillarScores holds the six 0-100 sub-scores of one product.
type PillarScores struct {
	Title       int `json:"title"`
	Description int `json:"description"`
	Images      int `json:"images"`
	Pricing     int `json:"pricing"`
	Identifiers int `json:"identifiers"`
	SEO         int `json:"seo"`
}

// Get returns the sub-score for the named pillar.
func (s PillarScores) Get(pillar enums.Pillar) int {
	switch pillar {
	case enums.PillarTitle:
		return s.Title
	case enums.PillarDescription:
		return s.Description
	case enums.PillarImages:
		return s.Images
	case enums.PillarPricing:
		return s.Pricing
	case enums.PillarIdentifiers:
		return s.Identifiers
	case enums.PillarSEO:
		return s.SEO
	default:
		return 0
	}
}

var twentyPercent = decimal.NewFromFloat(0.2)

// ScorePillars computes all six sub-scores. Pure function over the
// product record, no I/O; absent fields simply fail their checks.
func ScorePillars(p models.Product) PillarScores {
	return PillarScores{
		Title:       scoreTitle(p),
		Description: scoreDescription(p),
		Images:      scoreImages(p),
		Pricing:     scorePricing(p),
		Identifiers: scoreIdentifiers(p),
		SEO:         scoreSEO(p),
	}
}

func scoreTitle(p models.Product) int {
	title := strings.TrimSpace(p.Title)
	runes := []rune(title)
	length := len(runes)

	score := 0
	switch {
	case length >= 25 && length <= 80:
		score += 35
	case length >= 1 && length < 25:
		score += length * 20 / 25
	case length > 80:
		score += 25
	}

	words := len(strings.Fields(title))
	switch {
	case words >= 4:
		score += 25
	case words >= 2:
		score += 15
	}

	if length > 0 && unicode.IsUpper(runes[0]) {
		score += 15
	}

	if !strings.Contains(title, "!!") && !hasCapsRun(runes, 10) {
		score += 15
	}

	if !strings.Contains(title, "  ") {
		score += 10
	}

	return cap100(score)
}

// hasCapsRun reports whether the text contains a run of at least n
// consecutive uppercase letters.
func hasCapsRun(runes []rune, n int) bool {
	run := 0
	for _, r := range runes {
		if unicode.IsUpper(r) {
			run++
			if run >= n {
				return true
			}
			continue
		}
		if unicode.IsLetter(r) {
			run = 0
		}
	}
	return false
}

func scoreDescription(p models.Product) int {
	raw := deref(p.Description)
	text := stripMarkup(raw)
	runes := []rune(text)
	length := len(runes)

	score := 0
	switch {
	case length >= 150:
		score += 35
	case length >= 1:
		score += length * 20 / 150
	}

	words := len(strings.Fields(text))
	switch {
	case words >= 30:
		score += 20
	case words >= 10:
		score += 10
	}

	if hasStructuralMarkup(raw) {
		score += 15
	} else if len([]rune(raw)) > 200 {
		score += 8
	}

	if strings.ContainsFunc(text, unicode.IsDigit) {
		score += 10
	}

	if length > 0 {
		switch runes[length-1] {
		case '.', '!', '?':
			score += 10
		}
	}

	if length > 0 && text != strings.TrimSpace(p.Title) {
		score += 10
	}

	return cap100(score)
}

func scoreImages(p models.Product) int {
	count := distinctImageCount(p.Images)

	score := 0
	if count >= 1 {
		score += 30
	}
	if count >= 3 {
		score += 30
	} else if count >= 2 {
		score += 15
	}
	if count >= 5 {
		score += 20
	} else if count >= 3 {
		score += 10
	}
	if deref(p.MainImage) != "" {
		score += 20
	}

	return cap100(score)
}

func distinctImageCount(images []string) int {
	seen := make(map[string]struct{}, len(images))
	for _, img := range images {
		img = strings.TrimSpace(img)
		if img == "" {
			continue
		}
		seen[img] = struct{}{}
	}
	return len(seen)
}

func scorePricing(p models.Product) int {
	if !p.Price.IsPositive() {
		return 0
	}

	score := 35

	if p.CostPrice.IsPositive() {
		score += 15
		margin := p.Price.Sub(p.CostPrice).Div(p.Price)
		if margin.GreaterThanOrEqual(twentyPercent) {
			score += 10
		}
	}

	switch {
	case p.StockQty == nil:
		score += 10
	case *p.StockQty > 5:
		score += 25
	case *p.StockQty > 0:
		score += 15
	}

	switch p.Status {
	case enums.ProductStatusActive:
		score += 15
	case enums.ProductStatusDraft:
		score += 5
	}

	return cap100(score)
}

func scoreIdentifiers(p models.Product) int {
	score := 0
	if deref(p.SKU) != "" {
		score += 30
	}
	if deref(p.Category) != "" {
		score += 25
	}
	if deref(p.Brand) != "" {
		score += 20
	}
	if deref(p.Barcode) != "" {
		score += 15
	}
	switch {
	case len(p.Tags) >= 2:
		score += 10
	case len(p.Tags) >= 1:
		score += 5
	}
	return cap100(score)
}

func scoreSEO(p models.Product) int {
	score := 0

	seoTitle := deref(p.SEOTitle)
	switch length := len([]rune(seoTitle)); {
	case length >= 20 && length <= 60:
		score += 30
	case length > 0:
		score += 15
	}

	seoDescription := deref(p.SEODescription)
	switch length := len([]rune(seoDescription)); {
	case length >= 100 && length <= 160:
		score += 30
	case length > 0:
		score += 15
	}

	switch {
	case len(p.Tags) >= 3:
		score += 20
	case len(p.Tags) >= 1:
		score += 8
	}

	switch overlap := keywordOverlap(p.Title, deref(p.Description)); {
	case overlap >= 2:
		score += 20
	case overlap >= 1:
		score += 10
	}

	return cap100(score)
}

// keywordOverlap counts distinct title tokens longer than 3 characters
// that also appear in the lowercased description text.
func keywordOverlap(title, description string) int {
	if title == "" || description == "" {
		return 0
	}
	haystack := strings.ToLower(stripMarkup(description))
	seen := make(map[string]struct{})
	overlap := 0
	for _, token := range strings.Fields(strings.ToLower(title)) {
		token = strings.Trim(token, ".,;:!?\"'()")
		if len([]rune(token)) <= 3 {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		if strings.Contains(haystack, token) {
			overlap++
		}
	}
	return overlap
}

func cap100(score int) int {
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
