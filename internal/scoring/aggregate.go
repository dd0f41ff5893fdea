package scoring

import (
	"strings"
	"time"

	"github.com/julienmercier/catalogpulse-backend/pkg/db/models"
	"github.com/julienmercier/catalogpulse-backend/pkg/enums"
)

// Pillar weights sum to 100.
var pillarWeights = map[enums.Pillar]int{
	enums.PillarTitle:       20,
	enums.PillarDescription: 20,
	enums.PillarImages:      20,
	enums.PillarPricing:     15,
	enums.PillarIdentifiers: 15,
	enums.PillarSEO:         10,
}

// Issue is a discrete defect detected on a product.
type Issue struct {
	Pillar   enums.Pillar   `json:"pillar"`
	Message  string         `json:"message"`
	Severity enums.Severity `json:"severity"`
}

// Recommendation suggests improving a pillar whose sub-score fell below
// its floor.
type Recommendation struct {
	Pillar  enums.Pillar `json:"pillar"`
	Message string       `json:"message"`
	Impact  enums.Impact `json:"impact"`
}

// Result is the full scoring outcome for one product.
type Result struct {
	ProductID       string           `json:"product_id"`
	Scores          PillarScores     `json:"scores"`
	Overall         int              `json:"overall"`
	Issues          []Issue          `json:"issues"`
	Recommendations []Recommendation `json:"recommendations"`
	ComputedAt      time.Time        `json:"computed_at"`
}

// Overall combines the six sub-scores with the fixed pillar weights,
// rounded to the nearest integer.
func Overall(scores PillarScores) int {
	sum := 0
	for _, pillar := range enums.Pillars() {
		sum += scores.Get(pillar) * pillarWeights[pillar]
	}
	return (sum + 50) / 100
}

// Issues derives the defect list from the raw product fields. The list
// is independent of the numeric sub-scores.
func Issues(p models.Product) []Issue {
	var issues []Issue

	titleLen := len([]rune(strings.TrimSpace(p.Title)))
	switch {
	case titleLen == 0:
		issues = append(issues, Issue{enums.PillarTitle, "Product has no title", enums.SeverityError})
	case titleLen < 25:
		issues = append(issues, Issue{enums.PillarTitle, "Title is shorter than 25 characters", enums.SeverityWarning})
	}

	descLen := len([]rune(stripMarkup(deref(p.Description))))
	switch {
	case descLen == 0:
		issues = append(issues, Issue{enums.PillarDescription, "Product has no description", enums.SeverityError})
	case descLen < 150:
		issues = append(issues, Issue{enums.PillarDescription, "Description is shorter than 150 characters", enums.SeverityWarning})
	}

	if distinctImageCount(p.Images) == 0 {
		issues = append(issues, Issue{enums.PillarImages, "Product has no images", enums.SeverityError})
	}

	if !p.Price.IsPositive() {
		issues = append(issues, Issue{enums.PillarPricing, "Price is zero or negative", enums.SeverityError})
	}

	if deref(p.SKU) == "" {
		issues = append(issues, Issue{enums.PillarIdentifiers, "Product has no SKU", enums.SeverityWarning})
	}

	if deref(p.SEOTitle) == "" {
		issues = append(issues, Issue{enums.PillarSEO, "Product has no SEO title", enums.SeverityWarning})
	}

	return issues
}

// Recommendations fires when a pillar sub-score is below its floor. The
// set may overlap or disagree with Issues; both are kept verbatim.
func Recommendations(scores PillarScores) []Recommendation {
	var recs []Recommendation
	if scores.Title < 60 {
		recs = append(recs, Recommendation{enums.PillarTitle, "Rewrite the title: aim for 25-80 characters, several words, sentence case", enums.ImpactHigh})
	}
	if scores.Description < 60 {
		recs = append(recs, Recommendation{enums.PillarDescription, "Expand the description past 150 characters with structured, specific copy", enums.ImpactHigh})
	}
	if scores.Images < 60 {
		recs = append(recs, Recommendation{enums.PillarImages, "Add more product images and set a main image", enums.ImpactHigh})
	}
	if scores.SEO < 40 {
		recs = append(recs, Recommendation{enums.PillarSEO, "Fill in SEO title and description and tag the product", enums.ImpactMedium})
	}
	return recs
}

// Score runs the full pipeline over one product.
func Score(p models.Product, now time.Time) Result {
	scores := ScorePillars(p)
	return Result{
		ProductID:       p.ID.String(),
		Scores:          scores,
		Overall:         Overall(scores),
		Issues:          Issues(p),
		Recommendations: Recommendations(scores),
		ComputedAt:      now.UTC(),
	}
}
