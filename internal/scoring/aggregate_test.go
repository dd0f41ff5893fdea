package scoring

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/julienmercier/catalogpulse-backend/pkg/enums"
)

func TestOverallUsesFixedWeights(t *testing.T) {
	cases := []struct {
		name   string
		scores PillarScores
		want   int
	}{
		{"all hundred", PillarScores{100, 100, 100, 100, 100, 100}, 100},
		{"all zero", PillarScores{}, 0},
		// 80*20 + 60*20 + 40*20 + 100*15 + 100*15 + 50*10 = 7100 -> 71
		{"mixed", PillarScores{Title: 80, Description: 60, Images: 40, Pricing: 100, Identifiers: 100, SEO: 50}, 71},
		// 55*20 + 55*20 + 55*20 + 55*15 + 55*15 + 55*10 = 5500 -> 55
		{"uniform", PillarScores{55, 55, 55, 55, 55, 55}, 55},
		// rounding: weighted sum 3315 -> (3315+50)/100 = 33
		{"rounds halves up", PillarScores{Title: 33, Description: 33, Images: 33, Pricing: 33, Identifiers: 34, SEO: 33}, 33},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overall(tc.scores); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestIssuesFromRawFields(t *testing.T) {
	p := baseProduct()
	p.Title = ""
	p.Description = nil
	p.Images = nil
	p.Price = decimal.Zero
	p.SKU = nil
	p.SEOTitle = nil

	issues := Issues(p)

	wantErrors := map[enums.Pillar]bool{
		enums.PillarTitle:       true,
		enums.PillarDescription: true,
		enums.PillarImages:      true,
		enums.PillarPricing:     true,
	}
	wantWarnings := map[enums.Pillar]bool{
		enums.PillarIdentifiers: true,
		enums.PillarSEO:         true,
	}

	for _, issue := range issues {
		switch issue.Severity {
		case enums.SeverityError:
			if !wantErrors[issue.Pillar] {
				t.Fatalf("unexpected error issue for pillar %s", issue.Pillar)
			}
			delete(wantErrors, issue.Pillar)
		case enums.SeverityWarning:
			if !wantWarnings[issue.Pillar] {
				t.Fatalf("unexpected warning issue for pillar %s", issue.Pillar)
			}
			delete(wantWarnings, issue.Pillar)
		}
	}
	if len(wantErrors) != 0 || len(wantWarnings) != 0 {
		t.Fatalf("missing issues: errors=%v warnings=%v", wantErrors, wantWarnings)
	}
}

func TestIssuesShortButPresentFieldsWarn(t *testing.T) {
	p := baseProduct()
	p.Title = "Short name"
	p.Description = strPtr("Brief.")

	var titleSeverity, descSeverity enums.Severity
	for _, issue := range Issues(p) {
		switch issue.Pillar {
		case enums.PillarTitle:
			titleSeverity = issue.Severity
		case enums.PillarDescription:
			descSeverity = issue.Severity
		}
	}
	if titleSeverity != enums.SeverityWarning {
		t.Fatalf("short title should warn, got %q", titleSeverity)
	}
	if descSeverity != enums.SeverityWarning {
		t.Fatalf("short description should warn, got %q", descSeverity)
	}
}

func TestIssuesCleanProductHasNone(t *testing.T) {
	p := baseProduct()
	p.Title = strings.Repeat("Fine product title here ", 2) // 48 chars
	p.Description = strPtr(strings.Repeat("long enough description text ", 6))
	p.Images = []string{"a.jpg"}
	p.Price = decimal.NewFromInt(10)
	p.SKU = strPtr("SKU-1")
	p.SEOTitle = strPtr("SEO title")

	if issues := Issues(p); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestRecommendationFloors(t *testing.T) {
	recs := Recommendations(PillarScores{Title: 59, Description: 60, Images: 59, Pricing: 0, Identifiers: 0, SEO: 39})

	byPillar := map[enums.Pillar]Recommendation{}
	for _, rec := range recs {
		byPillar[rec.Pillar] = rec
	}

	if rec, ok := byPillar[enums.PillarTitle]; !ok || rec.Impact != enums.ImpactHigh {
		t.Fatalf("title below 60 should recommend with high impact, got %+v", rec)
	}
	if _, ok := byPillar[enums.PillarDescription]; ok {
		t.Fatal("description at exactly 60 should not fire")
	}
	if rec, ok := byPillar[enums.PillarImages]; !ok || rec.Impact != enums.ImpactHigh {
		t.Fatalf("images below 60 should recommend with high impact, got %+v", rec)
	}
	if rec, ok := byPillar[enums.PillarSEO]; !ok || rec.Impact != enums.ImpactMedium {
		t.Fatalf("seo below 40 should recommend with medium impact, got %+v", rec)
	}
	if _, ok := byPillar[enums.PillarPricing]; ok {
		t.Fatal("pricing has no recommendation floor")
	}
}

func TestResultRoundTripsThroughModel(t *testing.T) {
	p := baseProduct()
	p.Description = strPtr("Short.")
	result := Score(p, p.CreatedAt)

	row, err := ToModel(result)
	if err != nil {
		t.Fatalf("to model: %v", err)
	}
	back, err := FromModel(row)
	if err != nil {
		t.Fatalf("from model: %v", err)
	}

	if back.Overall != result.Overall || back.Scores != result.Scores {
		t.Fatalf("scores changed in round trip: %+v vs %+v", back, result)
	}
	if len(back.Issues) != len(result.Issues) {
		t.Fatalf("issues changed in round trip: %d vs %d", len(back.Issues), len(result.Issues))
	}
	if len(back.Recommendations) != len(result.Recommendations) {
		t.Fatalf("recommendations changed in round trip: %d vs %d", len(back.Recommendations), len(result.Recommendations))
	}
}
