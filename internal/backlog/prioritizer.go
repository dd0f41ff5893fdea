package backlog

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/julienmercier/catalogpulse-backend/pkg/db/models"
	"github.com/julienmercier/catalogpulse-backend/pkg/enums"
)

// Item is one corrective action in the ranked backlog. Recomputed on
// every request; never persisted.
type Item struct {
	ProductID       uuid.UUID       `json:"product_id"`
	Title           string          `json:"title"`
	UrgencyScore    int             `json:"urgency_score"`
	Priority        enums.Priority  `json:"priority"`
	Reasons         []string        `json:"reasons"`
	EstimatedImpact decimal.Decimal `json:"estimated_impact"`
	SuggestedAction string          `json:"suggested_action"`
}

// Summary buckets backlog items by substring match on the rendered
// reason text. The UI groups on the text itself, so the grouping here
// must do the same rather than re-derive from the predicates.
type Summary map[string]int

var summaryBuckets = []string{"stock", "margin", "image", "category"}

var (
	impactTen        = decimal.NewFromInt(10)
	impactFive       = decimal.NewFromInt(5)
	marginTenPct     = decimal.NewFromInt(10)
	marginFifteenPct = decimal.NewFromInt(15)
	hundred          = decimal.NewFromInt(100)
	factorTenth      = decimal.NewFromFloat(0.1)
	factorTwentieth  = decimal.NewFromFloat(0.05)
	factorImage      = decimal.NewFromFloat(0.3)
)

// BuildBacklog scores every product's urgency and returns the ranked
// backlog plus the grouped summary. Products with no findings are
// dropped entirely.
func BuildBacklog(products []models.Product) ([]Item, Summary) {
	items := make([]Item, 0)
	for _, product := range products {
		if item, ok := evaluate(product); ok {
			items = append(items, item)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].UrgencyScore > items[j].UrgencyScore
	})

	summary := Summary{}
	for _, item := range items {
		for _, bucket := range summaryBuckets {
			for _, reason := range item.Reasons {
				if strings.Contains(strings.ToLower(reason), bucket) {
					summary[bucket]++
					break
				}
			}
		}
	}

	return items, summary
}

// evaluate walks the fixed predicate order. The first predicate that
// carries an action determines the suggested action.
func evaluate(p models.Product) (Item, bool) {
	item := Item{
		ProductID:       p.ID,
		Title:           p.Title,
		EstimatedImpact: decimal.Zero,
	}

	addReason := func(score int, reason, action string, impact decimal.Decimal) {
		item.UrgencyScore += score
		item.Reasons = append(item.Reasons, reason)
		item.EstimatedImpact = item.EstimatedImpact.Add(impact)
		if item.SuggestedAction == "" && action != "" {
			item.SuggestedAction = action
		}
	}

	stockQty := decimal.Zero
	if p.StockQty != nil {
		stockQty = decimal.NewFromInt(int64(*p.StockQty))
	}

	switch {
	case p.StockQty != nil && *p.StockQty == 0:
		addReason(40, "Out of stock", "Restock immediately", p.Price.Mul(impactTen))
	case p.StockQty != nil && *p.StockQty > 0 && *p.StockQty < 3:
		addReason(30, "Critically low stock", "Replenish stock soon", p.Price.Mul(impactFive))
	case p.StockQty != nil && *p.StockQty >= 3 && *p.StockQty < 10:
		addReason(15, "Low stock", "", decimal.Zero)
	}

	if p.Price.IsPositive() {
		margin := p.Price.Sub(p.CostPrice).Div(p.Price).Mul(hundred)
		switch {
		case margin.IsPositive() && margin.LessThan(marginTenPct):
			addReason(25, "Very low margin", "Review pricing to improve margin",
				p.Price.Mul(factorTenth).Mul(stockQty))
		case margin.GreaterThanOrEqual(marginTenPct) && margin.LessThan(marginFifteenPct):
			addReason(15, "Thin margin", "Review pricing to improve margin",
				p.Price.Mul(factorTwentieth).Mul(stockQty))
		}
	}

	if p.MainImage == nil || strings.TrimSpace(*p.MainImage) == "" {
		addReason(20, "Missing main image", "Add a main product image", p.Price.Mul(factorImage))
	}

	if p.Category == nil || strings.TrimSpace(*p.Category) == "" {
		addReason(15, "Missing category", "Assign a product category", decimal.Zero)
	}

	if len(item.Reasons) == 0 {
		return Item{}, false
	}

	item.Priority = priorityFor(item.UrgencyScore)
	return item, true
}

func priorityFor(score int) enums.Priority {
	switch {
	case score >= 50:
		return enums.PriorityCritical
	case score >= 30:
		return enums.PriorityHigh
	case score >= 15:
		return enums.PriorityMedium
	default:
		return enums.PriorityLow
	}
}
