package channels

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/julienmercier/catalogpulse-backend/pkg/db/models"
	"github.com/julienmercier/catalogpulse-backend/pkg/enums"
	pkgerrors "github.com/julienmercier/catalogpulse-backend/pkg/errors"
)

// Item is one triggered rule on one product.
type Item struct {
	ProductID    uuid.UUID      `json:"product_id"`
	RuleCode     string         `json:"rule_code"`
	Field        string         `json:"field"`
	Severity     enums.Severity `json:"severity"`
	Message      string         `json:"message"`
	Suggestion   string         `json:"suggestion"`
	AutoFixable  bool           `json:"auto_fixable"`
	CurrentValue string         `json:"current_value"`
}

// Diagnostic is the in-memory outcome of one channel run.
type Diagnostic struct {
	Channel      enums.Channel   `json:"channel"`
	TotalCount   int             `json:"total_count"`
	ValidCount   int             `json:"valid_count"`
	WarningCount int             `json:"warning_count"`
	ErrorCount   int             `json:"error_count"`
	Score        decimal.Decimal `json:"score"`
	Summary      map[string]int  `json:"summary"`
	Items        []Item          `json:"items"`
}

// RunDiagnostic evaluates every product against the channel's rule
// table. Each product lands in exactly one bucket: error wins over
// warning wins over valid; info findings are reported but the product
// still counts as valid.
func RunDiagnostic(products []models.Product, channel enums.Channel) (*Diagnostic, error) {
	table, ok := RuleTable(channel)
	if !ok || len(table) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConfiguration,
			fmt.Sprintf("no rule table for channel %q", channel))
	}

	diag := &Diagnostic{
		Channel:    channel,
		TotalCount: len(products),
		Summary:    map[string]int{},
	}

	for _, product := range products {
		hasError := false
		hasWarning := false

		for _, rule := range table {
			if !rule.Predicate(product) {
				continue
			}
			diag.Items = append(diag.Items, Item{
				ProductID:    product.ID,
				RuleCode:     rule.Code,
				Field:        rule.Field,
				Severity:     rule.Severity,
				Message:      rule.Message,
				Suggestion:   rule.Suggestion,
				AutoFixable:  rule.AutoFixable,
				CurrentValue: fieldValue(product, rule.Field),
			})
			diag.Summary[rule.Code]++
			switch rule.Severity {
			case enums.SeverityError:
				hasError = true
			case enums.SeverityWarning:
				hasWarning = true
			}
		}

		switch {
		case hasError:
			diag.ErrorCount++
		case hasWarning:
			diag.WarningCount++
		default:
			diag.ValidCount++
		}
	}

	diag.Score = channelScore(diag.ValidCount, diag.TotalCount)
	return diag, nil
}

// channelScore is round(valid/total*100, 2). Zero products score 0.
func channelScore(valid, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	rounded := math.Round(float64(valid)/float64(total)*10000) / 100
	return decimal.NewFromFloat(rounded)
}

// fieldValue stringifies the checked field, empty string for null.
func fieldValue(p models.Product, field string) string {
	switch field {
	case "title":
		return p.Title
	case "description":
		if p.Description == nil {
			return ""
		}
		return *p.Description
	case "price":
		return p.Price.String()
	case "barcode":
		if p.Barcode == nil {
			return ""
		}
		return *p.Barcode
	case "brand":
		if p.Brand == nil {
			return ""
		}
		return *p.Brand
	case "category":
		if p.Category == nil {
			return ""
		}
		return *p.Category
	case "sku":
		if p.SKU == nil {
			return ""
		}
		return *p.SKU
	case "seo_title":
		if p.SEOTitle == nil {
			return ""
		}
		return *p.SEOTitle
	case "seo_description":
		if p.SEODescription == nil {
			return ""
		}
		return *p.SEODescription
	case "main_image":
		if p.MainImage == nil {
			return ""
		}
		return *p.MainImage
	case "images":
		return strings.Join(p.Images, ",")
	case "stock_qty":
		if p.StockQty == nil {
			return ""
		}
		return strconv.Itoa(*p.StockQty)
	default:
		return ""
	}
}
