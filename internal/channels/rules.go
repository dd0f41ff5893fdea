package channels

import (
	"strings"

	"github.com/julienmercier/catalogpulse-backend/pkg/db/models"
	"github.com/julienmercier/catalogpulse-backend/pkg/enums"
)

// Rule is one publication check for a channel. Predicate returns true
// when the product VIOLATES the rule.
type Rule struct {
	Code        string
	Field       string
	Severity    enums.Severity
	Predicate   func(models.Product) bool
	Message     string
	Suggestion  string
	AutoFixable bool
}

// ruleTables holds the static per-channel rule configuration, loaded at
// startup. Order within a table is part of the contract.
var ruleTables = map[enums.Channel][]Rule{
	enums.ChannelGoogleShopping: {
		{
			Code:     "gtin_too_short",
			Field:    "barcode",
			Severity: enums.SeverityError,
			Predicate: func(p models.Product) bool {
				return len([]rune(deref(p.Barcode))) < 8
			},
			Message:    "GTIN/barcode must be at least 8 characters",
			Suggestion: "Add a valid GTIN, EAN or UPC code",
		},
		{
			Code:     "title_too_short",
			Field:    "title",
			Severity: enums.SeverityWarning,
			Predicate: func(p models.Product) bool {
				length := len([]rune(strings.TrimSpace(p.Title)))
				return length > 0 && length < 25
			},
			Message:     "Title is shorter than 25 characters",
			Suggestion:  "Extend the title with brand, model and key attributes",
			AutoFixable: true,
		},
		{
			Code:     "title_too_long",
			Field:    "title",
			Severity: enums.SeverityWarning,
			Predicate: func(p models.Product) bool {
				return len([]rune(strings.TrimSpace(p.Title))) > 150
			},
			Message:     "Title is longer than 150 characters",
			Suggestion:  "Shorten the title below 150 characters",
			AutoFixable: true,
		},
		{
			Code:     "description_missing",
			Field:    "description",
			Severity: enums.SeverityError,
			Predicate: func(p models.Product) bool {
				return len([]rune(deref(p.Description))) < 10
			},
			Message:    "Description is missing or shorter than 10 characters",
			Suggestion: "Write a product description of at least 150 characters",
		},
		{
			Code:     "description_too_short",
			Field:    "description",
			Severity: enums.SeverityWarning,
			Predicate: func(p models.Product) bool {
				length := len([]rune(deref(p.Description)))
				return length >= 10 && length < 150
			},
			Message:     "Description is shorter than 150 characters",
			Suggestion:  "Expand the description with specifications and use cases",
			AutoFixable: true,
		},
		{
			Code:     "main_image_missing",
			Field:    "main_image",
			Severity: enums.SeverityError,
			Predicate: func(p models.Product) bool {
				return deref(p.MainImage) == ""
			},
			Message:     "Product has no main image",
			Suggestion:  "Promote the first gallery image to main image",
			AutoFixable: true,
		},
		{
			Code:     "price_not_positive",
			Field:    "price",
			Severity: enums.SeverityError,
			Predicate: func(p models.Product) bool {
				return !p.Price.IsPositive()
			},
			Message:    "Price must be greater than zero",
			Suggestion: "Set a positive selling price",
		},
		{
			Code:     "category_missing",
			Field:    "category",
			Severity: enums.SeverityWarning,
			Predicate: func(p models.Product) bool {
				return deref(p.Category) == ""
			},
			Message:     "Product has no category",
			Suggestion:  "Assign a product category",
			AutoFixable: true,
		},
		{
			Code:     "brand_missing",
			Field:    "brand",
			Severity: enums.SeverityWarning,
			Predicate: func(p models.Product) bool {
				return deref(p.Brand) == ""
			},
			Message:    "Product has no brand",
			Suggestion: "Set the brand name",
		},
		{
			Code:     "stock_unavailable",
			Field:    "stock_qty",
			Severity: enums.SeverityInfo,
			Predicate: func(p models.Product) bool {
				return p.StockQty != nil && *p.StockQty <= 0
			},
			Message:    "Product is out of stock",
			Suggestion: "Restock before publishing to the feed",
		},
	},

	enums.ChannelStorefront: {
		{
			Code:     "title_missing",
			Field:    "title",
			Severity: enums.SeverityError,
			Predicate: func(p models.Product) bool {
				return strings.TrimSpace(p.Title) == ""
			},
			Message:    "Product has no title",
			Suggestion: "Add a product title",
		},
		{
			Code:     "price_not_positive",
			Field:    "price",
			Severity: enums.SeverityError,
			Predicate: func(p models.Product) bool {
				return !p.Price.IsPositive()
			},
			Message:    "Price must be greater than zero",
			Suggestion: "Set a positive selling price",
		},
		{
			Code:     "image_missing",
			Field:    "images",
			Severity: enums.SeverityError,
			Predicate: func(p models.Product) bool {
				return len(p.Images) == 0
			},
			Message:    "Product has no images",
			Suggestion: "Upload at least one product image",
		},
		{
			Code:     "seo_title_missing",
			Field:    "seo_title",
			Severity: enums.SeverityWarning,
			Predicate: func(p models.Product) bool {
				return deref(p.SEOTitle) == ""
			},
			Message:     "Product has no SEO title",
			Suggestion:  "Write an SEO title of 20-60 characters",
			AutoFixable: true,
		},
		{
			Code:     "seo_description_missing",
			Field:    "seo_description",
			Severity: enums.SeverityWarning,
			Predicate: func(p models.Product) bool {
				return deref(p.SEODescription) == ""
			},
			Message:     "Product has no SEO description",
			Suggestion:  "Write an SEO description of 100-160 characters",
			AutoFixable: true,
		},
		{
			Code:     "sku_missing",
			Field:    "sku",
			Severity: enums.SeverityInfo,
			Predicate: func(p models.Product) bool {
				return deref(p.SKU) == ""
			},
			Message:    "Product has no SKU",
			Suggestion: "Assign an internal SKU",
		},
	},

	enums.ChannelMetaCatalog: {
		{
			Code:     "title_missing",
			Field:    "title",
			Severity: enums.SeverityError,
			Predicate: func(p models.Product) bool {
				return strings.TrimSpace(p.Title) == ""
			},
			Message:    "Product has no title",
			Suggestion: "Add a product title",
		},
		{
			Code:     "image_missing",
			Field:    "images",
			Severity: enums.SeverityError,
			Predicate: func(p models.Product) bool {
				return len(p.Images) == 0
			},
			Message:    "Product has no images",
			Suggestion: "Upload at least one product image",
		},
		{
			Code:     "price_not_positive",
			Field:    "price",
			Severity: enums.SeverityError,
			Predicate: func(p models.Product) bool {
				return !p.Price.IsPositive()
			},
			Message:    "Price must be greater than zero",
			Suggestion: "Set a positive selling price",
		},
		{
			Code:     "description_missing",
			Field:    "description",
			Severity: enums.SeverityError,
			Predicate: func(p models.Product) bool {
				return deref(p.Description) == ""
			},
			Message:    "Product has no description",
			Suggestion: "Write a product description",
		},
	},

	enums.ChannelAmazon: {
		{
			Code:     "title_missing",
			Field:    "title",
			Severity: enums.SeverityError,
			Predicate: func(p models.Product) bool {
				return strings.TrimSpace(p.Title) == ""
			},
			Message:    "Product has no title",
			Suggestion: "Add a product title",
		},
		{
			Code:     "image_missing",
			Field:    "images",
			Severity: enums.SeverityError,
			Predicate: func(p models.Product) bool {
				return len(p.Images) == 0
			},
			Message:    "Product has no images",
			Suggestion: "Upload at least one product image",
		},
		{
			Code:     "price_not_positive",
			Field:    "price",
			Severity: enums.SeverityError,
			Predicate: func(p models.Product) bool {
				return !p.Price.IsPositive()
			},
			Message:    "Price must be greater than zero",
			Suggestion: "Set a positive selling price",
		},
		{
			Code:     "description_missing",
			Field:    "description",
			Severity: enums.SeverityError,
			Predicate: func(p models.Product) bool {
				return deref(p.Description) == ""
			},
			Message:    "Product has no description",
			Suggestion: "Write a product description",
		},
		{
			Code:     "gtin_too_short",
			Field:    "barcode",
			Severity: enums.SeverityError,
			Predicate: func(p models.Product) bool {
				return len([]rune(deref(p.Barcode))) < 10
			},
			Message:    "GTIN/barcode must be at least 10 characters",
			Suggestion: "Add a valid GTIN, EAN or UPC code",
		},
	},
}

// RuleTable returns the ordered rule table for a channel.
func RuleTable(channel enums.Channel) ([]Rule, bool) {
	table, ok := ruleTables[channel]
	return table, ok
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
