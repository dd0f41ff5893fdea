package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/julienmercier/catalogpulse-backend/pkg/db/models"
	dbtypes "github.com/julienmercier/catalogpulse-backend/pkg/db/types"
	pkgerrors "github.com/julienmercier/catalogpulse-backend/pkg/errors"
	"github.com/julienmercier/catalogpulse-backend/pkg/logger"
)

// Service exposes single-product scoring operations.
type Service interface {
	ScoreProduct(ctx context.Context, productID uuid.UUID) (*Result, error)
	GetScore(ctx context.Context, productID uuid.UUID) (*Result, error)
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	products productLoader
	repo     *Repository
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs a scoring service instance.
func NewService(products productLoader, repo *Repository, logg *logger.Logger) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if repo == nil {
		return nil, fmt.Errorf("scoring repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{products: products, repo: repo, logg: logg, now: time.Now}, nil
}

// ScoreProduct computes and persists the score for one product,
// overwriting any previous result.
func (s *service) ScoreProduct(ctx context.Context, productID uuid.UUID) (*Result, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}

	result := Score(*product, s.now())

	row, err := ToModel(result)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding score")
	}
	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting score")
	}

	ctx = s.logg.WithProductID(ctx, productID.String())
	s.logg.Info(s.logg.WithField(ctx, "overall", result.Overall), "product scored")

	return &result, nil
}

// GetScore returns the persisted score for one product.
func (s *service) GetScore(ctx context.Context, productID uuid.UUID) (*Result, error) {
	row, err := s.repo.FindByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no score for product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading score")
	}
	return FromModel(row)
}

// ToModel flattens a Result into its persisted row.
func ToModel(result Result) (*models.PillarScore, error) {
	productID, err := uuid.Parse(result.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product id %q: %w", result.ProductID, err)
	}
	issues, err := dbtypes.MarshalValue(result.Issues)
	if err != nil {
		return nil, err
	}
	recs, err := dbtypes.MarshalValue(result.Recommendations)
	if err != nil {
		return nil, err
	}
	return &models.PillarScore{
		ProductID:        productID,
		TitleScore:       result.Scores.Title,
		DescriptionScore: result.Scores.Description,
		ImagesScore:      result.Scores.Images,
		PricingScore:     result.Scores.Pricing,
		IdentifiersScore: result.Scores.Identifiers,
		SEOScore:         result.Scores.SEO,
		OverallScore:     result.Overall,
		Issues:           issues,
		Recommendations:  recs,
		ComputedAt:       result.ComputedAt,
	}, nil
}

// FromModel rebuilds a Result from its persisted row.
func FromModel(row *models.PillarScore) (*Result, error) {
	result := Result{
		ProductID: row.ProductID.String(),
		Scores: PillarScores{
			Title:       row.TitleScore,
			Description: row.DescriptionScore,
			Images:      row.ImagesScore,
			Pricing:     row.PricingScore,
			Identifiers: row.IdentifiersScore,
			SEO:         row.SEOScore,
		},
		Overall:    row.OverallScore,
		ComputedAt: row.ComputedAt,
	}
	if len(row.Issues) > 0 {
		if err := json.Unmarshal([]byte(row.Issues), &result.Issues); err != nil {
			return nil, fmt.Errorf("decoding issues: %w", err)
		}
	}
	if len(row.Recommendations) > 0 {
		if err := json.Unmarshal([]byte(row.Recommendations), &result.Recommendations); err != nil {
			return nil, fmt.Errorf("decoding recommendations: %w", err)
		}
	}
	return &result, nil
}
