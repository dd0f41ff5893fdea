package affinity

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/julienmercier/catalogpulse-backend/pkg/errors"
	"github.com/julienmercier/catalogpulse-backend/pkg/logger"

	"github.com/julienmercier/catalogpulse-backend/pkg/db/models"
)

// Service recomputes and serves cross-sell affinities.
type Service interface {
	// Recompute rebuilds the ranking, keeping topN pairs. topN <= 0
	// falls back to the configured default.
	Recompute(ctx context.Context, topN int) ([]Pair, error)
	TopPairs(ctx context.Context) ([]Pair, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
	topN int
	now  func() time.Time
}

// NewService constructs an affinity service instance.
func NewService(repo *Repository, logg *logger.Logger, topN int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("affinity repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if topN <= 0 {
		topN = 20
	}
	return &service{repo: repo, logg: logg, topN: topN, now: time.Now}, nil
}

// Recompute rebuilds pair statistics from order history and persists
// exactly the top N.
func (s *service) Recompute(ctx context.Context, topN int) ([]Pair, error) {
	if topN <= 0 {
		topN = s.topN
	}

	baskets, err := s.repo.ListBaskets(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading order history")
	}

	pairs := ComputeAffinities(baskets, topN)

	computedAt := s.now().UTC()
	rows := make([]models.AffinityPair, 0, len(pairs))
	for _, pair := range pairs {
		rows = append(rows, models.AffinityPair{
			ProductA:     pair.ProductA,
			ProductB:     pair.ProductB,
			CoOccurrence: pair.CoOccurrence,
			Score:        pair.Score,
			ComputedAt:   computedAt,
		})
	}
	if err := s.repo.ReplaceTopPairs(ctx, rows); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting affinity pairs")
	}

	s.logg.Info(s.logg.WithField(ctx, "pairs", len(pairs)), "affinities recomputed")
	return pairs, nil
}

// TopPairs returns the persisted ranking.
func (s *service) TopPairs(ctx context.Context) ([]Pair, error) {
	rows, err := s.repo.TopPairs(ctx, s.topN)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading affinity pairs")
	}
	pairs := make([]Pair, 0, len(rows))
	for _, row := range rows {
		pairs = append(pairs, Pair{
			ProductA:     row.ProductA,
			ProductB:     row.ProductB,
			CoOccurrence: row.CoOccurrence,
			Score:        row.Score,
		})
	}
	return pairs, nil
}
