package backlog

import (
	"context"
	"fmt"

	"github.com/julienmercier/catalogpulse-backend/pkg/db/models"
	pkgerrors "github.com/julienmercier/catalogpulse-backend/pkg/errors"
	"github.com/julienmercier/catalogpulse-backend/pkg/logger"
)

// Service computes the corrective-action backlog on demand.
type Service interface {
	BuildBacklog(ctx context.Context) ([]Item, Summary, error)
}

type catalogLister interface {
	ListAll(ctx context.Context) ([]models.Product, error)
}

type service struct {
	catalog catalogLister
	logg    *logger.Logger
}

// NewService constructs a backlog service instance.
func NewService(catalog catalogLister, logg *logger.Logger) (Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{catalog: catalog, logg: logg}, nil
}

// BuildBacklog recomputes the full backlog from raw product fields.
func (s *service) BuildBacklog(ctx context.Context) ([]Item, Summary, error) {
	products, err := s.catalog.ListAll(ctx)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading catalog")
	}

	items, summary := BuildBacklog(products)
	s.logg.Info(s.logg.WithField(ctx, "items", len(items)), "backlog rebuilt")
	return items, summary, nil
}
