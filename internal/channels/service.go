package channels

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/julienmercier/catalogpulse-backend/pkg/db"
	"github.com/julienmercier/catalogpulse-backend/pkg/db/models"
	dbtypes "github.com/julienmercier/catalogpulse-backend/pkg/db/types"
	"github.com/julienmercier/catalogpulse-backend/pkg/enums"
	pkgerrors "github.com/julienmercier/catalogpulse-backend/pkg/errors"
	"github.com/julienmercier/catalogpulse-backend/pkg/logger"
)

// Service runs channel diagnostics over the catalog.
type Service interface {
	RunDiagnostic(ctx context.Context, channel enums.Channel) (*Diagnostic, error)
}

type catalogLister interface {
	ListAll(ctx context.Context) ([]models.Product, error)
}

type service struct {
	catalog  catalogLister
	repo     *Repository
	dbClient *db.Client
	logg     *logger.Logger
}

// NewService constructs a channel diagnostics service.
func NewService(catalog catalogLister, repo *Repository, dbClient *db.Client, logg *logger.Logger) (Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if repo == nil {
		return nil, fmt.Errorf("channel repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{catalog: catalog, repo: repo, dbClient: dbClient, logg: logg}, nil
}

// RunDiagnostic evaluates the full catalog against one channel's rules
// and persists the result as a new immutable report.
func (s *service) RunDiagnostic(ctx context.Context, channel enums.Channel) (*Diagnostic, error) {
	products, err := s.catalog.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading catalog")
	}

	diag, err := RunDiagnostic(products, channel)
	if err != nil {
		return nil, err
	}

	summary, err := dbtypes.MarshalValue(diag.Summary)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding summary")
	}

	report := &models.ChannelReport{
		Channel:      diag.Channel,
		TotalCount:   diag.TotalCount,
		ValidCount:   diag.ValidCount,
		WarningCount: diag.WarningCount,
		ErrorCount:   diag.ErrorCount,
		Score:        diag.Score,
		Summary:      summary,
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.CreateReport(ctx, report); err != nil {
			return err
		}
		items := make([]models.ChannelReportItem, 0, len(diag.Items))
		for _, item := range diag.Items {
			items = append(items, models.ChannelReportItem{
				ReportID:     report.ID,
				ProductID:    item.ProductID,
				RuleCode:     item.RuleCode,
				Field:        item.Field,
				Severity:     item.Severity,
				Message:      item.Message,
				Suggestion:   item.Suggestion,
				AutoFixable:  item.AutoFixable,
				CurrentValue: item.CurrentValue,
			})
		}
		return txRepo.CreateItems(ctx, items)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting channel report")
	}

	ctx = s.logg.WithChannel(ctx, channel.String())
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"total": diag.TotalCount,
		"valid": diag.ValidCount,
		"score": diag.Score.String(),
	}), "channel diagnostic completed")

	return diag, nil
}
