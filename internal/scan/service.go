package scan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/julienmercier/catalogpulse-backend/pkg/db/models"
	pkgerrors "github.com/julienmercier/catalogpulse-backend/pkg/errors"
	"github.com/julienmercier/catalogpulse-backend/pkg/logger"
)

// Service owns the lifecycle of catalog scan jobs.
type Service interface {
	// StartScan kicks off a scan in the background and returns the
	// pending job. Returns a conflict error when a scan already holds
	// the lock.
	StartScan(ctx context.Context) (*models.ScanJob, error)
	// RunScan executes a scan synchronously. Used by the worker.
	RunScan(ctx context.Context) (Summary, error)
	GetScan(ctx context.Context, id uuid.UUID) (*models.ScanJob, error)
}

type service struct {
	repo   *Repository
	runner *Runner
	lock   Lock
	logg   *logger.Logger
}

// NewService constructs a scan service instance.
func NewService(repo *Repository, runner *Runner, lock Lock, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("scan repository required")
	}
	if runner == nil {
		return nil, fmt.Errorf("scan runner required")
	}
	if lock == nil {
		return nil, fmt.Errorf("scan lock required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, runner: runner, lock: lock, logg: logg}, nil
}

func (s *service) StartScan(ctx context.Context) (*models.ScanJob, error) {
	job, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}

	// Detach from the request context so the scan outlives the HTTP
	// call that triggered it.
	go s.execute(context.WithoutCancel(ctx), job.ID)

	return job, nil
}

func (s *service) RunScan(ctx context.Context) (Summary, error) {
	job, err := s.begin(ctx)
	if err != nil {
		return Summary{}, err
	}
	return s.execute(ctx, job.ID)
}

// begin acquires the scan lock and creates the pending job row.
func (s *service) begin(ctx context.Context) (*models.ScanJob, error) {
	acquired, err := s.lock.Acquire(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquiring scan lock")
	}
	if !acquired {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a catalog scan is already running")
	}

	job, err := s.repo.CreateJob(ctx)
	if err != nil {
		if releaseErr := s.lock.Release(ctx); releaseErr != nil {
			s.logg.Error(ctx, "failed to release scan lock", releaseErr)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating scan job")
	}
	return job, nil
}

func (s *service) execute(ctx context.Context, scanID uuid.UUID) (Summary, error) {
	defer func() {
		releaseCtx := context.WithoutCancel(ctx)
		if err := s.lock.Release(releaseCtx); err != nil {
			s.logg.Error(releaseCtx, "failed to release scan lock", err)
		}
	}()

	ctx = s.logg.WithScanID(ctx, scanID.String())
	if err := s.repo.MarkRunning(ctx, scanID, time.Now().UTC()); err != nil {
		s.logg.Error(ctx, "failed to mark scan running", err)
	}

	sink, err := NewRepoSink(s.repo, scanID)
	if err != nil {
		return Summary{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building progress sink")
	}

	summary, err := s.runner.Run(ctx, scanID, sink)
	if err != nil {
		s.logg.Error(ctx, "catalog scan failed", err)
		return summary, err
	}
	return summary, nil
}

func (s *service) GetScan(ctx context.Context, id uuid.UUID) (*models.ScanJob, error) {
	job, err := s.repo.FindJob(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "scan not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading scan")
	}
	return job, nil
}
