package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/julienmercier/catalogpulse-backend/api/middleware"
	"github.com/julienmercier/catalogpulse-backend/internal/affinity"
	"github.com/julienmercier/catalogpulse-backend/internal/backlog"
	"github.com/julienmercier/catalogpulse-backend/internal/channels"
	"github.com/julienmercier/catalogpulse-backend/internal/scan"
	"github.com/julienmercier/catalogpulse-backend/internal/scoring"
	"github.com/julienmercier/catalogpulse-backend/pkg/config"
	"github.com/julienmercier/catalogpulse-backend/pkg/db/models"
	"github.com/julienmercier/catalogpulse-backend/pkg/enums"
	pkgerrors "github.com/julienmercier/catalogpulse-backend/pkg/errors"
	"github.com/julienmercier/catalogpulse-backend/pkg/logger"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type stubScoringService struct {
	result *scoring.Result
	err    error
}

func (s stubScoringService) ScoreProduct(context.Context, uuid.UUID) (*scoring.Result, error) {
	return s.result, s.err
}

func (s stubScoringService) GetScore(context.Context, uuid.UUID) (*scoring.Result, error) {
	return s.result, s.err
}

type stubChannelService struct {
	diag *channels.Diagnostic
	err  error
}

func (s stubChannelService) RunDiagnostic(context.Context, enums.Channel) (*channels.Diagnostic, error) {
	return s.diag, s.err
}

type stubBacklogService struct {
	items   []backlog.Item
	summary backlog.Summary
	err     error
}

func (s stubBacklogService) BuildBacklog(context.Context) ([]backlog.Item, backlog.Summary, error) {
	return s.items, s.summary, s.err
}

type stubAffinityService struct {
	pairs []affinity.Pair
	err   error
}

func (s stubAffinityService) Recompute(context.Context, int) ([]affinity.Pair, error) {
	return s.pairs, s.err
}

func (s stubAffinityService) TopPairs(context.Context) ([]affinity.Pair, error) {
	return s.pairs, s.err
}

type stubScanService struct {
	job *models.ScanJob
	err error
}

func (s stubScanService) StartScan(context.Context) (*models.ScanJob, error) {
	return s.job, s.err
}

func (s stubScanService) RunScan(context.Context) (scan.Summary, error) {
	return scan.Summary{}, s.err
}

func (s stubScanService) GetScan(context.Context, uuid.UUID) (*models.ScanJob, error) {
	return s.job, s.err
}

type routerOptions struct {
	counters middleware.CounterStore
	scoring  scoring.Service
	channels channels.Service
	backlog  backlog.Service
	affinity affinity.Service
	scan     scan.Service
}

func newTestRouter(t *testing.T, opts routerOptions) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.API.MutationRateLimit = 100
	cfg.API.MutationRateWindow = time.Minute
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	if opts.scoring == nil {
		opts.scoring = stubScoringService{result: &scoring.Result{}}
	}
	if opts.channels == nil {
		opts.channels = stubChannelService{diag: &channels.Diagnostic{}}
	}
	if opts.backlog == nil {
		opts.backlog = stubBacklogService{summary: backlog.Summary{}}
	}
	if opts.affinity == nil {
		opts.affinity = stubAffinityService{}
	}
	if opts.scan == nil {
		opts.scan = stubScanService{job: &models.ScanJob{ID: uuid.New(), Status: enums.ScanStatusPending}}
	}

	return NewRouter(cfg, logg, stubPinger{}, stubPinger{}, opts.counters, opts.scoring, opts.channels, opts.backlog, opts.affinity, opts.scan)
}

func doRequest(t *testing.T, handler http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t, routerOptions{})

	rec := doRequest(t, router, http.MethodGet, "/health/live")
	if rec.Code != http.StatusOK {
		t.Fatalf("live: expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-CatalogPulse-Env") != "test" {
		t.Fatalf("missing env header, got %q", rec.Header().Get("X-CatalogPulse-Env"))
	}

	rec = doRequest(t, router, http.MethodGet, "/health/ready")
	if rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200, got %d", rec.Code)
	}
}

func TestHealthReadyFailsWhenDependencyDown(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	router := NewRouter(cfg, logg,
		stubPinger{err: context.DeadlineExceeded}, stubPinger{}, nil,
		stubScoringService{}, stubChannelService{}, stubBacklogService{}, stubAffinityService{},
		stubScanService{})

	rec := doRequest(t, router, http.MethodGet, "/health/ready")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when the database is down, got %d", rec.Code)
	}
}

func TestScoreProductRoutes(t *testing.T) {
	result := &scoring.Result{
		ProductID:  uuid.NewString(),
		Overall:    72,
		ComputedAt: time.Now().UTC(),
	}
	router := newTestRouter(t, routerOptions{scoring: stubScoringService{result: result}})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/products/"+result.ProductID+"/score")
	if rec.Code != http.StatusOK {
		t.Fatalf("score: expected 200, got %d body %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data scoring.Result `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if envelope.Data.Overall != 72 {
		t.Fatalf("expected overall 72, got %d", envelope.Data.Overall)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/products/"+result.ProductID+"/score")
	if rec.Code != http.StatusOK {
		t.Fatalf("get score: expected 200, got %d", rec.Code)
	}
}

func TestScoreProductRejectsBadID(t *testing.T) {
	router := newTestRouter(t, routerOptions{})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/products/not-a-uuid/score")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed product id, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "VALIDATION_ERROR") {
		t.Fatalf("expected validation error payload, got %s", rec.Body.String())
	}
}

func TestScoreProductNotFound(t *testing.T) {
	router := newTestRouter(t, routerOptions{
		scoring: stubScoringService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")},
	})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/products/"+uuid.NewString()+"/score")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestChannelDiagnosticRoutes(t *testing.T) {
	router := newTestRouter(t, routerOptions{
		channels: stubChannelService{diag: &channels.Diagnostic{Channel: enums.ChannelGoogleShopping, TotalCount: 3}},
	})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/channels/google_shopping/diagnostics")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodPost, "/api/v1/channels/myspace/diagnostics")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown channel must 400, got %d", rec.Code)
	}
}

func TestBacklogRoute(t *testing.T) {
	items := []backlog.Item{{ProductID: uuid.New(), Title: "Ceramic Mug", UrgencyScore: 40}}
	router := newTestRouter(t, routerOptions{
		backlog: stubBacklogService{items: items, summary: backlog.Summary{"stock": 1}},
	})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/backlog")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Ceramic Mug") {
		t.Fatalf("expected backlog item in body, got %s", rec.Body.String())
	}
}

func TestAffinityRoutes(t *testing.T) {
	pairs := []affinity.Pair{{ProductA: uuid.New(), ProductB: uuid.New(), CoOccurrence: 2, Score: 20}}
	router := newTestRouter(t, routerOptions{affinity: stubAffinityService{pairs: pairs}})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/affinities")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodPost, "/api/v1/affinities/recompute")
	if rec.Code != http.StatusOK {
		t.Fatalf("recompute: expected 200, got %d", rec.Code)
	}
}

func TestRecomputeAcceptsTopNOverride(t *testing.T) {
	capture := &captureAffinityService{}
	router := newTestRouter(t, routerOptions{affinity: capture})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/affinities/recompute", strings.NewReader(`{"top_n":5}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body %s", rec.Code, rec.Body.String())
	}
	if capture.topN != 5 {
		t.Fatalf("expected top_n 5 to reach the service, got %d", capture.topN)
	}
}

func TestRecomputeRejectsBadBody(t *testing.T) {
	router := newTestRouter(t, routerOptions{})

	for _, body := range []string{`{"top_n":-1}`, `{"top_n":101}`, `{"limit":5}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/affinities/recompute", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "VALIDATION_ERROR") {
			t.Fatalf("body %s: expected validation payload, got %s", body, rec.Body.String())
		}
	}
}

type captureAffinityService struct {
	topN int
}

func (c *captureAffinityService) Recompute(_ context.Context, topN int) ([]affinity.Pair, error) {
	c.topN = topN
	return nil, nil
}

func (c *captureAffinityService) TopPairs(context.Context) ([]affinity.Pair, error) {
	return nil, nil
}

func TestScanRoutes(t *testing.T) {
	jobID := uuid.New()
	router := newTestRouter(t, routerOptions{
		scan: stubScanService{job: &models.ScanJob{ID: jobID, Status: enums.ScanStatusPending}},
	})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/scans")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("start: expected 202, got %d body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), jobID.String()) {
		t.Fatalf("expected job id in body, got %s", rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/scans/"+jobID.String())
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/v1/scans/not-a-uuid")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed scan id must 400, got %d", rec.Code)
	}
}

func TestScanConflictSurfacesAs409(t *testing.T) {
	router := newTestRouter(t, routerOptions{
		scan: stubScanService{err: pkgerrors.New(pkgerrors.CodeConflict, "a catalog scan is already running")},
	})

	rec := doRequest(t, router, http.MethodPost, "/api/v1/scans")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "already running") {
		t.Fatalf("conflict message must pass through, got %s", rec.Body.String())
	}
}

func TestMutationRateLimitBlocksRepeatedScans(t *testing.T) {
	store := &memCounterStore{counts: map[string]int64{}}
	router := newTestRouter(t, routerOptions{counters: store})

	var last *httptest.ResponseRecorder
	for i := 0; i < 101; i++ {
		last = doRequest(t, router, http.MethodPost, "/api/v1/scans")
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after exceeding the limit, got %d", last.Code)
	}
	if !strings.Contains(last.Body.String(), "RATE_LIMIT_EXCEEDED") {
		t.Fatalf("expected rate limit payload, got %s", last.Body.String())
	}

	rec := doRequest(t, router, http.MethodGet, "/api/v1/backlog")
	if rec.Code != http.StatusOK {
		t.Fatalf("read routes must not be throttled, got %d", rec.Code)
	}
}

type memCounterStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (m *memCounterStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}

func (m *memCounterStore) CounterKey(name string) string {
	return "cp:counter:" + name
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, routerOptions{})

	rec := doRequest(t, router, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPanicIsRecovered(t *testing.T) {
	router := newTestRouter(t, routerOptions{
		backlog: panickyBacklogService{},
	})

	rec := doRequest(t, router, http.MethodGet, "/api/v1/backlog")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 from recoverer, got %d", rec.Code)
	}
}

type panickyBacklogService struct{}

func (panickyBacklogService) BuildBacklog(context.Context) ([]backlog.Item, backlog.Summary, error) {
	panic("boom")
}
