// Package dashboard turns the data source's dashboard payload into the
// classified snapshot the views render.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nathanbeddoewebdev/vitalmetrics/internal/api"
	"nathanbeddoewebdev/vitalmetrics/internal/domain"
	"nathanbeddoewebdev/vitalmetrics/internal/services/auth"
	"nathanbeddoewebdev/vitalmetrics/internal/vitals"

	"go.uber.org/zap"
)

// Source is the data source the pipeline reads. *api.Client satisfies it.
type Source interface {
	Dashboard(ctx context.Context) (*api.DashboardData, error)
	PageMetrics(ctx context.Context, page string) ([]vitals.PageMetric, error)
}

var _ Source = (*api.Client)(nil)

// Pipeline loads and classifies dashboard data. It never retries; callers
// that want retries wrap Load themselves.
type Pipeline struct {
	store  auth.Store
	source Source
	log    *zap.Logger
	now    func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

func WithLogger(log *zap.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// WithClock overrides the time source used for Snapshot.FetchedAt.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

func NewPipeline(store auth.Store, source Source, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:  store,
		source: source,
		log:    zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load fetches the dashboard and returns a snapshot whose rows are
// narrowed to pages containing filter. An empty filter keeps every row.
//
// Without a stored token it returns domain.ErrUnauthenticated and does not
// contact the source. A 401 from the source clears the stored token first,
// unless a newer token has replaced it since the request started.
// When ctx is done by the time the payload is classified, ctx.Err() is
// returned and no snapshot is produced.
func (p *Pipeline) Load(ctx context.Context, filter string) (*vitals.Snapshot, error) {
	tok, err := p.requireSession("dashboard")
	if err != nil {
		return nil, err
	}

	data, err := p.source.Dashboard(ctx)
	if err != nil {
		return nil, p.sourceError("dashboard", tok, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap, err := vitals.Aggregate(data.PageMetrics, data.Metrics, filter)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	snap.FetchedAt = p.now().UTC()

	p.log.Debug("dashboard loaded",
		zap.Int("cards", len(snap.SummaryCards)),
		zap.Int("rows", len(snap.PageRows)),
		zap.String("filter", filter),
	)
	return snap, nil
}

// LoadPages fetches the per-page listing. The source filters by page
// substring and the filter is applied again locally so both agree.
func (p *Pipeline) LoadPages(ctx context.Context, page string) ([]vitals.PageRow, error) {
	tok, err := p.requireSession("pages")
	if err != nil {
		return nil, err
	}

	metrics, err := p.source.PageMetrics(ctx, page)
	if err != nil {
		return nil, p.sourceError("pages", tok, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := vitals.ClassifyPages(metrics)
	if err != nil {
		return nil, fmt.Errorf("pages: %w", err)
	}
	return vitals.FilterRows(rows, page), nil
}

// requireSession returns the stored token the request will run under.
func (p *Pipeline) requireSession(op string) (string, error) {
	tok, err := p.store.Get()
	switch {
	case errors.Is(err, auth.ErrTokenNotFound):
		return "", fmt.Errorf("%s: %w", op, domain.ErrUnauthenticated)
	case err != nil:
		return "", fmt.Errorf("%s: %w: failed to read session: %w", op, domain.ErrUnauthenticated, err)
	case tok == "":
		return "", fmt.Errorf("%s: %w", op, domain.ErrUnauthenticated)
	}
	return tok, nil
}

// sourceError clears the rejected session tok and makes sure every other
// failure reads as a transport error.
func (p *Pipeline) sourceError(op, tok string, err error) error {
	if errors.Is(err, domain.ErrUnauthenticated) {
		cleared, cerr := auth.ClearIfCurrent(p.store, tok)
		switch {
		case cerr != nil:
			p.log.Warn("failed to clear rejected session", zap.Error(cerr))
		case !cleared:
			p.log.Debug("rejected token already replaced; keeping session", zap.String("op", op))
		}
		return err
	}
	if errors.Is(err, domain.ErrTransport) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrTransport, err)
}
