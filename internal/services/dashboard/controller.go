package dashboard

import (
	"context"
	"errors"
	"sync"

	"nathanbeddoewebdev/vitalmetrics/internal/vitals"
)

// ErrStale is returned by Controller.Refresh when its result was discarded
// because a newer refresh started or the controller was closed.
var ErrStale = errors.New("dashboard: stale result discarded")

// Loader produces snapshots. *Pipeline satisfies it.
type Loader interface {
	Load(ctx context.Context, filter string) (*vitals.Snapshot, error)
}

// Controller owns the snapshot a view is showing. Each Refresh is tagged
// with a generation; only the newest one may apply its result, and nothing
// applies after Close.
type Controller struct {
	loader Loader

	mu     sync.Mutex
	gen    uint64
	closed bool
	snap   *vitals.Snapshot
	filter string
}

func NewController(loader Loader) *Controller {
	return &Controller{loader: loader}
}

// Refresh loads a snapshot for filter and applies it if no newer Refresh
// started meanwhile. Superseded results, successful or not, are reported
// as ErrStale. A failed current load leaves the previous snapshot in place.
func (c *Controller) Refresh(ctx context.Context, filter string) (*vitals.Snapshot, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrStale
	}
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	snap, err := c.loader.Load(ctx, filter)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.gen {
		return nil, ErrStale
	}
	if err != nil {
		return nil, err
	}
	c.snap = snap
	c.filter = filter
	return snap, nil
}

// Snapshot returns the last applied snapshot, or nil before the first
// successful Refresh.
func (c *Controller) Snapshot() *vitals.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Filter returns the filter of the last applied snapshot.
func (c *Controller) Filter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Close stops the controller from applying any further results.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}
