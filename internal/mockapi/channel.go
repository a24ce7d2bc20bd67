package mockapi

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrChannelClosed is returned by Request and Next after Close.
	ErrChannelClosed = errors.New("mockapi: channel closed")

	// ErrUnknownRequest is returned by Respond for an ID with no waiting
	// caller, either because it was never issued, was already answered,
	// or its caller gave up.
	ErrUnknownRequest = errors.New("mockapi: unknown request id")
)

// Pending is a request waiting for a reply.
type Pending[Req any] struct {
	ID  string
	Req Req
}

// Channel is a request/response channel where every request carries a
// correlation ID and replies may arrive in any order.
type Channel[Req, Resp any] struct {
	requests chan Pending[Req]
	done     chan struct{}
	once     sync.Once

	mu      sync.Mutex
	pending map[string]chan Resp
}

func NewChannel[Req, Resp any]() *Channel[Req, Resp] {
	return &Channel[Req, Resp]{
		requests: make(chan Pending[Req]),
		done:     make(chan struct{}),
		pending:  make(map[string]chan Resp),
	}
}

// Request sends req and blocks until it is answered, ctx is done, or the
// channel is closed. The reply slot is released on every exit path.
func (c *Channel[Req, Resp]) Request(ctx context.Context, req Req) (Resp, error) {
	var zero Resp
	select {
	case <-c.done:
		return zero, ErrChannelClosed
	default:
	}

	id := uuid.NewString()
	slot := make(chan Resp, 1)

	c.mu.Lock()
	c.pending[id] = slot
	c.mu.Unlock()
	defer c.release(id)

	select {
	case c.requests <- Pending[Req]{ID: id, Req: req}:
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-c.done:
		return zero, ErrChannelClosed
	}

	select {
	case resp := <-slot:
		return resp, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-c.done:
		return zero, ErrChannelClosed
	}
}

// Next returns the next pending request.
func (c *Channel[Req, Resp]) Next(ctx context.Context) (Pending[Req], error) {
	select {
	case p := <-c.requests:
		return p, nil
	case <-ctx.Done():
		return Pending[Req]{}, ctx.Err()
	case <-c.done:
		return Pending[Req]{}, ErrChannelClosed
	}
}

// Respond delivers resp to the caller waiting on id.
func (c *Channel[Req, Resp]) Respond(id string, resp Resp) error {
	c.mu.Lock()
	slot, ok := c.pending[id]
	delete(c.pending, id)
	c.mu.Unlock()
	if !ok {
		return ErrUnknownRequest
	}
	slot <- resp
	return nil
}

// Serve answers requests with fn until ctx is done or the channel is
// closed. Each request is handled on its own goroutine; Serve waits for
// them before returning.
func (c *Channel[Req, Resp]) Serve(ctx context.Context, fn func(context.Context, Req) Resp) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		p, err := c.Next(ctx)
		if err != nil {
			if errors.Is(err, ErrChannelClosed) {
				return nil
			}
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			// The caller may have given up; that is not an error here.
			_ = c.Respond(p.ID, fn(ctx, p.Req))
		}()
	}
}

// Len reports how many requests are waiting for a reply.
func (c *Channel[Req, Resp]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Close fails all current and future requests with ErrChannelClosed.
func (c *Channel[Req, Resp]) Close() {
	c.once.Do(func() { close(c.done) })
}

func (c *Channel[Req, Resp]) release(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}
