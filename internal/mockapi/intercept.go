package mockapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
)

// InterceptTransport answers matching requests from an in-process handler
// and passes everything else to Fallback. Intercepted requests travel over
// a Channel so each reply is matched to its request by correlation ID.
type InterceptTransport struct {
	// Match selects requests to intercept. Defaults to MatchAPI.
	Match func(*http.Request) bool
	// Fallback serves unmatched requests. Defaults to http.DefaultTransport.
	Fallback http.RoundTripper

	ch     *Channel[*http.Request, *http.Response]
	cancel context.CancelFunc
}

// MatchAPI matches requests whose path is under /api/.
func MatchAPI(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

// NewInterceptTransport starts a worker that serves intercepted requests
// with h. Call Close to stop it.
func NewInterceptTransport(h http.Handler) *InterceptTransport {
	ctx, cancel := context.WithCancel(context.Background())
	t := &InterceptTransport{
		Match:    MatchAPI,
		Fallback: http.DefaultTransport,
		ch:       NewChannel[*http.Request, *http.Response](),
		cancel:   cancel,
	}
	go func() {
		_ = t.ch.Serve(ctx, func(_ context.Context, req *http.Request) *http.Response {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			return rec.Result()
		})
	}()
	return t
}

func (t *InterceptTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	match := t.Match
	if match == nil {
		match = MatchAPI
	}
	if !match(req) {
		fb := t.Fallback
		if fb == nil {
			fb = http.DefaultTransport
		}
		return fb.RoundTrip(req)
	}

	resp, err := t.ch.Request(req.Context(), req)
	if err != nil {
		return nil, err
	}
	resp.Request = req
	return resp, nil
}

// Close stops the worker. In-flight and later intercepted requests fail.
func (t *InterceptTransport) Close() {
	t.ch.Close()
	t.cancel()
}
