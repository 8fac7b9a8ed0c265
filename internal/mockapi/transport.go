package mockapi

import (
	"fmt"
	"net/http"
	"time"
)

// Mode selects the transport behavior at construction time.
type Mode int

const (
	// Emulated short-circuits matched API calls against the local store.
	Emulated Mode = iota
	// LiveBackend passes every request through to the base transport.
	LiveBackend
)

// ModeFromString maps a config value to a Mode. Unknown values fall back to
// Emulated.
func ModeFromString(s string) (Mode, error) {
	switch s {
	case "emulated", "":
		return Emulated, nil
	case "live":
		return LiveBackend, nil
	default:
		return Emulated, fmt.Errorf("unknown mode %q", s)
	}
}

// Transport is an http.RoundTripper that stands in for the real backend.
// In Emulated mode, requests matching the emulated surface are answered from
// the local store after a simulated latency; everything else falls through
// to the base transport. In LiveBackend mode nothing is intercepted.
type Transport struct {
	mode Mode
	api  *API
	base http.RoundTripper
}

// NewTransport wraps base (http.DefaultTransport when nil).
func NewTransport(mode Mode, api *API, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{mode: mode, api: api, base: base}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.mode == LiveBackend {
		return t.base.RoundTrip(req)
	}
	res, matched := t.api.dispatch(req)
	if !matched {
		return t.base.RoundTrip(req)
	}
	if err := sleep(req, res.delay); err != nil {
		return nil, err
	}
	return res.httpResponse(req), nil
}

// sleep waits out the simulated latency, honoring request cancellation.
func sleep(req *http.Request, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-req.Context().Done():
		return req.Context().Err()
	case <-timer.C:
		return nil
	}
}
