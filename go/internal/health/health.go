// Package health reports whether the storage backend and event stream are reachable.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

type Status struct {
	Healthy          bool      `json:"healthy"`
	StorageConnected bool      `json:"storageConnected"`
	EventsConnected  bool      `json:"eventsConnected"`
	CheckedAt        time.Time `json:"checkedAt"`
	Errors           []string  `json:"errors"`
}

// Pinger is a storage backend that can verify its connection
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// ConnectionReporter is an event publisher with a live connection
type ConnectionReporter interface {
	IsConnected() bool
}

type Checker struct {
	storage Pinger
	events  ConnectionReporter
	clock   clockwork.Clock
	timeout time.Duration
}

// NewChecker builds a checker. A nil storage or events dependency is treated
// as always connected.
func NewChecker(storage Pinger, events ConnectionReporter, clock clockwork.Clock, timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Checker{storage: storage, events: events, clock: clock, timeout: timeout}
}

func (h *Checker) Check(ctx context.Context) Status {
	status := Status{
		Healthy:          true,
		StorageConnected: true,
		EventsConnected:  true,
		CheckedAt:        h.clock.Now().UTC(),
		Errors:           []string{},
	}

	if h.storage != nil {
		if err := h.storage.Ping(ctx); err != nil {
			status.StorageConnected = false
			status.Healthy = false
			status.Errors = append(status.Errors, fmt.Sprintf("storage ping failed: %v", err))
		}
	}

	if h.events != nil && !h.events.IsConnected() {
		status.EventsConnected = false
		status.Healthy = false
		status.Errors = append(status.Errors, "NATS disconnected")
	}

	return status
}

func (h *Checker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status := h.Check(ctx)

	w.Header().Set("Content-Type", "application/json")
	if !status.Healthy {
		log.Warn().Strs("errors", status.Errors).Msg("health check failed")
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if r.Method == http.MethodHead {
		return
	}
	if err := json.NewEncoder(w).Encode(status); err != nil {
		log.Error().Err(err).Msg("Failed to write health check response")
	}
}
