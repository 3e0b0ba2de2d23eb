package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
)

type fakeConn bool

func (c fakeConn) IsConnected() bool { return bool(c) }

func TestCheck(t *testing.T) {
	now := time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC)
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })
	up := PingFunc(func(context.Context) error { return nil })

	tests := []struct {
		name    string
		storage Pinger
		events  ConnectionReporter
		want    Status
	}{
		{
			name: "nothing to check",
			want: Status{Healthy: true, StorageConnected: true, EventsConnected: true, CheckedAt: now, Errors: []string{}},
		},
		{
			name:    "all connected",
			storage: up,
			events:  fakeConn(true),
			want:    Status{Healthy: true, StorageConnected: true, EventsConnected: true, CheckedAt: now, Errors: []string{}},
		},
		{
			name:    "storage down",
			storage: down,
			want: Status{StorageConnected: false, EventsConnected: true, CheckedAt: now,
				Errors: []string{"storage ping failed: connection refused"}},
		},
		{
			name:    "nats down",
			storage: up,
			events:  fakeConn(false),
			want:    Status{StorageConnected: true, CheckedAt: now, Errors: []string{"NATS disconnected"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewChecker(tt.storage, tt.events, clockwork.NewFakeClockAt(now), time.Second)
			got := checker.Check(context.Background())
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Check() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestServeHTTP(t *testing.T) {
	clock := clockwork.NewFakeClock()

	t.Run("healthy", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewChecker(nil, fakeConn(true), clock, 0).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var status Status
		if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !status.Healthy {
			t.Errorf("expected healthy status, got %+v", status)
		}
	})

	t.Run("unhealthy", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewChecker(nil, fakeConn(false), clock, 0).ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/health", nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("HEAD wrote a body: %q", rec.Body.String())
		}
	})
}
