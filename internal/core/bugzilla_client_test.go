package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestParseTrackerID(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"rhbz#2000001", 2000001, true},
		{"#42", 42, true},
		{"rhbz#", 0, false},
		{"rhbz#0", 0, false},
		{"rhbz#-3", 0, false},
		{"rhbz42", 0, false},
		{"0.2", 0, false},
		{"anitya:pello", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTrackerID(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseTrackerID(%q) = %d, %v, want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func newTestBugzilla(handler http.HandlerFunc) (*BugzillaClient, func()) {
	srv := httptest.NewServer(handler)
	c := NewBugzillaClient(srv.Client(), srv.URL+"/")
	c.backoff = time.Millisecond
	return c, srv.Close
}

func TestBugzillaClient_TrackedVersion(t *testing.T) {
	c, stop := newTestBugzilla(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/bug/2000001" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("include_fields") != "summary" {
			t.Errorf("include_fields = %q", r.URL.Query().Get("include_fields"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bugs":[{"summary":"pello-0.2 is available"}]}`))
	})
	defer stop()

	pkg, v, err := c.TrackedVersion(context.Background(), 2000001)
	if err != nil {
		t.Fatalf("TrackedVersion failed: %v", err)
	}
	if pkg != "pello" || v != "0.2" {
		t.Errorf("got %s %s, want pello 0.2", pkg, v)
	}
}

func TestBugzillaClient_TrackedVersion_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not found", http.StatusNotFound, ""},
		{"no bugs", http.StatusOK, `{"bugs":[]}`},
		{"not a release tracker", http.StatusOK, `{"bugs":[{"summary":"pello crashes on start"}]}`},
		{"malformed", http.StatusOK, `{"bugs":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, stop := newTestBugzilla(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			defer stop()

			if _, _, err := c.TrackedVersion(context.Background(), 7); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestBugzillaClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c, stop := newTestBugzilla(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"bugs":[{"summary":"python-pello-1.0.0rc1 is available"}]}`))
	})
	defer stop()

	pkg, v, err := c.TrackedVersion(context.Background(), 1)
	if err != nil {
		t.Fatalf("TrackedVersion failed: %v", err)
	}
	if pkg != "python-pello" || v != "1.0.0rc1" {
		t.Errorf("got %s %s", pkg, v)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestBugzillaClient_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	c, stop := newTestBugzilla(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})
	defer stop()

	if _, _, err := c.TrackedVersion(context.Background(), 1); err == nil {
		t.Error("expected an error")
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}
