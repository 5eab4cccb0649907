package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func fixedClock() time.Time {
	return time.Date(2026, 10, 16, 9, 30, 0, 123456789, time.UTC)
}

func TestHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler("JS-Flask Integration", fixedClock, time.UTC).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var got Response
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := Response{
		Status:    "healthy",
		Service:   "JS-Flask Integration",
		Timestamp: "2026-10-16T09:30:00.123456",
	}
	if got != want {
		t.Errorf("response = %+v, want %+v", got, want)
	}
}

func TestHandler_Location(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	rec := httptest.NewRecorder()
	Handler("svc", fixedClock, loc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var got Response
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Timestamp != "2026-10-16T11:30:00.123456" {
		t.Errorf("timestamp = %q", got.Timestamp)
	}
}

func TestHandler_DefaultClock(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler("svc", nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var got Response
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := time.ParseInLocation(TimestampLayout, got.Timestamp, time.Local); err != nil {
		t.Errorf("timestamp %q does not parse: %v", got.Timestamp, err)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"microseconds", time.Date(2026, 10, 16, 9, 30, 0, 123456789, time.UTC), "2026-10-16T09:30:00.123456"},
		{"leading zero micros", time.Date(2026, 10, 16, 9, 30, 0, 1000, time.UTC), "2026-10-16T09:30:00.000001"},
		{"whole second", time.Date(2026, 10, 16, 9, 30, 5, 0, time.UTC), "2026-10-16T09:30:05"},
		{"sub-microsecond only", time.Date(2026, 10, 16, 9, 30, 5, 999, time.UTC), "2026-10-16T09:30:05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.in); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHandler_WholeSecondClock(t *testing.T) {
	clock := func() time.Time { return time.Date(2026, 10, 16, 9, 30, 5, 0, time.UTC) }
	rec := httptest.NewRecorder()
	Handler("svc", clock, time.UTC).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var got Response
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Timestamp != "2026-10-16T09:30:05" {
		t.Errorf("timestamp = %q, want 2026-10-16T09:30:05", got.Timestamp)
	}
}

func TestMount(t *testing.T) {
	r := chi.NewRouter()
	Mount(r, "svc", fixedClock, time.UTC)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /health status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /health status = %d, want 405", rec.Code)
	}
}
