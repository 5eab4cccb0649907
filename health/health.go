// health/health.go
package health

import (
	"net/http"
	"time"

	"github.com/dalemusser/intake/httputil"
	"github.com/go-chi/chi/v5"
)

// StatusHealthy is the only status the liveness probe reports.
const StatusHealthy = "healthy"

// TimestampLayout renders local time in ISO-8601 with no zone offset. Format
// appends microseconds unless they are zero, e.g. 2026-10-16T09:30:00.123456
// or 2026-10-16T09:30:05.
const (
	TimestampLayout = "2006-01-02T15:04:05"
	microLayout     = TimestampLayout + ".000000"
)

// Format renders t in TimestampLayout, with a six-digit fraction only when
// t has a non-zero microsecond part.
func Format(t time.Time) string {
	if t.Nanosecond()/1000 == 0 {
		return t.Format(TimestampLayout)
	}
	return t.Format(microLayout)
}

// Response is the JSON structure returned by the health handler.
type Response struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// Handler returns an http.Handler that always responds 200 with
//
//	{ "status": "healthy", "service": <service>, "timestamp": <now> }
//
// A nil clock uses time.Now; a nil loc uses time.Local.
func Handler(service string, clock Clock, loc *time.Location) http.Handler {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, Response{
			Status:    StatusHealthy,
			Service:   service,
			Timestamp: Format(clock().In(loc)),
		})
	})
}

// Mount attaches GET /health to the given chi.Router.
func Mount(r chi.Router, service string, clock Clock, loc *time.Location) {
	MountAt(r, "/health", service, clock, loc)
}

// MountAt is like Mount but allows specifying a custom path, e.g. "/live".
func MountAt(r chi.Router, path, service string, clock Clock, loc *time.Location) {
	r.Method(http.MethodGet, path, Handler(service, clock, loc))
}
