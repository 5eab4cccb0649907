// middleware/notfound.go
package middleware

import (
	"net/http"

	"github.com/dalemusser/intake/apperr"
	"github.com/dalemusser/intake/httputil"
	"go.uber.org/zap"
)

// NotFoundHandler answers unrouted paths with the submission failure
// envelope. Pass it to chi.Router.NotFound.
func NotFoundHandler(logger *zap.Logger) http.HandlerFunc {
	return routeMiss(logger, http.StatusNotFound, "not_found", "No route for")
}

// MethodNotAllowedHandler is NotFoundHandler's counterpart for a known path
// hit with the wrong method (e.g. GET /submit).
func MethodNotAllowedHandler(logger *zap.Logger) http.HandlerFunc {
	return routeMiss(logger, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed for")
}

func routeMiss(logger *zap.Logger, status int, tag, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if logger != nil {
			logger.Debug("route miss",
				zap.String("error", tag),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)
		}
		httputil.WriteJSON(w, status, apperr.Response{
			Success: false,
			Message: prefix + " " + r.Method + " " + r.URL.Path,
			Error:   tag,
		})
	}
}
