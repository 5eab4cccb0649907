// apperr/http.go
package apperr

import (
	"net/http"

	"github.com/dalemusser/intake/httputil"
	"go.uber.org/zap"
)

// Response is the JSON body written for a failed submission.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// ResponseFor builds the failure body for e.
func ResponseFor(e *Error) Response {
	return Response{
		Success: false,
		Message: e.Message,
		Error:   e.Tag,
	}
}

// Write writes err as a failure body with the status of its kind.
// Internal errors are logged at error level; input errors at debug.
func Write(w http.ResponseWriter, err error, logger *zap.Logger) {
	e := From(err)
	if e == nil {
		e = Internal(nil)
	}
	if logger != nil {
		if e.HTTPStatus() >= http.StatusInternalServerError {
			logger.Error("internal error",
				zap.String("kind", string(e.Kind)),
				zap.Error(e.Err),
			)
		} else {
			logger.Debug("submission rejected",
				zap.String("kind", string(e.Kind)),
				zap.String("error", e.Tag),
			)
		}
	}
	httputil.WriteJSON(w, e.HTTPStatus(), ResponseFor(e))
}
