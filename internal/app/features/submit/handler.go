// internal/app/features/submit/handler.go
package submit

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/intake/apperr"
	"github.com/dalemusser/intake/httputil"
	"github.com/dalemusser/intake/internal/domain/models"
	"github.com/dalemusser/intake/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handler serves POST /submit.
type Handler struct {
	Logger   *zap.Logger
	Location *time.Location
	Now      func() time.Time
}

// NewHandler returns a Handler stamping receipts in loc (time.Local if nil).
func NewHandler(logger *zap.Logger, loc *time.Location) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Handler{Logger: logger, Location: loc, Now: time.Now}
}

// Routes mounts the handler at the root of the returned router.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Submit)
	return r
}

// Submit reads the body, evaluates it, and writes either the receipt (200)
// or a failure body with the status of its kind.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	logger := h.Logger.With(zap.String("request_id", chimw.GetReqID(r.Context())))

	receipt, err := h.evaluate(r)
	if err != nil {
		metrics.RecordSubmission(string(apperr.KindOf(err)))
		apperr.Write(w, err, logger)
		return
	}

	metrics.RecordSubmission(metrics.OutcomeProcessed)
	logger.Info("submission processed",
		zap.Int("name_length", receipt.Details.NameLength),
		zap.String("email_domain", receipt.Details.EmailDomain),
	)
	httputil.WriteJSON(w, http.StatusOK, receipt)
}

// evaluate turns any panic below it into an InternalError.
func (h *Handler) evaluate(r *http.Request) (receipt models.Receipt, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			err = apperr.Internal(fmt.Errorf("panic: %v", rec))
		}
	}()

	body, err := httputil.ReadBody(r)
	if err != nil {
		return models.Receipt{}, apperr.Internal(err)
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	return Evaluate(body, now().In(h.location()))
}

func (h *Handler) location() *time.Location {
	if h.Location == nil {
		return time.Local
	}
	return h.Location
}
