// internal/app/features/submit/evaluate.go
package submit

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/intake/apperr"
	"github.com/dalemusser/intake/httputil"
	"github.com/dalemusser/intake/internal/domain/models"
	"github.com/dalemusser/intake/validate"
)

const (
	// SuccessMessage is returned verbatim, trailing space included.
	SuccessMessage = "Data received and processed successfully! "
	// StatusProcessed marks an accepted submission.
	StatusProcessed = "processed"
	// TimestampLayout formats submission times as YYYY-MM-DD HH:MM:SS.
	TimestampLayout = "2006-01-02 15:04:05"
)

// Evaluate runs the submission checks against a raw request body and builds
// the receipt. Checks run in order and stop at the first failure:
// missing data, missing name, missing email, invalid name, invalid email.
//
// A non-nil error is always an *apperr.Error. Malformed JSON and fields of
// the wrong JSON type are InternalError; everything else maps to one of the
// input kinds.
func Evaluate(body []byte, now time.Time) (models.Receipt, error) {
	sub, err := parse(body)
	if err != nil {
		return models.Receipt{}, err
	}

	switch {
	case sub.Name == "":
		return models.Receipt{}, apperr.NoName()
	case sub.Email == "":
		return models.Receipt{}, apperr.NoEmail()
	case !validate.Name(sub.Name):
		return models.Receipt{}, apperr.BadName()
	case !validate.Email(sub.Email):
		return models.Receipt{}, apperr.BadEmail()
	}

	ts := now.Format(TimestampLayout)
	return models.Receipt{
		Success:   true,
		Message:   SuccessMessage,
		Name:      sub.Name,
		Email:     sub.Email,
		Timestamp: ts,
		Status:    StatusProcessed,
		Details: models.Details{
			NameLength:     validate.NameLength(sub.Name),
			EmailDomain:    validate.Domain(sub.Email),
			SubmissionTime: ts,
		},
	}, nil
}

// parse decodes body into a trimmed Submission. An empty body, JSON null,
// a non-object or an empty object means no data was received.
func parse(body []byte) (models.Submission, error) {
	var raw any
	if err := httputil.Decode(body, &raw); err != nil {
		if errors.Is(err, httputil.ErrEmptyBody) {
			return models.Submission{}, apperr.NoData()
		}
		return models.Submission{}, apperr.Internal(err)
	}

	obj, ok := raw.(map[string]any)
	if !ok || len(obj) == 0 {
		return models.Submission{}, apperr.NoData()
	}

	name, err := stringField(obj, "name")
	if err != nil {
		return models.Submission{}, apperr.Internal(err)
	}
	email, err := stringField(obj, "email")
	if err != nil {
		return models.Submission{}, apperr.Internal(err)
	}
	return models.Submission{Name: name, Email: email}, nil
}

// stringField returns the trimmed string at key. An absent key reads as "";
// any non-string value, null included, cannot be trimmed and is a fault.
func stringField(obj map[string]any, key string) (string, error) {
	raw, ok := obj[key]
	if !ok {
		return "", nil
	}
	switch v := raw.(type) {
	case nil:
		return "", fmt.Errorf("field %q must be a string, got null", key)
	case string:
		return validate.TrimSpace(v), nil
	default:
		return "", fmt.Errorf("field %q must be a string, got %s", key, jsonType(v))
	}
}

func jsonType(v any) string {
	switch v.(type) {
	case bool:
		return "boolean"
	case float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
