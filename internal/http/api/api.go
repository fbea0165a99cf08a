// Package api holds what every HTTP handler shares: JSON encoding, request
// validation, the mapping from domain errors to status codes and the
// operator identity taken from the bearer token.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/levy/internal/assessment"
	"github.com/MrJamesThe3rd/levy/internal/calc"
	"github.com/MrJamesThe3rd/levy/internal/catalog"
	"github.com/MrJamesThe3rd/levy/internal/matching"
	"github.com/MrJamesThe3rd/levy/internal/notice"
	"github.com/MrJamesThe3rd/levy/internal/payment"
	"github.com/MrJamesThe3rd/levy/internal/statement"
)

const maxBody = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrBadRequest marks malformed or invalid request bodies and parameters.
var ErrBadRequest = errors.New("bad request")

func BadRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}

// Decode reads a JSON body into v and validates its struct tags.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBody))

	if err := dec.Decode(v); err != nil {
		return BadRequest("decoding body: %v", err)
	}

	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
			}

			return BadRequest("invalid fields: %s", strings.Join(fields, ", "))
		}

		return BadRequest("%v", err)
	}

	return nil
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing_fields,omitempty"`
}

// Error writes err with the status its kind maps to. Unexpected errors are
// logged and reported without detail.
func Error(w http.ResponseWriter, err error) {
	status := Status(err)

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		JSON(w, status, errorResponse{Error: "internal error"})

		return
	}

	resp := errorResponse{Error: err.Error()}

	var verr *calc.ValidationError
	if errors.As(err, &verr) {
		resp.Missing = verr.Missing
	}

	JSON(w, status, resp)
}

var statuses = []struct {
	status int
	errs   []error
}{
	{http.StatusBadRequest, []error{
		ErrBadRequest,
		calc.ErrInvalidField,
		payment.ErrInvalidPayment,
		payment.ErrInvalidMethod,
		payment.ErrInvalidAmount,
		payment.ErrMissingActor,
		payment.ErrNotBankTransfer,
		assessment.ErrInvalidApplication,
		assessment.ErrInvalidValidity,
		notice.ErrMissingPaymentRef,
		matching.ErrInvalidMapping,
		statement.ErrUnknownFormat,
	}},
	{http.StatusUnprocessableEntity, []error{
		calc.ErrMissingField,
		calc.ErrNegativeAmount,
		assessment.ErrMissingAdjustmentReason,
		assessment.ErrMissingAdjuster,
		assessment.ErrNegativeAmount,
		assessment.ErrMissingReason,
		payment.ErrBankAmountRequired,
		payment.ErrMismatchJustification,
		payment.ErrMissingNotes,
	}},
	{http.StatusNotFound, []error{
		catalog.ErrRevenueTypeNotFound,
		catalog.ErrZoneNotFound,
		catalog.ErrFormulaNotFound,
		assessment.ErrNotFound,
		assessment.ErrApplicationNotFound,
		notice.ErrNotFound,
		payment.ErrNotFound,
	}},
	{http.StatusConflict, []error{
		assessment.ErrApplicationClosed,
		assessment.ErrAlreadyAssessed,
		assessment.ErrInvalidTransition,
		notice.ErrAssessmentNotApproved,
		notice.ErrAlreadySettled,
		notice.ErrSuperseded,
		payment.ErrInvalidTransition,
		payment.ErrAmountMismatch,
		payment.ErrConcurrentUpdate,
		catalog.ErrAmbiguousFormula,
	}},
	{http.StatusGatewayTimeout, []error{payment.ErrGatewayTimeout}},
	{http.StatusBadGateway, []error{payment.ErrGatewayUnavailable}},
}

func Status(err error) int {
	for _, s := range statuses {
		for _, target := range s.errs {
			if errors.Is(err, target) {
				return s.status
			}
		}
	}

	return http.StatusInternalServerError
}
