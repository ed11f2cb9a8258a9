package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wctc-net-database/gradedash/core"
	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/internal/snapshot"
)

// Error codes returned in the JSON error body.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeNotFound        = "NOT_FOUND"
	CodeNoSubmission    = "NO_SUBMISSION"
	CodeNoData          = "NO_DATA"
	CodeStaleLoad       = "STALE_LOAD"
	CodeCreditsDisabled = "CREDITS_DISABLED"
	CodeInternal        = "INTERNAL"
)

// ErrorBody wraps the error object of an HTTP response.
type ErrorBody struct {
	Error ErrorItem `json:"error"`
}

// ErrorItem is the code and message of an error.
type ErrorItem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestError is an error raised by the handler itself with a fixed status.
type requestError struct {
	status int
	code   string
	err    error
}

func (e *requestError) Error() string { return e.err.Error() }

func (e *requestError) Unwrap() error { return e.err }

func badRequest(err error) error {
	return &requestError{status: http.StatusBadRequest, code: CodeBadRequest, err: err}
}

// errCreditsDisabled is returned by the credit endpoints when no store is configured.
var errCreditsDisabled = &requestError{
	status: http.StatusServiceUnavailable,
	code:   CodeCreditsDisabled,
	err:    errors.New("credit storage is not configured"),
}

// WriteError maps dashboard errors to HTTP statuses and a JSON body.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := CodeInternal
	msg := "internal error"

	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		status, code, msg = reqErr.status, reqErr.code, reqErr.Error()
	case errors.Is(err, contract.ErrUnknownStudent):
		status, code, msg = http.StatusNotFound, CodeNotFound, err.Error()
	case errors.Is(err, core.ErrNoSubmission):
		status, code, msg = http.StatusNotFound, CodeNoSubmission, err.Error()
	case errors.Is(err, snapshot.ErrNoData):
		status, code, msg = http.StatusServiceUnavailable, CodeNoData, err.Error()
	case errors.Is(err, snapshot.ErrStaleLoad):
		status, code, msg = http.StatusConflict, CodeStaleLoad, err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{
		Error: ErrorItem{
			Code:    code,
			Message: msg,
		},
	})
}

// writeJSON writes a 200 response with the given body.
func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
