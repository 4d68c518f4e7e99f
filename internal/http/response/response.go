package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"itboard/internal/common"
)

// ErrorCollector lets the metrics package observe error responses without a
// package cycle.
type ErrorCollector interface {
	IncError(code string)
}

var errorCollector ErrorCollector

func SetErrorCollector(collector ErrorCollector) {
	errorCollector = collector
}

func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type errorBody struct {
	Error *common.Error `json:"error"`
}

func Error(w http.ResponseWriter, err error) {
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		appErr = common.NewError(common.CodeInternal, "internal error", err)
	}
	if errorCollector != nil {
		errorCollector.IncError(string(appErr.Code))
	}
	JSON(w, statusFor(appErr.Code), errorBody{Error: appErr})
}

func statusFor(code common.Code) int {
	switch code {
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeConflict:
		return http.StatusConflict
	case common.CodeValidation:
		return http.StatusBadRequest
	case common.CodeNotEntitled:
		return http.StatusPaymentRequired
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
