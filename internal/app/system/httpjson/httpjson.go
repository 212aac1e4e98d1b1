// Package httpjson writes JSON responses and classified error bodies.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/internportal/internal/app/system/apperr"
	"github.com/dalemusser/internportal/internal/app/system/limits"
)

// ErrorDetail is the payload of an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorBody is the envelope written for every failed request:
//
//	{"error": {"code": "not_found", "message": "Internship not found."}}
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// Write encodes v as JSON with the given status code.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the client-visible form of err. Unclassified errors are
// rendered as internal failures with a generic message.
func WriteError(w http.ResponseWriter, err error) {
	e := apperr.From(err)
	Write(w, e.Kind.Status(), ErrorBody{Error: ErrorDetail{
		Code:    e.Kind.Code(),
		Message: e.Message(),
	}})
}

// Decode reads a JSON request body of at most limits.MaxJSONBody bytes
// into dst, rejecting unknown fields. Failures are reported as InvalidInput.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Wrap(apperr.InvalidInput, err, "Request body exceeds the size limit.")
		}
		return apperr.Wrap(apperr.InvalidInput, err, "Malformed JSON body.")
	}
	return nil
}
