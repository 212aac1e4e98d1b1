// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/internportal/internal/app/system/apperr"
	"github.com/dalemusser/internportal/internal/app/system/httpjson"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger writes classified error responses and logs their causes.
// Internal failures are logged at error level with the request id; the
// client only sees the generic message.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// Write logs err and writes its JSON error body.
func (el *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, err error) {
	e := apperr.From(err)
	fields := []zap.Field{
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("code", e.Kind.Code()),
	}
	if e.Err != nil {
		fields = append(fields, zap.Error(e.Err))
	}

	if e.Kind == apperr.Internal {
		el.Log.Error("request failed", fields...)
	} else {
		el.Log.Debug("request rejected", fields...)
	}
	httpjson.WriteError(w, e)
}

// NotFound answers unknown routes with a JSON 404.
func NotFound(w http.ResponseWriter, r *http.Request) {
	httpjson.WriteError(w, apperr.New(apperr.NotFound, ""))
}

// MethodNotAllowed answers known routes called with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusMethodNotAllowed, httpjson.ErrorBody{Error: httpjson.ErrorDetail{
		Code:    "method_not_allowed",
		Message: "Method not allowed.",
	}})
}
