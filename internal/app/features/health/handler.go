package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/internportal/internal/app/system/httpjson"
	"github.com/dalemusser/internportal/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client  *mongo.Client
	Storage string
	Log     *zap.Logger
}

// NewHandler constructs a health Handler. storage names the configured
// blob backend ("local" or "s3") and is reported as-is.
func NewHandler(client *mongo.Client, storage string, logger *zap.Logger) *Handler {
	return &Handler{
		Client:  client,
		Storage: storage,
		Log:     logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Storage  string `json:"storage,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "storage":"local" }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable" }
//
// The ping error is logged, never returned.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
		Storage:  h.Storage,
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		httpjson.Write(w, http.StatusServiceUnavailable, resp)
		return
	}

	httpjson.Write(w, http.StatusOK, resp)
}
