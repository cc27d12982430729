package router

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/yours-lab/backend/pkg/errorx"
	"github.com/yours-lab/backend/pkg/xcontext"
)

// Envelope is the body of every API response.
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, data any) {
	writeJSON(ctx, w, http.StatusOK, Envelope{
		Status:  http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	xerr, ok := err.(errorx.Error)
	if !ok {
		xcontext.Logger(ctx).Errorf("Unexpected handler error: %v", err)
		xerr = errorx.Unknown
	}

	status := httpStatus(xerr.Code)
	writeJSON(ctx, w, status, Envelope{
		Status:  status,
		Message: xerr.Message,
	})
}

func httpStatus(code errorx.Code) int {
	switch code {
	case errorx.Unauthenticated:
		return http.StatusUnauthorized
	case errorx.PermissionDenied, errorx.NotCreator, errorx.InsufficientBalance:
		return http.StatusForbidden
	case errorx.NotFound:
		return http.StatusNotFound
	case errorx.AlreadyExists, errorx.AlreadyDeployed, errorx.AlreadyLoading,
		errorx.AlreadyLiked, errorx.DuplicateRequest:
		return http.StatusConflict
	case errorx.TooManyRequests:
		return http.StatusTooManyRequests
	case errorx.Internal, errorx.Unavailable, errorx.BadResponse, errorx.Unknown.Code:
		return http.StatusInternalServerError
	case errorx.NotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write response: %v", err)
	}
}
