package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/collabhub/engine/internal/api/types"
	appErr "github.com/collabhub/engine/pkg/errors"
	"github.com/collabhub/engine/pkg/logger"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := types.StatusFor(err)
	if status >= 500 {
		logger.L().Error("request failed", zap.Error(err))
	}
	writeJSON(w, status, types.APIResponse{Success: false, Error: types.FromAppError(err)})
}

func writeInvalid(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, types.APIResponse{
		Success: false,
		Error:   &types.APIError{Code: string(appErr.CodeInvalid), Message: msg},
	})
}

// pathID extracts and validates a UUID path parameter. Empty values and the
// literals "null"/"undefined" (stale client artifacts) are rejected before
// they can reach the store layer.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	if raw == "" || raw == "null" || raw == "undefined" {
		return uuid.Nil, appErr.New(appErr.CodeInvalid, "invalid "+name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, appErr.New(appErr.CodeInvalid, "invalid "+name)
	}
	return id, nil
}
