package types

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	appErr "github.com/bearister/auth-service/pkg/errors"
	"github.com/bearister/auth-service/pkg/logger"
)

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError renders err through FromAppError. Server-side failures are logged
// with their code and metadata; the client only sees the generic body.
func WriteError(w http.ResponseWriter, err error) {
	status, body := FromAppError(err)
	if status >= http.StatusInternalServerError {
		fields := []zap.Field{zap.String("code", string(appErr.CodeOf(err))), zap.Error(err)}
		var ae *appErr.AppError
		if errors.As(err, &ae) && len(ae.Meta) > 0 {
			fields = append(fields, zap.Any("meta", ae.Meta))
		}
		logger.L().Error("request failed", fields...)
	}
	WriteJSON(w, status, body)
}
