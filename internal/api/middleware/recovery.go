package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/bearister/auth-service/internal/api/types"
	appErr "github.com/bearister/auth-service/pkg/errors"
	"github.com/bearister/auth-service/pkg/logger"
)

// Recovery logs panics and returns 500 with a generic message.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.L().Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("id", GetRequestID(r.Context())),
					zap.ByteString("stack", debug.Stack()),
				)
				types.WriteJSON(w, http.StatusInternalServerError, types.ErrorResponse{Detail: "Internal server error", Code: string(appErr.CodeInternal)})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
