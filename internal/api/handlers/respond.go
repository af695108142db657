package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/bearister/auth-service/internal/api/types"
	appErr "github.com/bearister/auth-service/pkg/errors"
)

const maxBodyBytes = 1 << 20

func writeBadJSON(w http.ResponseWriter) {
	types.WriteJSON(w, http.StatusBadRequest, &types.ErrorResponse{Detail: "Invalid JSON body", Code: string(appErr.CodeInvalid)})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// decodeAndValidate writes the error response itself and reports whether the
// handler should continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(r, dst); err != nil {
		writeBadJSON(w)
		return false
	}
	if err := types.Validate(dst); err != nil {
		types.WriteJSON(w, http.StatusUnprocessableEntity, types.FromValidationError(err))
		return false
	}
	return true
}
