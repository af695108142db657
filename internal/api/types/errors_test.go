package types

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErr "github.com/bearister/auth-service/pkg/errors"
)

func TestFromAppError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		detail string
	}{
		{appErr.New(appErr.CodeInvalid, "bad"), http.StatusBadRequest, "bad"},
		{appErr.New(appErr.CodeUnauthorized, "who"), http.StatusUnauthorized, "who"},
		{appErr.New(appErr.CodeForbidden, "no"), http.StatusForbidden, "no"},
		{fmt.Errorf("wrapped: %w", appErr.New(appErr.CodeNotFound, "gone")), http.StatusNotFound, "gone"},
		{appErr.New(appErr.CodeConflict, "taken"), http.StatusConflict, "taken"},
		{appErr.Wrap(errors.New("dsn secret"), appErr.CodeInternal, "db"), http.StatusInternalServerError, "Internal server error"},
		{errors.New("plain"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, c := range cases {
		status, body := FromAppError(c.err)
		assert.Equal(t, c.status, status, c.err.Error())
		assert.Equal(t, c.detail, body.Detail)
	}
}

func TestValidateUsesJSONFieldNames(t *testing.T) {
	err := Validate(&RegisterRequest{FullName: "", Email: "nope", Password: "pw"})
	require.Error(t, err)

	body := FromValidationError(err)
	assert.Equal(t, CodeValidation, body.Code)
	assert.Equal(t, []string{"This field is required"}, body.Errors["full_name"])
	assert.Equal(t, []string{"Value must be a valid email address"}, body.Errors["email"])
	assert.NotContains(t, body.Errors, "agree_terms")
}

func TestValidateOptionalProfileFields(t *testing.T) {
	assert.NoError(t, Validate(&UpdateProfileRequest{}))

	bad := "not-an-email"
	assert.Error(t, Validate(&UpdateProfileRequest{Email: &bad}))
}
