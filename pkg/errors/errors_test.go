package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorFormatting(t *testing.T) {
	e := New(CodeNotFound, "user not found")
	assert.Equal(t, "not_found: user not found", e.Error())

	w := Wrap(errors.New("boom"), CodeInternal, "query failed")
	assert.Equal(t, "internal: query failed: boom", w.Error())

	var nilErr *AppError
	assert.Equal(t, "<nil>", nilErr.Error())
}

func TestIsCodeThroughWrapping(t *testing.T) {
	base := New(CodeConflict, "email already registered")
	wrapped := fmt.Errorf("create user: %w", base)

	assert.True(t, IsCode(wrapped, CodeConflict))
	assert.False(t, IsCode(wrapped, CodeNotFound))
	assert.True(t, errors.Is(wrapped, base))
	assert.Equal(t, CodeConflict, CodeOf(wrapped))
	assert.Equal(t, CodeUnknown, CodeOf(errors.New("plain")))
}

func TestWrapNilFallsBackToNew(t *testing.T) {
	e := Wrap(nil, CodeInvalid, "bad input")
	assert.Nil(t, e.Err)
	assert.Equal(t, CodeInvalid, e.Code)
}

func TestWithMeta(t *testing.T) {
	e := New(CodeConflict, "taken").WithMeta("field", "phone")
	assert.Equal(t, "phone", e.Meta["field"])
}
