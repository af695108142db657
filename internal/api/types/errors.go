package types

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	appErr "github.com/bearister/auth-service/pkg/errors"
)

// CodeValidation marks request bodies that failed struct validation.
const CodeValidation = "validation_failed"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a request DTO against its validate tags.
func Validate(req any) error {
	return validate.Struct(req)
}

// StatusFor maps an application error code onto an HTTP status.
func StatusFor(code appErr.Code) int {
	switch code {
	case appErr.CodeInvalid:
		return http.StatusBadRequest
	case appErr.CodeUnauthorized:
		return http.StatusUnauthorized
	case appErr.CodeForbidden:
		return http.StatusForbidden
	case appErr.CodeNotFound:
		return http.StatusNotFound
	case appErr.CodeConflict:
		return http.StatusConflict
	case appErr.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FromAppError converts err into a status and body. Internal details never
// reach the client.
func FromAppError(err error) (int, *ErrorResponse) {
	var e *appErr.AppError
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, &ErrorResponse{Detail: "Internal server error", Code: string(appErr.CodeInternal)}
	}
	status := StatusFor(e.Code)
	if status == http.StatusInternalServerError {
		return status, &ErrorResponse{Detail: "Internal server error", Code: string(appErr.CodeInternal)}
	}
	return status, &ErrorResponse{Detail: e.Message, Code: string(e.Code)}
}

// FromValidationError lists each failing field with a readable problem.
func FromValidationError(err error) *ErrorResponse {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return &ErrorResponse{Detail: "Invalid request", Code: CodeValidation}
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "This field is required")
		case "email":
			problems[field] = append(problems[field], "Value must be a valid email address")
		case "max":
			problems[field] = append(problems[field], "Value is too long, max: "+fe.Param())
		default:
			problems[field] = append(problems[field], "Invalid value provided")
		}
	}
	return &ErrorResponse{Detail: "Invalid request", Code: CodeValidation, Errors: problems}
}
