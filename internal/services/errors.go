package services

import (
	"github.com/bearister/auth-service/internal/repository"
	appErr "github.com/bearister/auth-service/pkg/errors"
)

// Domain failures. All are terminal for the request that produced them.
var (
	ErrDuplicateEmail        = repository.ErrEmailTaken
	ErrDuplicatePhone        = repository.ErrPhoneTaken
	ErrTermsNotAgreed        = appErr.New(appErr.CodeInvalid, "You must agree to the Terms and Conditions and Privacy Policy.")
	ErrInvalidCredentials    = appErr.New(appErr.CodeUnauthorized, "Invalid credentials")
	ErrEmailNotVerified      = appErr.New(appErr.CodeForbidden, "Email not verified. Please check your inbox.")
	ErrInvalidOrExpiredToken = appErr.New(appErr.CodeInvalid, "Invalid or expired token")
	ErrInvalidToken          = appErr.New(appErr.CodeUnauthorized, "Invalid token")
	ErrUserNotFound          = appErr.New(appErr.CodeNotFound, "User not found")
	ErrIncorrectOldPassword  = appErr.New(appErr.CodeInvalid, "Old password is incorrect")
	ErrPasswordTooLong       = appErr.New(appErr.CodeInvalid, "Password must be at most 72 bytes")
)

const (
	MsgRegistered      = "User registered successfully. Please check your email to verify your account."
	MsgPasswordUpdated = "Password updated successfully"
)
