package handlers

import (
	"net/http"
	"strings"

	"github.com/bearister/auth-service/internal/api/middleware"
	"github.com/bearister/auth-service/internal/api/types"
	"github.com/bearister/auth-service/internal/services"
)

type AuthHandler struct {
	svc services.AuthService
}

func NewAuthHandler(svc services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// RegisterSuperadmin godoc
// @Summary  Create a superadmin account
// @Tags     superadmin
// @Accept   json
// @Produce  json
// @Param    body body types.RegisterRequest true "account"
// @Success  201 {object} models.User
// @Failure  409 {object} types.ErrorResponse
// @Failure  422 {object} types.ErrorResponse
// @Router   /auth/superadmin/register [post]
func (h *AuthHandler) RegisterSuperadmin(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.svc.RegisterSuperadmin(r.Context(), services.RegisterInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Password:   req.Password,
		AgreeTerms: req.AgreeTerms,
	})
	if err != nil {
		types.WriteError(w, err)
		return
	}
	types.WriteJSON(w, http.StatusCreated, user)
}

// LoginSuperadmin godoc
// @Summary  Superadmin login
// @Tags     superadmin
// @Accept   json
// @Produce  json
// @Param    body body types.LoginRequest true "credentials"
// @Success  200 {object} services.TokenResult
// @Failure  401 {object} types.ErrorResponse
// @Router   /auth/superadmin/login [post]
func (h *AuthHandler) LoginSuperadmin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, true)
}

// Register godoc
// @Summary  Register and send a verification email
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body types.RegisterRequest true "account"
// @Success  201 {object} types.MessageResponse
// @Failure  400 {object} types.ErrorResponse
// @Failure  409 {object} types.ErrorResponse
// @Router   /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	msg, err := h.svc.RegisterUser(r.Context(), services.RegisterInput{
		FullName:   req.FullName,
		Email:      req.Email,
		Password:   req.Password,
		AgreeTerms: req.AgreeTerms,
	})
	if err != nil {
		types.WriteError(w, err)
		return
	}
	types.WriteJSON(w, http.StatusCreated, types.MessageResponse{Message: msg})
}

// VerifyEmail godoc
// @Summary  Confirm an email address from the emailed link
// @Tags     auth
// @Produce  json
// @Param    token query string true "verification token"
// @Success  200 {object} types.MessageResponse
// @Failure  400 {object} types.ErrorResponse
// @Router   /auth/verify-email [get]
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		types.WriteJSON(w, http.StatusUnprocessableEntity, &types.ErrorResponse{
			Detail: "Invalid request",
			Code:   types.CodeValidation,
			Errors: map[string][]string{"token": {"This field is required"}},
		})
		return
	}

	msg, err := h.svc.VerifyEmail(r.Context(), token)
	if err != nil {
		types.WriteError(w, err)
		return
	}
	types.WriteJSON(w, http.StatusOK, types.MessageResponse{Message: msg})
}

// Login godoc
// @Summary  User login
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body types.LoginRequest true "credentials"
// @Success  200 {object} services.TokenResult
// @Failure  401 {object} types.ErrorResponse
// @Failure  403 {object} types.ErrorResponse
// @Router   /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, false)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, superadmin bool) {
	var req types.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password, superadmin)
	if err != nil {
		types.WriteError(w, err)
		return
	}
	types.WriteJSON(w, http.StatusOK, res)
}

// Refresh godoc
// @Summary  Exchange a refresh token for a new token pair
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body types.RefreshRequest false "refresh token"
// @Param    refresh_token query string false "refresh token"
// @Success  200 {object} services.TokenResult
// @Failure  401 {object} types.ErrorResponse
// @Router   /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req types.RefreshRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeBadJSON(w)
			return
		}
	}
	if req.RefreshToken == "" {
		req.RefreshToken = r.URL.Query().Get("refresh_token")
	}
	if err := types.Validate(&req); err != nil {
		types.WriteJSON(w, http.StatusUnprocessableEntity, types.FromValidationError(err))
		return
	}

	res, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		types.WriteError(w, err)
		return
	}
	types.WriteJSON(w, http.StatusOK, res)
}

// Profile godoc
// @Summary  Current user's profile
// @Tags     profile
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} services.Profile
// @Failure  401 {object} types.ErrorResponse
// @Router   /auth/profile [get]
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		types.WriteError(w, services.ErrInvalidToken)
		return
	}

	p, err := h.svc.GetProfile(r.Context(), user.ID)
	if err != nil {
		types.WriteError(w, err)
		return
	}
	types.WriteJSON(w, http.StatusOK, p)
}

// UpdateProfile godoc
// @Summary  Update name, email or phone
// @Tags     profile
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body types.UpdateProfileRequest true "changes"
// @Success  200 {object} models.User
// @Failure  409 {object} types.ErrorResponse
// @Router   /auth/update_profile [put]
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		types.WriteError(w, services.ErrInvalidToken)
		return
	}
	var req types.UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.svc.UpdateProfile(r.Context(), user.ID, services.ProfileUpdate{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		types.WriteError(w, err)
		return
	}
	types.WriteJSON(w, http.StatusOK, updated)
}

// UpdatePassword godoc
// @Summary  Change password
// @Tags     profile
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body types.UpdatePasswordRequest true "passwords"
// @Success  200 {object} types.MessageResponse
// @Failure  400 {object} types.ErrorResponse
// @Router   /auth/update_password [put]
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		types.WriteError(w, services.ErrInvalidToken)
		return
	}
	var req types.UpdatePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	msg, err := h.svc.UpdatePassword(r.Context(), user.ID, req.OldPassword, req.NewPassword)
	if err != nil {
		types.WriteError(w, err)
		return
	}
	types.WriteJSON(w, http.StatusOK, types.MessageResponse{Message: msg})
}
