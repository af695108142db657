// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bearister/auth-service/internal/auth"
	"github.com/bearister/auth-service/internal/mailer"
	"github.com/bearister/auth-service/internal/models"
	"github.com/bearister/auth-service/internal/repository"
	appErr "github.com/bearister/auth-service/pkg/errors"
	"github.com/bearister/auth-service/pkg/logger"
	"github.com/bearister/auth-service/pkg/utils"
)

const tokenTypeBearer = "bearer"

type RegisterInput struct {
	FullName   string
	Email      string
	Password   string
	AgreeTerms bool
}

// ProfileUpdate carries optional changes; nil or empty values are ignored.
type ProfileUpdate struct {
	FullName *string
	Email    *string
	Phone    *string
}

type TokenResult struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	Role         string       `json:"role"`
	User         *models.User `json:"user"`
}

type Profile struct {
	ID       uint    `json:"id"`
	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
}

// Options are fixed at startup from configuration.
type Options struct {
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	VerificationTTL time.Duration
	FrontendURL     string
}

type AuthService interface {
	RegisterUser(ctx context.Context, in RegisterInput) (string, error)
	RegisterSuperadmin(ctx context.Context, in RegisterInput) (*models.User, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
	Login(ctx context.Context, email, password string, superadmin bool) (*TokenResult, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenResult, error)
	GetProfile(ctx context.Context, userID uint) (*Profile, error)
	UpdateProfile(ctx context.Context, userID uint, in ProfileUpdate) (*models.User, error)
	UpdatePassword(ctx context.Context, userID uint, oldPassword, newPassword string) (string, error)
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

type authService struct {
	userRepo  repository.UserRepository
	hasher    auth.PasswordHasher
	tokens    *auth.TokenCodec
	mail      mailer.Sender
	opts      Options
	dummyHash string
}

func NewAuthService(userRepo repository.UserRepository, hasher auth.PasswordHasher, tokens *auth.TokenCodec, mail mailer.Sender, opts Options) AuthService {
	// Compared against when no account matches so both login failures cost
	// one bcrypt comparison.
	dummy, _ := hasher.Hash("no-such-account")
	return &authService{
		userRepo:  userRepo,
		hasher:    hasher,
		tokens:    tokens,
		mail:      mail,
		opts:      opts,
		dummyHash: dummy,
	}
}

var _ AuthService = (*authService)(nil)

func (s *authService) RegisterUser(ctx context.Context, in RegisterInput) (string, error) {
	if !in.AgreeTerms {
		return "", ErrTermsNotAgreed
	}

	email := models.NormalizeEmail(in.Email)
	logger.L().Info("attempt register", zap.String("email", email))
	ph, err := s.hashPassword(in.Password)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.IssueEmailVerification(email, s.opts.VerificationTTL)
	if err != nil {
		return "", appErr.Wrap(err, appErr.CodeInternal, "issue verification token failed")
	}
	digest := utils.HexSHA256(token)

	user := &models.User{
		FullName:          strings.TrimSpace(in.FullName),
		Email:             email,
		PasswordHash:      ph,
		AgreeTerms:        true,
		IsVerified:        false,
		VerificationToken: &digest,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			logger.L().Info("duplicate user found during register", zap.String("email", email))
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	// The account stays even if dispatch fails; the caller sees a 500.
	msg := mailer.VerificationMessage(s.opts.FrontendURL, user.Email, token, s.verificationTTL())
	if err := s.mail.Send(ctx, msg); err != nil {
		logger.L().Error("send verification email failed", zap.Error(err), zap.Uint("user_id", user.ID))
		return "", appErr.Wrap(err, appErr.CodeInternal, "send verification email failed").WithMeta("user_id", user.ID)
	}

	return MsgRegistered, nil
}

func (s *authService) RegisterSuperadmin(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := models.NormalizeEmail(in.Email)
	logger.L().Info("attempt register superadmin", zap.String("email", email))
	ph, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        email,
		PasswordHash: ph,
		IsSuperadmin: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create superadmin: %w", err)
	}
	return user, nil
}

func (s *authService) VerifyEmail(ctx context.Context, token string) (string, error) {
	claims, err := s.tokens.Decode(token, auth.KindEmailVerification)
	if err != nil {
		return "", ErrInvalidOrExpiredToken
	}

	var user models.User
	if err := s.userRepo.FindByEmail(ctx, claims.Subject, &user); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return "", ErrInvalidOrExpiredToken
		}
		return "", err
	}

	verified := fmt.Sprintf("Email %s verified successfully", user.Email)
	if user.IsVerified {
		return verified, nil
	}
	// A newer link supersedes this one.
	if user.VerificationToken != nil && *user.VerificationToken != utils.HexSHA256(token) {
		return "", ErrInvalidOrExpiredToken
	}

	yes := true
	if _, err := s.userRepo.UpdateFields(ctx, user.ID, repository.UserUpdate{
		IsVerified:             &yes,
		ClearVerificationToken: true,
	}); err != nil {
		return "", fmt.Errorf("mark verified: %w", err)
	}
	return verified, nil
}

func (s *authService) Login(ctx context.Context, email, password string, superadmin bool) (*TokenResult, error) {
	var user models.User
	if err := s.userRepo.FindForLogin(ctx, email, superadmin, &user); err != nil {
		if !appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, err
		}
		s.hasher.Verify(password, s.dummyHash)
		return nil, ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !superadmin && !user.IsVerified {
		return nil, ErrEmailNotVerified
	}

	return s.issuePair(&user)
}

// Refresh re-reads the account so the new pair carries its current role.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenResult, error) {
	claims, err := s.tokens.Decode(refreshToken, auth.KindRefresh)
	if err != nil {
		return nil, ErrInvalidToken
	}
	id, err := parseSubject(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.issuePair(user)
}

func (s *authService) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{ID: user.ID, FullName: user.FullName, Email: user.Email, Phone: user.Phone}, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uint, in ProfileUpdate) (*models.User, error) {
	var upd repository.UserUpdate
	if v := nonEmpty(in.FullName); v != nil {
		upd.FullName = v
	}
	if v := nonEmpty(in.Email); v != nil {
		email := models.NormalizeEmail(*v)
		upd.Email = &email
	}
	if v := nonEmpty(in.Phone); v != nil {
		upd.Phone = v
	}

	user, err := s.userRepo.UpdateFields(ctx, userID, upd)
	if err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdatePassword(ctx context.Context, userID uint, oldPassword, newPassword string) (string, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return "", err
	}

	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return "", ErrIncorrectOldPassword
	}

	ph, err := s.hashPassword(newPassword)
	if err != nil {
		return "", err
	}
	if _, err := s.userRepo.UpdateFields(ctx, user.ID, repository.UserUpdate{PasswordHash: &ph}); err != nil {
		return "", fmt.Errorf("store password: %w", err)
	}
	return MsgPasswordUpdated, nil
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.tokens.Decode(accessToken, auth.KindAccess)
	if err != nil {
		return nil, ErrInvalidToken
	}
	id, err := parseSubject(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.loadUser(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) issuePair(user *models.User) (*TokenResult, error) {
	sub := strconv.FormatUint(uint64(user.ID), 10)
	role := user.Role()

	access, err := s.tokens.IssueAccess(sub, role, s.opts.AccessTTL)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "issue access token failed")
	}
	refresh, err := s.tokens.IssueRefresh(sub, role, s.opts.RefreshTTL)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "issue refresh token failed")
	}

	return &TokenResult{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    tokenTypeBearer,
		Role:         role,
		User:         user,
	}, nil
}

func (s *authService) loadUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.userRepo.GetByID(ctx, id, &user); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *authService) hashPassword(password string) (string, error) {
	ph, err := s.hasher.Hash(password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmptyPassword):
			return "", appErr.Wrap(err, appErr.CodeInvalid, "password cannot be empty")
		case errors.Is(err, auth.ErrPasswordTooLong):
			return "", ErrPasswordTooLong
		}
		return "", appErr.Wrap(err, appErr.CodeInternal, "hash password failed")
	}
	return ph, nil
}

func (s *authService) verificationTTL() time.Duration {
	if s.opts.VerificationTTL <= 0 {
		return auth.DefaultVerificationTTL
	}
	return s.opts.VerificationTTL
}

func parseSubject(sub string) (uint, error) {
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid subject %q", sub)
	}
	return uint(id), nil
}

func nonEmpty(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
