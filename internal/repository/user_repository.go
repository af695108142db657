package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/bearister/auth-service/internal/models"
	appErr "github.com/bearister/auth-service/pkg/errors"
)

var (
	ErrEmailTaken = appErr.New(appErr.CodeConflict, "Email already registered")
	ErrPhoneTaken = appErr.New(appErr.CodeConflict, "Phone number already registered")
)

// UserUpdate lists the columns a partial update may touch. Nil means
// unchanged.
type UserUpdate struct {
	FullName     *string
	Email        *string
	Phone        *string
	PasswordHash *string
	IsVerified   *bool

	// ClearVerificationToken sets verification_token to NULL.
	ClearVerificationToken bool
}

func (u UserUpdate) columns() map[string]any {
	cols := map[string]any{}
	if u.FullName != nil {
		cols["full_name"] = *u.FullName
	}
	if u.Email != nil {
		cols["email"] = models.NormalizeEmail(*u.Email)
	}
	if u.Phone != nil {
		cols["phone"] = *u.Phone
	}
	if u.PasswordHash != nil {
		cols["password"] = *u.PasswordHash
	}
	if u.IsVerified != nil {
		cols["is_verified"] = *u.IsVerified
	}
	if u.ClearVerificationToken {
		cols["verification_token"] = nil
	}
	return cols
}

type UserRepository interface {
	BaseRepository[models.User]
	FindByEmail(ctx context.Context, email string, dest *models.User) error
	FindForLogin(ctx context.Context, email string, superadmin bool, dest *models.User) error
	UpdateFields(ctx context.Context, id uint, upd UserUpdate) (*models.User, error)
}

type userRepository struct {
	BaseRepository[models.User]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository[models.User](db), db: db}
}

// FindByEmail matches case-insensitively.
func (r *userRepository) FindByEmail(ctx context.Context, email string, dest *models.User) error {
	err := r.db.WithContext(ctx).
		Where("lower(email) = ?", models.NormalizeEmail(email)).
		First(dest).Error
	return notFoundOr(err, "get user by email failed")
}

// FindForLogin only returns rows whose is_superadmin flag equals superadmin.
func (r *userRepository) FindForLogin(ctx context.Context, email string, superadmin bool, dest *models.User) error {
	err := r.db.WithContext(ctx).
		Where("lower(email) = ? AND is_superadmin = ?", models.NormalizeEmail(email), superadmin).
		First(dest).Error
	return notFoundOr(err, "get user for login failed")
}

// Create rejects a case-insensitive email collision up front. The unique
// indexes catch whatever races past the check.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	if err := r.ensureEmailFree(ctx, user.Email, 0); err != nil {
		return err
	}
	return r.BaseRepository.Create(ctx, user)
}

func (r *userRepository) UpdateFields(ctx context.Context, id uint, upd UserUpdate) (*models.User, error) {
	var user models.User
	if err := r.GetByID(ctx, id, &user); err != nil {
		return nil, err
	}

	cols := upd.columns()
	if len(cols) == 0 {
		return &user, nil
	}
	if email, ok := cols["email"].(string); ok && email != user.Email {
		if err := r.ensureEmailFree(ctx, email, user.ID); err != nil {
			return nil, err
		}
	}

	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(cols).Error; err != nil {
		return nil, translateWriteError(err, "update user failed")
	}

	var updated models.User
	if err := r.GetByID(ctx, id, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *userRepository) ensureEmailFree(ctx context.Context, email string, owner uint) error {
	var existing models.User
	err := r.FindByEmail(ctx, email, &existing)
	switch {
	case err == nil:
		if existing.ID != owner {
			return ErrEmailTaken
		}
		return nil
	case appErr.IsCode(err, appErr.CodeNotFound):
		return nil
	default:
		return err
	}
}

func notFoundOr(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return appErr.New(appErr.CodeNotFound, "user not found")
	}
	return appErr.Wrap(err, appErr.CodeInternal, msg)
}

// translateWriteError maps unique violations from either driver onto the
// conflict sentinels.
func translateWriteError(err error, msg string) error {
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation:
		return conflictFor(pgErr.ConstraintName)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrEmailTaken
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return conflictFor(err.Error())
	}
	return appErr.Wrap(err, appErr.CodeInternal, msg)
}

func conflictFor(detail string) error {
	if strings.Contains(strings.ToLower(detail), "phone") {
		return ErrPhoneTaken
	}
	return ErrEmailTaken
}
