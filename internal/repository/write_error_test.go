package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	appErr "github.com/bearister/auth-service/pkg/errors"
)

func TestTranslateWriteError(t *testing.T) {
	cases := map[string]struct {
		err  error
		want error
	}{
		"postgres email index": {
			err:  &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "idx_users_email"},
			want: ErrEmailTaken,
		},
		"postgres lower email index": {
			err:  fmt.Errorf("exec: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "idx_users_email_lower"}),
			want: ErrEmailTaken,
		},
		"postgres phone index": {
			err:  &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "idx_users_phone"},
			want: ErrPhoneTaken,
		},
		"sqlite phone": {
			err:  errors.New("constraint failed: UNIQUE constraint failed: users.phone (2067)"),
			want: ErrPhoneTaken,
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, translateWriteError(c.err, "write failed"), c.want)
		})
	}
}

func TestTranslateWriteError_OtherFailuresAreInternal(t *testing.T) {
	err := translateWriteError(&pgconn.PgError{Code: pgerrcode.NotNullViolation, ConstraintName: "users_email"}, "write failed")
	assert.True(t, appErr.IsCode(err, appErr.CodeInternal))
	assert.NotErrorIs(t, err, ErrEmailTaken)
}
