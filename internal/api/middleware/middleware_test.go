package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bearister/auth-service/internal/api/types"
	"github.com/bearister/auth-service/internal/models"
	appErr "github.com/bearister/auth-service/pkg/errors"
	"github.com/bearister/auth-service/pkg/logger"
)

type stubAuthenticator struct {
	user *models.User
	err  error
	got  string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*models.User, error) {
	s.got = token
	return s.user, s.err
}

func okHandler(t *testing.T, want *models.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Same(t, want, CurrentUser(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_ResolvesUser(t *testing.T) {
	u := &models.User{ID: 7}
	a := &stubAuthenticator{user: u}

	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer abc.def")
	rr := httptest.NewRecorder()
	Auth(a)(okHandler(t, u)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "abc.def", a.got)
}

func TestAuth_Rejections(t *testing.T) {
	cases := map[string]struct {
		header string
		err    error
	}{
		"missing header":  {header: ""},
		"wrong scheme":    {header: "Basic Zm9vOmJhcg=="},
		"empty token":     {header: "Bearer   "},
		"rejected token":  {header: "Bearer x", err: appErr.New(appErr.CodeUnauthorized, "Invalid token")},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			a := &stubAuthenticator{err: c.err}
			req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
			if c.header != "" {
				req.Header.Set("Authorization", c.header)
			}
			rr := httptest.NewRecorder()
			Auth(a)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				t.Fatal("handler must not run")
			})).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			var body types.ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.NotEmpty(t, body.Detail)
		})
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"http://localhost:3000/"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	req.Header.Set("Origin", "http://evil.test")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", rr.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 500))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Len(t, seen, 36)
}

func TestRecoveryAndLogging(t *testing.T) {
	logger.Use(zap.NewNop())

	h := Logging(Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Internal server error")
}
