package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/wandura/internal/apperr"
	"github.com/MrJamesThe3rd/wandura/internal/auth"
)

func TestAuthenticator_IssueParse(t *testing.T) {
	a := auth.New("secret")
	want := auth.Identity{UserID: uuid.New(), Role: auth.RoleWorker}

	token, err := a.Issue(want, time.Hour)
	require.NoError(t, err)

	got, err := a.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAuthenticator_Parse(t *testing.T) {
	a := auth.New("secret")
	id := auth.Identity{UserID: uuid.New(), Role: auth.RoleCustomer}

	expired, err := a.Issue(id, -time.Minute)
	require.NoError(t, err)

	otherKey, err := auth.New("other").Issue(id, time.Hour)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, auth.Claims{
		Role:             auth.RoleCustomer,
		RegisteredClaims: jwt.RegisteredClaims{Subject: id.UserID.String()},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		Role:             "ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{Subject: id.UserID.String()},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"Expired":     expired,
		"WrongKey":    otherKey,
		"NoneAlg":     none,
		"UnknownRole": badRole,
		"Garbage":     "not-a-token",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := a.Parse(token)
			assert.ErrorIs(t, err, apperr.ErrAuthentication)
		})
	}
}

func TestMiddleware(t *testing.T) {
	a := auth.New("secret")
	id := auth.Identity{UserID: uuid.New(), Role: auth.RoleCustomer}

	token, err := a.Issue(id, time.Hour)
	require.NoError(t, err)

	var seen auth.Identity
	h := a.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, err := auth.FromContext(r.Context())
		require.NoError(t, err)
		seen = got
		w.WriteHeader(http.StatusNoContent)
	}))

	type testCase struct {
		name       string
		header     string
		wantStatus int
	}

	tests := []testCase{
		{name: "Valid", header: "Bearer " + token, wantStatus: http.StatusNoContent},
		{name: "Missing", header: "", wantStatus: http.StatusUnauthorized},
		{name: "WrongScheme", header: "Basic " + token, wantStatus: http.StatusUnauthorized},
		{name: "Invalid", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	assert.Equal(t, id, seen)
}

func TestFromContext_Missing(t *testing.T) {
	_, err := auth.FromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.ErrorIs(t, err, apperr.ErrAuthentication)
}
