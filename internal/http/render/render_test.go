package render_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/wandura/internal/apperr"
	"github.com/MrJamesThe3rd/wandura/internal/http/render"
)

func TestError(t *testing.T) {
	type testCase struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{
			name:       "Validation",
			err:        apperr.Validation("end date is before start date"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"validation failed: end date is before start date"}`,
		},
		{name: "Authentication", err: apperr.ErrAuthentication, wantStatus: http.StatusUnauthorized},
		{name: "Authorization", err: apperr.Authorization("not yours"), wantStatus: http.StatusForbidden},
		{name: "NotFound", err: fmt.Errorf("booking %w", apperr.ErrNotFound), wantStatus: http.StatusNotFound},
		{name: "Unavailable", err: fmt.Errorf("verify: %w", apperr.ErrUnavailable), wantStatus: http.StatusServiceUnavailable},
		{
			name:       "Infrastructure",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			render.Error(rec, httptest.NewRequest(http.MethodGet, "/x", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}
