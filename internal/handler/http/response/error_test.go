package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/seunits/attendance-backend-go/internal/domain/attendance"
	"github.com/seunits/attendance-backend-go/internal/domain/auth"
	"github.com/seunits/attendance-backend-go/internal/domain/employee"
	"github.com/seunits/attendance-backend-go/internal/domain/user"
	"github.com/seunits/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", validator.ValidationErrors{{Field: "date", Message: "bad"}}, http.StatusUnprocessableEntity, CodeValidation},
		{"identity", employee.ErrIdentityNotFound, http.StatusNotFound, CodeIdentityNotFound},
		{"check-in too early", attendance.ErrCheckInTooEarly, http.StatusBadRequest, CodePolicyViolation},
		{"checkout too late", attendance.ErrCheckOutTooLate, http.StatusBadRequest, CodePolicyViolation},
		{"no check-in", attendance.ErrNoCheckInFound, http.StatusBadRequest, CodeNoCheckInFound},
		{"already checked out", attendance.ErrAlreadyCheckedOut, http.StatusBadRequest, CodeAlreadyCheckedOut},
		{"wrapped conflict", fmt.Errorf("upsert: %w", attendance.ErrStoreConflict), http.StatusConflict, CodeConflict},
		{"credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, CodeUnauthorized},
		{"token", auth.ErrInvalidToken, http.StatusUnauthorized, CodeUnauthorized},
		{"domain", auth.ErrEmailDomainNotAllowed, http.StatusBadRequest, CodeBadRequest},
		{"role", user.ErrInsufficientRole, http.StatusForbidden, CodeForbidden},
		{"email exists", user.ErrUserEmailExists, http.StatusConflict, CodeConflict},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestHandleError_PolicyReasonIsReported(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, attendance.ErrCheckInTooLate)

	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body.Error.Message, "check-in disabled after 9:00 PM")
}

func TestHandleError_InternalDetailsAreHidden(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, errors.New("pq: password authentication failed"))

	assert.NotContains(t, rec.Body.String(), "password authentication")
}
