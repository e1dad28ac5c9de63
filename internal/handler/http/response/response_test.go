package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccessEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	Created(w, "Attendance marked successfully", map[string]string{"date": "2024-03-05"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Attendance marked successfully", body["message"])
	assert.Equal(t, "2024-03-05", body["data"].(map[string]interface{})["date"])
	assert.NotContains(t, body, "error")
	assert.NotContains(t, body, "meta")
}

func TestSuccess_ArrayData(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, []string{"2024-03-01", "2024-03-04"})

	body := decode(t, w)
	assert.Equal(t, []interface{}{"2024-03-01", "2024-03-04"}, body["data"])
	assert.NotContains(t, body, "message")
}

func TestWriteJSON_EncodingFailure(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, map[string]interface{}{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "ENCODING_ERROR", body["error"].(map[string]interface{})["code"])
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:   "validation",
			err:    validator.ValidationErrors{{Field: "latitude", Message: "latitude is required"}},
			status: http.StatusUnprocessableEntity,
			code:   CodeValidation,
		},
		{
			name:    "invalid credentials",
			err:     auth.ErrInvalidCredentials,
			status:  http.StatusUnauthorized,
			code:    CodeInvalidCredentials,
			message: "invalid email or password",
		},
		{name: "invalid token", err: auth.ErrInvalidToken, status: http.StatusUnauthorized, code: CodeInvalidToken},
		{name: "user not found", err: fmt.Errorf("get user: %w", user.ErrUserNotFound), status: http.StatusNotFound, code: CodeUserNotFound},
		{name: "email exists", err: user.ErrUserEmailExists, status: http.StatusConflict, code: CodeEmailExists},
		{name: "admin only", err: user.ErrAdminPrivilegeRequired, status: http.StatusForbidden, code: CodeAdminRequired},
		{name: "already marked", err: attendance.ErrAlreadyMarked, status: http.StatusConflict, code: CodeAlreadyMarked},
		{
			name:    "outside radius keeps the distance",
			err:     fmt.Errorf("%w: you are 1.20 km away from Head Office (allowed 100 m)", attendance.ErrOutsideAllowedRadius),
			status:  http.StatusForbidden,
			code:    CodeOutsideAllowedRadius,
			message: "you are outside the allowed radius: you are 1.20 km away from Head Office (allowed 100 m)",
		},
		{name: "invalid coordinate", err: geo.ErrInvalidCoordinate, status: http.StatusBadRequest, code: CodeInvalidCoordinate},
		{name: "invalid month", err: calendar.ErrInvalidMonth, status: http.StatusBadRequest, code: CodeInvalidMonth},
		{name: "unknown", err: errors.New("connection reset"), status: http.StatusInternalServerError, code: CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tt.err)

			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, false, body["success"])

			detail := body["error"].(map[string]interface{})
			assert.Equal(t, tt.code, detail["code"])
			if tt.message != "" {
				assert.Equal(t, tt.message, detail["message"])
			}
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	w := httptest.NewRecorder()
	HandleError(w, validator.ValidationErrors{
		{Field: "latitude", Message: "latitude is required"},
		{Field: "longitude", Message: "longitude must be between -180 and 180"},
	})

	details := decode(t, w)["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Equal(t, "latitude is required", details["latitude"])
	assert.Equal(t, "longitude must be between -180 and 180", details["longitude"])
}
