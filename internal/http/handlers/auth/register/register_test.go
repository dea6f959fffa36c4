package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/campushub/internal/models"
	"github.com/magabrotheeeer/campushub/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Register(ctx context.Context, in auth.RegisterInput) (*models.User, string, error) {
	args := m.Called(ctx, in)
	user, _ := args.Get(0).(*models.User)
	return user, args.String(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	valid := auth.RegisterInput{FullName: "Amina", Email: "amina@uni.edu", Password: "secret1", University: "Cairo University"}

	tests := []struct {
		name           string
		requestBody    any
		mockUser       *models.User
		mockToken      string
		mockErr        error
		callService    bool
		wantStatusCode int
		wantMessage    string
	}{
		{
			name:           "successful registration",
			requestBody:    valid,
			mockUser:       &models.User{ID: "u-1", FullName: "Amina", Email: "amina@uni.edu", University: "Cairo University", Role: "student", PasswordHash: "$2a$10$secret"},
			mockToken:      "tok",
			callService:    true,
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "invalid request body",
		},
		{
			name:           "missing fields",
			requestBody:    auth.RegisterInput{Email: "amina@uni.edu"},
			mockErr:        models.Invalid("Please provide all required fields"),
			callService:    true,
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "Please provide all required fields",
		},
		{
			name:           "email taken",
			requestBody:    valid,
			mockErr:        errors.Join(errors.New("auth.Register"), models.ErrEmailTaken),
			callService:    true,
			wantStatusCode: http.StatusConflict,
			wantMessage:    "User already exists with this email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(AuthServiceMock)
			if tt.callService {
				svc.On("Register", mock.Anything, tt.requestBody.(auth.RegisterInput)).
					Return(tt.mockUser, tt.mockToken, tt.mockErr).Once()
			}
			handler := New(newNoopLogger(), svc)

			var body []byte
			if s, ok := tt.requestBody.(string); ok {
				body = []byte(s)
			} else {
				var err error
				body, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			if tt.wantMessage != "" {
				assert.Equal(t, false, got["success"])
				assert.Equal(t, tt.wantMessage, got["message"])
			} else {
				assert.Equal(t, true, got["success"])
				data := got["data"].(map[string]any)
				assert.Equal(t, "tok", data["token"])
				user := data["user"].(map[string]any)
				assert.Equal(t, "u-1", user["id"])
				assert.Equal(t, "Amina", user["fullName"])
				assert.Equal(t, "student", user["role"])
				assert.NotContains(t, user, "passwordHash")
				assert.NotContains(t, user, "PasswordHash")
			}
			svc.AssertExpectations(t)
		})
	}
}
