package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"dormitory-backend/internal/data/entity"
	"dormitory-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Session), args.Error(1)
}

// echoIdentity answers 200 and exposes the identity it found in the context.
func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := utils.GetUserIDFromContext(r.Context())
		role, _ := utils.GetRoleFromContext(r.Context())
		w.Header().Set("X-User", userID.String())
		w.Header().Set("X-Role", role)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthSession(t *testing.T) {
	token := uuid.New()
	userID := uuid.New()

	tests := []struct {
		name   string
		header string
		setup  func(repo *MockSessionRepository)
		code   int
	}{
		{
			name:   "missing header",
			header: "",
			code:   http.StatusUnauthorized,
		},
		{
			name:   "wrong scheme",
			header: "Basic " + token.String(),
			code:   http.StatusUnauthorized,
		},
		{
			name:   "malformed token",
			header: "Bearer not-a-uuid",
			code:   http.StatusUnauthorized,
		},
		{
			name:   "unknown session",
			header: "Bearer " + token.String(),
			setup: func(repo *MockSessionRepository) {
				repo.On("FindValidSession", mock.Anything, token).Return(nil, nil)
			},
			code: http.StatusUnauthorized,
		},
		{
			name:   "storage failure",
			header: "Bearer " + token.String(),
			setup: func(repo *MockSessionRepository) {
				repo.On("FindValidSession", mock.Anything, token).Return(nil, assert.AnError)
			},
			code: http.StatusInternalServerError,
		},
		{
			name:   "valid session, lower-case scheme",
			header: "bearer " + token.String(),
			setup: func(repo *MockSessionRepository) {
				repo.On("FindValidSession", mock.Anything, token).Return(&entity.Session{
					UserID: userID,
					Token:  token,
					Role:   entity.RoleCommandant,
				}, nil)
			},
			code: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockSessionRepository)
			if tt.setup != nil {
				tt.setup(repo)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			AuthSession(repo, zap.NewNop())(echoIdentity()).ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			if tt.code == http.StatusOK {
				assert.Equal(t, userID.String(), rec.Header().Get("X-User"))
				assert.Equal(t, "commandant", rec.Header().Get("X-Role"))
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(zap.NewNop(), entity.RoleAdmin)(echoIdentity())

	t.Run("no identity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/staff", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/staff", nil)
		req = req.WithContext(utils.SetUserContext(req.Context(), uuid.New(), string(entity.RoleManager)))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/staff", nil)
		req = req.WithContext(utils.SetUserContext(req.Context(), uuid.New(), string(entity.RoleAdmin)))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
