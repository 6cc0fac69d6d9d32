package membership

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fitclub/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct{ mock.Mock }

func (m *MockService) List(ctx context.Context, userID uuid.UUID) ([]MembershipWithGym, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]MembershipWithGym), args.Error(1)
}

func (m *MockService) Active(ctx context.Context, userID uuid.UUID) (*MembershipWithGym, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MembershipWithGym), args.Error(1)
}

func (m *MockService) Upgrade(ctx context.Context, userID uuid.UUID, newPlan PlanType) (*UpgradeResult, error) {
	args := m.Called(ctx, userID, newPlan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UpgradeResult), args.Error(1)
}

func (m *MockService) QRCode(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func setupRouter(svc Service, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	h := NewHandler(svc)
	r.GET("/api/memberships", h.List)
	r.GET("/api/memberships/active", h.Active)
	r.GET("/api/memberships/active/qr", h.ActiveQR)
	r.GET("/api/memberships/plans", h.Plans)
	r.POST("/api/memberships/upgrade", h.Upgrade)
	return r
}

func TestHandlerActiveNull(t *testing.T) {
	userID := uuid.New()
	svc := new(MockService)
	svc.On("Active", mock.Anything, userID).Return(nil, nil)

	w := httptest.NewRecorder()
	setupRouter(svc, userID).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/memberships/active", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"membership":null}}`, w.Body.String())
}

func TestHandlerUpgrade(t *testing.T) {
	userID := uuid.New()
	svc := new(MockService)
	svc.On("Upgrade", mock.Anything, userID, PlanPremium).
		Return(&UpgradeResult{Proration: Proration{NetAmount: 10, DaysRemaining: 15}}, nil)
	svc.On("Upgrade", mock.Anything, userID, PlanBasic).
		Return(nil, apperr.Validation("You are already on this plan"))
	r := setupRouter(svc, userID)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"upgrade", `{"newPlanType":"premium"}`, http.StatusOK},
		{"same plan", `{"newPlanType":"basic"}`, http.StatusBadRequest},
		{"unknown plan", `{"newPlanType":"gold"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/memberships/upgrade", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	svc.AssertNumberOfCalls(t, "Upgrade", 2)
}

func TestHandlerPlansAndQR(t *testing.T) {
	userID := uuid.New()
	svc := new(MockService)
	svc.On("QRCode", mock.Anything, userID).Return([]byte("\x89PNG"), nil)
	r := setupRouter(svc, userID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/memberships/plans", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Data PlansResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Len(t, env.Data.Plans, 3)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/memberships/active/qr", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
}
