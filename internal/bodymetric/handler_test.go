package bodymetric

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fitclub/internal/apperr"
	"fitclub/internal/stats"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, userID uuid.UUID, query ListQuery) ([]Metric, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Metric), args.Error(1)
}

func (m *MockService) Get(ctx context.Context, userID uuid.UUID, id int64) (*Metric, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Metric), args.Error(1)
}

func (m *MockService) Create(ctx context.Context, userID uuid.UUID, req MetricRequest) (*Metric, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Metric), args.Error(1)
}

func (m *MockService) Update(ctx context.Context, userID uuid.UUID, id int64, req MetricRequest) (*Metric, error) {
	args := m.Called(ctx, userID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Metric), args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockService) Trends(ctx context.Context, userID uuid.UUID, days int) (*TrendsResponse, error) {
	args := m.Called(ctx, userID, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TrendsResponse), args.Error(1)
}

func setupRouter(svc Service, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	h := NewHandler(svc)
	r.GET("/api/metrics", h.List)
	r.POST("/api/metrics", h.Create)
	r.GET("/api/metrics/trends", h.Trends)
	r.GET("/api/metrics/:id", h.Get)
	r.PATCH("/api/metrics/:id", h.Update)
	r.DELETE("/api/metrics/:id", h.Delete)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestList_Handler(t *testing.T) {
	id := uuid.New()
	svc := new(MockService)
	svc.On("List", mock.Anything, id, ListQuery{StartDate: "2024-03-01"}).Return([]Metric{{ID: 1, WeightUnit: "kg"}}, nil)
	r := setupRouter(svc, id)

	w := do(r, http.MethodGet, "/api/metrics?startDate=2024-03-01", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"metrics":[`)

	w = do(r, http.MethodGet, "/api/metrics?endDate=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid query parameters")
}

func TestTrends_Handler(t *testing.T) {
	id := uuid.New()
	at := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	svc := new(MockService)
	svc.On("Trends", mock.Anything, id, 0).Return(&TrendsResponse{
		WeightTrend:  []stats.Point{{Date: at, Value: 82}},
		BodyFatTrend: []stats.Point{},
	}, nil)
	svc.On("Trends", mock.Anything, id, 7).Return(&TrendsResponse{WeightTrend: []stats.Point{}, BodyFatTrend: []stats.Point{}}, nil)
	r := setupRouter(svc, id)

	w := do(r, http.MethodGet, "/api/metrics/trends", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"weightTrend":[{"date":"2024-03-01T08:00:00Z","value":82}]`)
	assert.Contains(t, w.Body.String(), `"bodyFatTrend":[]`)

	w = do(r, http.MethodGet, "/api/metrics/trends?days=7", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/metrics/trends?days=0", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/metrics/trends?days=-3", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreate_Handler(t *testing.T) {
	id := uuid.New()
	svc := new(MockService)
	svc.On("Create", mock.Anything, id, mock.AnythingOfType("bodymetric.MetricRequest")).Return(&Metric{ID: 9}, nil)
	r := setupRouter(svc, id)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"valid", `{"recordedAt":"2024-03-12","weight":81.4,"bodyFat":18.2,"measurements":{"waist":84}}`, http.StatusCreated},
		{"zero body fat", `{"recordedAt":"2024-03-12","bodyFat":0}`, http.StatusCreated},
		{"missing date", `{"weight":81.4}`, http.StatusBadRequest},
		{"negative weight", `{"recordedAt":"2024-03-12","weight":-1}`, http.StatusBadRequest},
		{"body fat over 100", `{"recordedAt":"2024-03-12","bodyFat":101}`, http.StatusBadRequest},
		{"negative measurement", `{"recordedAt":"2024-03-12","measurements":{"hips":-2}}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/metrics", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestGetUpdateDelete_Handler(t *testing.T) {
	id := uuid.New()
	svc := new(MockService)
	svc.On("Get", mock.Anything, id, int64(2)).Return(nil, apperr.NotFound("Body metric"))
	svc.On("Update", mock.Anything, id, int64(3), mock.AnythingOfType("bodymetric.MetricRequest")).Return(&Metric{ID: 3}, nil)
	svc.On("Delete", mock.Anything, id, int64(3)).Return(nil)
	r := setupRouter(svc, id)

	w := do(r, http.MethodGet, "/api/metrics/2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Body metric not found")

	w = do(r, http.MethodPatch, "/api/metrics/3", `{"recordedAt":"2024-03-12","weight":80}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"metric":{`)

	w = do(r, http.MethodDelete, "/api/metrics/3", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Body metric deleted successfully")
}
