package gym

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"fitclub/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) GetAllGyms(ctx context.Context) ([]Gym, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Gym), args.Error(1)
}

func (m *MockService) GetGymByID(ctx context.Context, id int64) (*Gym, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Gym), args.Error(1)
}

func (m *MockService) SearchGyms(ctx context.Context, query SearchQuery) ([]Gym, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]Gym), args.Error(1)
}

func (m *MockService) NearbyGyms(ctx context.Context, query NearbyQuery) ([]GymWithDistance, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]GymWithDistance), args.Error(1)
}

func (m *MockService) GetClasses(ctx context.Context, filter ClassFilter) ([]Class, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]Class), args.Error(1)
}

func (m *MockService) GetSchedules(ctx context.Context, filter ScheduleFilter) ([]ScheduleWithClass, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ScheduleWithClass), args.Error(1)
}

func (m *MockService) CreateSchedule(ctx context.Context, req CreateScheduleRequest) (*Schedule, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Schedule), args.Error(1)
}

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc)
	r.GET("/api/gyms", h.ListGyms)
	r.GET("/api/gyms/search", h.SearchGyms)
	r.GET("/api/gyms/nearby", h.NearbyGyms)
	r.GET("/api/gyms/:id", h.GetGym)
	r.GET("/api/classes", h.ListClasses)
	r.GET("/api/classes/schedules", h.ListSchedules)
	r.POST("/api/admin/schedules", h.CreateSchedule)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGetGym_Handler(t *testing.T) {
	svc := new(MockService)
	svc.On("GetGymByID", mock.Anything, int64(1)).Return(&Gym{ID: 1, Name: "Downtown"}, nil)
	svc.On("GetGymByID", mock.Anything, int64(2)).Return(nil, apperr.NotFound("Gym"))
	r := setupRouter(svc)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"found", "/api/gyms/1", http.StatusOK, `"name":"Downtown"`},
		{"missing", "/api/gyms/2", http.StatusNotFound, `"code":"NOT_FOUND"`},
		{"bad id", "/api/gyms/abc", http.StatusBadRequest, `"code":"VALIDATION_ERROR"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.path)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestSearchGyms_Handler(t *testing.T) {
	svc := new(MockService)
	svc.On("SearchGyms", mock.Anything, SearchQuery{Q: "main", City: "Berlin"}).Return([]Gym{{ID: 1}}, nil)
	r := setupRouter(svc)

	w := get(r, "/api/gyms/search?q=main&city=Berlin")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"query":"main"`)

	w = get(r, "/api/gyms/search")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "fieldErrors")
}

func TestNearbyGyms_Handler(t *testing.T) {
	svc := new(MockService)
	svc.On("NearbyGyms", mock.Anything, mock.MatchedBy(func(q NearbyQuery) bool {
		return *q.Lat == 52.5 && *q.Lng == 13.4
	})).Return([]GymWithDistance{{Gym: Gym{ID: 1}, Distance: 1.25}}, nil)
	r := setupRouter(svc)

	w := get(r, "/api/gyms/nearby?lat=52.5&lng=13.4")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"radiusKm":10`)
	assert.Contains(t, w.Body.String(), `"distance":1.25`)
	assert.Contains(t, w.Body.String(), `"center":{"lat":52.5,"lng":13.4}`)

	tests := []string{
		"/api/gyms/nearby?lng=13.4",
		"/api/gyms/nearby?lat=91&lng=13.4",
		"/api/gyms/nearby?lat=52.5&lng=13.4&radius=-1",
	}
	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, get(r, path).Code)
		})
	}
}

func TestListSchedules_Handler(t *testing.T) {
	svc := new(MockService)
	svc.On("GetSchedules", mock.Anything, ScheduleFilter{GymID: 3, Date: "2024-03-15"}).Return([]ScheduleWithClass{}, nil)
	r := setupRouter(svc)

	w := get(r, "/api/classes/schedules?gymId=3&date=2024-03-15")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"schedules":[]}}`, w.Body.String())

	w = get(r, "/api/classes/schedules?date=tomorrow")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateSchedule_Handler(t *testing.T) {
	svc := new(MockService)
	svc.On("CreateSchedule", mock.Anything, CreateScheduleRequest{ClassID: 4, ScheduledAt: "2024-03-14T18:00:00Z", Capacity: 12}).
		Return(&Schedule{ID: 30, ClassID: 4, Capacity: 12, SpotsRemaining: 12}, nil)
	r := setupRouter(svc)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"created", `{"classId":4,"scheduledAt":"2024-03-14T18:00:00Z","capacity":12}`, http.StatusCreated},
		{"negative capacity", `{"classId":4,"scheduledAt":"2024-03-14T18:00:00Z","capacity":-1}`, http.StatusBadRequest},
		{"missing class", `{"scheduledAt":"2024-03-14T18:00:00Z"}`, http.StatusBadRequest},
		{"bad time", `{"classId":4,"scheduledAt":"soon"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/schedules", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
