package slots

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevaqueue/seva-api/internal/model"
	"github.com/sevaqueue/seva-api/internal/service/booking"
	"github.com/sevaqueue/seva-api/internal/service/otp"
	"github.com/sevaqueue/seva-api/internal/slot"
	"github.com/sevaqueue/seva-api/pkg/logger"
	"github.com/sevaqueue/seva-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("test", "slots_handler")

type stubBookingRepo struct {
	bookings []*model.Booking
}

func (r *stubBookingRepo) Create(context.Context, *model.Booking) error { return nil }
func (r *stubBookingRepo) Get(context.Context, uuid.UUID) (*model.Booking, error) {
	return nil, fmt.Errorf("not implemented")
}
func (r *stubBookingRepo) List(context.Context, *model.BookingFilters) ([]*model.Booking, error) {
	return r.bookings, nil
}
func (r *stubBookingRepo) ListActiveForDepartment(context.Context, string) ([]*model.Booking, error) {
	return r.bookings, nil
}
func (r *stubBookingRepo) UpdateStatus(context.Context, uuid.UUID, model.BookingStatus) error {
	return nil
}
func (r *stubBookingRepo) NextTokenNumber(context.Context, string, time.Time) (int, error) {
	return 1, nil
}
func (r *stubBookingRepo) ListDueForReminder(context.Context, time.Time, time.Time) ([]*model.Booking, error) {
	return nil, nil
}
func (r *stubBookingRepo) MarkReminderSent(context.Context, uuid.UUID) error { return nil }

type stubOutboxRepo struct{}

func (stubOutboxRepo) Create(context.Context, *model.OutboxEvent) error { return nil }
func (stubOutboxRepo) GetPendingEvents(context.Context, int) ([]*model.OutboxEvent, error) {
	return nil, nil
}
func (stubOutboxRepo) UpdateStatus(context.Context, uuid.UUID, model.OutboxStatus, *string) error {
	return nil
}

func newTestRouter(t *testing.T, bookings []*model.Booking) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager, err := slot.NewManager([]model.DepartmentConfig{{
		ID:   "revenue",
		Name: "Revenue Department",
		WorkingHours: model.WorkingHours{
			Start: "08:00", End: "20:00",
			LunchStart: "13:00", LunchEnd: "14:00",
		},
		ServiceTimeMinutes: 30,
		MaxDailyCapacity:   22,
		SlotsPerBooking:    3,
	}}, time.UTC)
	require.NoError(t, err)

	otpSvc := otp.NewService(time.Minute, logger.NewLogger(nil))
	svc := booking.NewService(&stubBookingRepo{bookings: bookings}, stubOutboxRepo{}, manager, otpSvc, logger.NewLogger(nil), testMetrics)

	engine := gin.New()
	NewHandler(svc, manager).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, path string) (int, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	engine.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestGetSuggestions_ResponseContract(t *testing.T) {
	date := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	engine := newTestRouter(t, []*model.Booking{{
		DepartmentID:    "revenue",
		AppointmentDate: date,
		TimeSlot:        "08:00",
		Status:          model.BookingStatusScheduled,
	}})

	code, body := doRequest(t, engine, "/api/v1/departments/revenue/suggestions?date=2026-03-09")
	require.Equal(t, http.StatusOK, code)

	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)

	suggested, ok := data["suggestedSlots"].([]interface{})
	require.True(t, ok)
	assert.Len(t, suggested, 3)
	first := suggested[0].(map[string]interface{})
	assert.Equal(t, "08:30", first["startTime"])
	assert.Equal(t, true, first["available"])

	capacity, ok := data["capacityInfo"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(22), capacity["totalCapacity"])
	assert.Equal(t, float64(1), capacity["booked"])
	assert.Equal(t, float64(21), capacity["available"])
	assert.Equal(t, float64(5), capacity["percentage"])

	deptCfg, ok := data["departmentConfig"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "revenue", deptCfg["id"])
}

func TestGetSlots(t *testing.T) {
	engine := newTestRouter(t, nil)

	code, body := doRequest(t, engine, "/api/v1/departments/revenue/slots?date=2026-03-09")
	require.Equal(t, http.StatusOK, code)

	data := body["data"].(map[string]interface{})
	slots := data["slots"].([]interface{})
	assert.Len(t, slots, 22)
}

func TestGetSlots_MissingDate(t *testing.T) {
	engine := newTestRouter(t, nil)

	code, _ := doRequest(t, engine, "/api/v1/departments/revenue/slots")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGetSlots_BadDate(t *testing.T) {
	engine := newTestRouter(t, nil)

	code, _ := doRequest(t, engine, "/api/v1/departments/revenue/slots?date=next-tuesday")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGetSlots_UnknownDepartment(t *testing.T) {
	engine := newTestRouter(t, nil)

	code, _ := doRequest(t, engine, "/api/v1/departments/nowhere/slots?date=2026-03-09")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGetWaitTime(t *testing.T) {
	date := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)
	engine := newTestRouter(t, []*model.Booking{
		{DepartmentID: "revenue", AppointmentDate: date, TimeSlot: "08:00"},
		{DepartmentID: "revenue", AppointmentDate: date, TimeSlot: "08:30"},
	})

	code, body := doRequest(t, engine, "/api/v1/departments/revenue/wait-time?date=2026-03-09")
	require.Equal(t, http.StatusOK, code)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(60), data["waitTimeMinutes"])
}

func TestListDepartments(t *testing.T) {
	engine := newTestRouter(t, nil)

	code, body := doRequest(t, engine, "/api/v1/departments")
	require.Equal(t, http.StatusOK, code)

	depts := body["data"].([]interface{})
	require.Len(t, depts, 1)
	assert.Equal(t, "revenue", depts[0].(map[string]interface{})["id"])
}

func TestGetDepartment_NotFound(t *testing.T) {
	engine := newTestRouter(t, nil)

	code, _ := doRequest(t, engine, "/api/v1/departments/nowhere")
	assert.Equal(t, http.StatusNotFound, code)
}
