package bookinghttp

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sevaqueue/seva-api/internal/handler"
	"github.com/sevaqueue/seva-api/internal/model"
	"github.com/sevaqueue/seva-api/internal/service/booking"
	"github.com/sevaqueue/seva-api/internal/service/otp"
)

type Handler struct {
	service *booking.Service
	otpSvc  *otp.Service
	sender  OTPSender
}

// OTPSender delivers a generated code to the citizen.
type OTPSender interface {
	Send(to, subject, body string) error
}

func NewHandler(service *booking.Service, otpSvc *otp.Service, sender OTPSender) *Handler {
	return &Handler{service: service, otpSvc: otpSvc, sender: sender}
}

type requestOTPBody struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestOTP issues a verification code and emails it to the citizen.
func (h *Handler) RequestOTP(c *gin.Context) {
	var req requestOTPBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	code, err := h.otpSvc.Generate(req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to generate code"})
		return
	}

	body := "Your verification code is " + code + ". It expires in a few minutes."
	if err := h.sender.Send(req.Email, "Your booking verification code", body); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to deliver code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	booked, err := h.service.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": booked})
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid booking ID"})
		return
	}

	booked, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": booked})
}

func (h *Handler) ListBookings(c *gin.Context) {
	filters := &model.BookingFilters{
		DepartmentID: c.Query("department_id"),
		CitizenEmail: c.Query("citizen_email"),
	}

	if status := c.Query("status"); status != "" {
		filters.Status = model.BookingStatus(status)
	}

	if dateStr := c.Query("date"); dateStr != "" {
		date, err := h.service.ParseDate(dateStr)
		if err != nil {
			handler.RespondError(c, err)
			return
		}
		filters.Date = &date
	}

	bookings, err := h.service.ListBookings(c.Request.Context(), filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": bookings})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid booking ID"})
		return
	}

	if err := h.service.CancelBooking(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// CompleteBooking is the clerk action that marks a token as served.
func (h *Handler) CompleteBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid booking ID"})
		return
	}

	if err := h.service.CompleteBooking(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// RegisterRoutes registers the public citizen-facing routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("/otp", h.RequestOTP)
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.DELETE("/:id", h.CancelBooking)
	}
}

// RegisterClerkRoutes registers routes that require clerk auth.
func (h *Handler) RegisterClerkRoutes(r *gin.RouterGroup) {
	r.POST("/bookings/:id/complete", h.CompleteBooking)
}
