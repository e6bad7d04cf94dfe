package slots

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sevaqueue/seva-api/internal/handler"
	"github.com/sevaqueue/seva-api/internal/service/booking"
	"github.com/sevaqueue/seva-api/internal/slot"
)

type Handler struct {
	service *booking.Service
	slots   *slot.Manager
}

func NewHandler(service *booking.Service, slots *slot.Manager) *Handler {
	return &Handler{service: service, slots: slots}
}

func (h *Handler) ListDepartments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": h.slots.Departments()})
}

func (h *Handler) GetDepartment(c *gin.Context) {
	cfg, ok := h.slots.GetDepartmentConfig(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "department not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"departmentConfig": cfg}})
}

// GetSlots returns the full availability grid for a date.
func (h *Handler) GetSlots(c *gin.Context) {
	avail, ok := h.resolve(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{
		"slots":        avail.Slots,
		"capacityInfo": avail.CapacityInfo,
	}})
}

// GetSuggestions returns the bounded open-slot suggestions plus the
// capacity summary and department configuration in one response.
func (h *Handler) GetSuggestions(c *gin.Context) {
	avail, ok := h.resolve(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{
		"suggestedSlots":   avail.SuggestedSlots,
		"capacityInfo":     avail.CapacityInfo,
		"departmentConfig": avail.DepartmentConfig,
	}})
}

func (h *Handler) GetCapacity(c *gin.Context) {
	avail, ok := h.resolve(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{
		"capacityInfo": avail.CapacityInfo,
	}})
}

func (h *Handler) GetWaitTime(c *gin.Context) {
	avail, ok := h.resolve(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{
		"waitTimeMinutes": avail.WaitTimeMinutes,
	}})
}

func (h *Handler) resolve(c *gin.Context) (*booking.Availability, bool) {
	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "date query parameter is required"})
		return nil, false
	}

	date, err := h.service.ParseDate(dateStr)
	if err != nil {
		handler.RespondError(c, err)
		return nil, false
	}

	avail, err := h.service.GetAvailability(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		handler.RespondError(c, err)
		return nil, false
	}
	return avail, true
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	departments := r.Group("/departments")
	{
		departments.GET("", h.ListDepartments)
		departments.GET("/:id", h.GetDepartment)
		departments.GET("/:id/slots", h.GetSlots)
		departments.GET("/:id/suggestions", h.GetSuggestions)
		departments.GET("/:id/capacity", h.GetCapacity)
		departments.GET("/:id/wait-time", h.GetWaitTime)
	}
}
