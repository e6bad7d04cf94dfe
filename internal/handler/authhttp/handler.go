package authhttp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sevaqueue/seva-api/internal/handler"
	"github.com/sevaqueue/seva-api/internal/model"
	"github.com/sevaqueue/seva-api/internal/service/auth"
)

type Handler struct {
	service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": resp})
}

// CreateClerk provisions a clerk or admin account. Admin only.
func (h *Handler) CreateClerk(c *gin.Context) {
	var req model.CreateClerkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	clerk, err := h.service.CreateClerk(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": clerk})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.Login)
}

// RegisterAdminRoutes registers routes restricted to admin clerks.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.POST("/clerks", h.CreateClerk)
}
