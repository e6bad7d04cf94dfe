package chatbothttp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sevaqueue/seva-api/internal/model"
	"github.com/sevaqueue/seva-api/internal/service/chatbot"
)

type Handler struct {
	service *chatbot.Service
}

func NewHandler(service *chatbot.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Query(c *gin.Context) {
	var req model.ChatQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": h.service.Query(req.Message)})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/chatbot/query", h.Query)
}
