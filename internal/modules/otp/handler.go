package otp

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"signal_bot/internal/modules/otp/service"
	"signal_bot/pkg/logger"
)

type submitRequest struct {
	OTP string `json:"otp" binding:"required"`
}

// Handler принимает код подтверждения Telegram: POST /otp {"otp": "12345"}.
type Handler struct {
	relay *service.Relay
}

func NewHandler(relay *service.Relay) *Handler {
	return &Handler{relay: relay}
}

func (h *Handler) Register(r gin.IRouter) {
	r.POST("/otp", h.Submit)
}

func (h *Handler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "OTP is required"})
		return
	}

	switch err := h.relay.Submit(req.OTP); {
	case errors.Is(err, service.ErrEmptyCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "OTP is required"})
	case errors.Is(err, service.ErrCodePending):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		logger.Info("otp received")
		c.JSON(http.StatusOK, gin.H{"message": "OTP received"})
	}
}
