package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nnikochann/numero-tg/internal/numerology"
)

// personPayload es el par fecha/nombre que exigen los cálculos.
type personPayload struct {
	Birthdate string `json:"birthdate" binding:"required"`
	FIO       string `json:"fio" binding:"required"`
}

// NumerologyHandler expone el motor de cálculo puro, sin diálogo ni BD.
type NumerologyHandler struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewNumerologyHandler(logger *zap.Logger) *NumerologyHandler {
	return &NumerologyHandler{logger: logger, now: time.Now}
}

// CalculateProfile maneja POST /numerology.
func (h *NumerologyHandler) CalculateProfile(c *gin.Context) {
	var req personPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid numerology request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	profile, err := numerology.Calculate(req.Birthdate, req.FIO, h.now().Year())
	if err != nil {
		if errors.Is(err, numerology.ErrInvalidDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid birthdate, expected YYYY-MM-DD"})
			return
		}
		h.logger.Error("profile calculation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not calculate profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// CalculateCompatibility maneja POST /compatibility.
func (h *NumerologyHandler) CalculateCompatibility(c *gin.Context) {
	var req struct {
		Person1 personPayload `json:"person1" binding:"required"`
		Person2 personPayload `json:"person2" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid compatibility request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := numerology.CalculateCompatibility(
		req.Person1.Birthdate, req.Person1.FIO,
		req.Person2.Birthdate, req.Person2.FIO,
		h.now().Year(),
	)
	if err != nil {
		if errors.Is(err, numerology.ErrInvalidDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid birthdate, expected YYYY-MM-DD"})
			return
		}
		h.logger.Error("compatibility calculation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not calculate compatibility"})
		return
	}

	c.JSON(http.StatusOK, result)
}
