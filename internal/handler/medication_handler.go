package handler

import (
	"errors"
	"net/http"
	"strconv"

	"medtracker/internal/middleware"
	"medtracker/internal/model"
	"medtracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// MedicationHandler handles medication and adherence requests
type MedicationHandler struct {
	service service.MedicationService
}

// NewMedicationHandler creates a new MedicationHandler
func NewMedicationHandler(s service.MedicationService) *MedicationHandler {
	return &MedicationHandler{service: s}
}

// Helper to get authenticated user ID from context
func getAuthUserID(c *gin.Context) (int64, error) {
	userIDVal, exists := c.Get(middleware.AuthUserKey)
	if !exists {
		return 0, errors.New("user ID not found in context")
	}
	userID, ok := userIDVal.(int64)
	if !ok {
		return 0, errors.New("invalid user ID type in context")
	}
	return userID, nil
}

func (h *MedicationHandler) AddMedication(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req model.CreateMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	medication, err := h.service.AddMedication(c.Request.Context(), userID, req)
	if err != nil {
		logrus.WithField("user_id", userID).WithError(err).Error("Error adding medication")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add medication"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Medication added",
		"medication": medication,
	})
}

func (h *MedicationHandler) ListMedications(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	medications, err := h.service.ListMedications(c.Request.Context(), userID)
	if err != nil {
		logrus.WithField("user_id", userID).WithError(err).Error("Error listing medications")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve medications"})
		return
	}
	if medications == nil {
		medications = []model.Medication{}
	}
	c.JSON(http.StatusOK, medications)
}

func (h *MedicationHandler) MarkTaken(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	medicationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || medicationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid medication ID"})
		return
	}

	if _, err := h.service.MarkTaken(c.Request.Context(), userID, medicationID); err != nil {
		if errors.Is(err, service.ErrMedicationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": userID, "medication_id": medicationID}).
			WithError(err).Error("Error marking medication taken")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark medication as taken"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Marked as taken for today"})
}

func (h *MedicationHandler) GetAdherence(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	adherence, err := h.service.GetAdherence(c.Request.Context(), userID)
	if err != nil {
		logrus.WithField("user_id", userID).WithError(err).Error("Error computing adherence")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute adherence"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"adherence": adherence})
}

// RegisterMedicationRoutes registers medication and adherence routes behind authMW
func (h *MedicationHandler) RegisterMedicationRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	medGroup := rg.Group("/medications")
	medGroup.Use(authMW)
	{
		medGroup.POST("", h.AddMedication)
		medGroup.GET("", h.ListMedications)
		medGroup.PUT("/:id/taken", h.MarkTaken)
	}
	rg.GET("/adherence", authMW, h.GetAdherence)
}
