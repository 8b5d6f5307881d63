package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medicine-chatbot-backend/logger"
	"medicine-chatbot-backend/services"
)

type MedicineController struct {
	medicineService *services.MedicineService
}

func NewMedicineController(medicineService *services.MedicineService) *MedicineController {
	return &MedicineController{
		medicineService: medicineService,
	}
}

// GetMedicine returns a single catalog document
func (mc *MedicineController) GetMedicine(c *gin.Context) {
	medicine, err := mc.medicineService.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, services.ErrMedicineNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Medicine not found"})
		return
	}
	if err != nil {
		logger.Log.Error().Err(err).Str("id", c.Param("id")).Msg("Failed to fetch medicine")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch medicine",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, medicine)
}
