package controllers

import (
	"net/http"

	"hotel-frontdesk/models"
	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	Settings *services.SettingsService
}

func NewSettingsController(settings *services.SettingsService) *SettingsController {
	return &SettingsController{Settings: settings}
}

type hotelSettingsPayload struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Website string `json:"website"`
	Logo    string `json:"logo"`
	GSTIN   string `json:"gstin" validate:"omitempty,len=15"`
}

func (sc *SettingsController) GetHotelSettings(c *gin.Context) {
	hotel, err := sc.Settings.Hotel(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"hotel": hotel})
}

func (sc *SettingsController) UpdateHotelSettings(c *gin.Context) {
	var payload hotelSettingsPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	hotel, err := sc.Settings.SaveHotel(c.Request.Context(), models.HotelSetting{
		Name:    payload.Name,
		Address: payload.Address,
		Phone:   payload.Phone,
		Email:   payload.Email,
		Website: payload.Website,
		Logo:    payload.Logo,
		GSTIN:   payload.GSTIN,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"hotel": hotel})
}
