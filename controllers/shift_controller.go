package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"hotel-frontdesk/middleware"
	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"

	"github.com/gin-gonic/gin"
)

type ShiftController struct {
	Stays *services.StayService
}

func NewShiftController(stays *services.StayService) *ShiftController {
	return &ShiftController{Stays: stays}
}

// POST /api/shifts
func (sc *ShiftController) CreateShift(c *gin.Context) {
	var in services.ShiftInput
	if !bindAndValidate(c, &in) {
		return
	}
	if strings.TrimSpace(in.AuthorizedBy) == "" {
		if claims := middleware.GetClaims(c); claims != nil {
			in.AuthorizedBy = claims.Username
		}
	}

	event, err := sc.Stays.Shift(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, event)
}

// GET /api/shifts?roomId=
func (sc *ShiftController) GetShifts(c *gin.Context) {
	var roomID uint
	if raw := c.Query("roomId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid roomId")
			return
		}
		roomID = uint(id)
	}
	shifts, err := sc.Stays.ListShifts(c.Request.Context(), roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, shifts)
}
