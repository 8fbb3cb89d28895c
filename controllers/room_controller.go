package controllers

import (
	"net/http"
	"strings"

	"hotel-frontdesk/models"
	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type RoomController struct {
	Rooms *services.RoomService
}

func NewRoomController(rooms *services.RoomService) *RoomController {
	return &RoomController{Rooms: rooms}
}

type createRoomPayload struct {
	RoomNumber   string          `json:"roomNumber" validate:"required"`
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	Floor        string          `json:"floor"`
	Price        decimal.Decimal `json:"price" validate:"min=0"`
	MaxOccupancy int             `json:"maxOccupancy" validate:"min=0"`
	Description  string          `json:"description"`
	Amenities    []string        `json:"amenities"`
}

type roomStatusPayload struct {
	Status string `json:"status" validate:"required"`
}

// ----------------------------------------------------
// GET /api/rooms?status=
// ----------------------------------------------------
func (rc *RoomController) GetRooms(c *gin.Context) {
	rooms, err := rc.Rooms.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// ----------------------------------------------------
// GET /api/rooms/:id
// ----------------------------------------------------
func (rc *RoomController) GetRoom(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	room, err := rc.Rooms.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// ----------------------------------------------------
// POST /api/rooms
// ----------------------------------------------------
func (rc *RoomController) CreateRoom(c *gin.Context) {
	var payload createRoomPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	room := models.Room{
		RoomNumber:   strings.TrimSpace(payload.RoomNumber),
		Type:         payload.Type,
		Status:       payload.Status,
		Floor:        payload.Floor,
		Price:        payload.Price,
		MaxOccupancy: payload.MaxOccupancy,
		Description:  payload.Description,
		Amenities:    datatypes.JSONSlice[string](payload.Amenities),
	}
	if err := rc.Rooms.Create(c.Request.Context(), &room); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

// ----------------------------------------------------
// PUT|PATCH /api/rooms/:id
// ----------------------------------------------------
func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var patch services.RoomPatch
	if !bindAndValidate(c, &patch) {
		return
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		utils.JSONError(c, http.StatusBadRequest, "price must not be negative")
		return
	}

	room, err := rc.Rooms.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// ----------------------------------------------------
// PATCH /api/rooms/:id/status
// ----------------------------------------------------
func (rc *RoomController) UpdateRoomStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload roomStatusPayload
	if !bindAndValidate(c, &payload) {
		return
	}

	room, err := rc.Rooms.ChangeStatus(c.Request.Context(), id, payload.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// ----------------------------------------------------
// GET /api/rooms/:id/can-transition?status=
// ----------------------------------------------------
func (rc *RoomController) CanTransition(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	status := c.Query("status")
	if status == "" {
		utils.JSONError(c, http.StatusBadRequest, "status is required")
		return
	}

	err := rc.Rooms.CanTransition(c.Request.Context(), id, status)
	if err != nil && statusFor(err) != http.StatusConflict {
		respondServiceError(c, err)
		return
	}
	resp := gin.H{"allowed": err == nil}
	if err != nil {
		resp["reason"] = err.Error()
	}
	utils.JSONSuccess(c, http.StatusOK, resp)
}

// ----------------------------------------------------
// DELETE /api/rooms/:id
// ----------------------------------------------------
func (rc *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := rc.Rooms.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "room deleted"})
}
