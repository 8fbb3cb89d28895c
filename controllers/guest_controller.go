package controllers

import (
	"fmt"
	"net/http"

	"hotel-frontdesk/billing"
	"hotel-frontdesk/services"
	"hotel-frontdesk/utils"

	"github.com/gin-gonic/gin"
)

// GuestController serves the stay lifecycle: check-in, bill preview,
// checkout, notes and invoices.
type GuestController struct {
	Stays    *services.StayService
	Invoices *services.InvoiceService
}

func NewGuestController(stays *services.StayService, invoices *services.InvoiceService) *GuestController {
	return &GuestController{Stays: stays, Invoices: invoices}
}

type billPreviewPayload struct {
	CheckOutDate string `json:"checkOutDate"`
	billing.Adjustments
}

type notesPayload struct {
	Notes string `json:"notes"`
}

func (gc *GuestController) GetGuests(c *gin.Context) {
	guests, err := gc.Stays.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, guests)
}

func (gc *GuestController) GetGuest(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	guest, err := gc.Stays.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, guest)
}

// POST /api/guests
func (gc *GuestController) CheckIn(c *gin.Context) {
	var in services.CheckInInput
	if !bindAndValidate(c, &in) {
		return
	}
	guest, err := gc.Stays.CheckIn(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, guest)
}

// POST /api/guests/:id/bill-preview
func (gc *GuestController) PreviewBill(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload billPreviewPayload
	if !bindAndValidate(c, &payload) {
		return
	}
	bill, err := gc.Stays.PreviewBill(c.Request.Context(), id, payload.CheckOutDate, payload.Adjustments)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bill)
}

// POST /api/guests/:id/checkout
func (gc *GuestController) Checkout(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var in services.CheckoutInput
	if !bindAndValidate(c, &in) {
		return
	}
	res, err := gc.Stays.Checkout(c.Request.Context(), id, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// PATCH /api/guests/:id/notes
func (gc *GuestController) UpdateNotes(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload notesPayload
	if !bindAndValidate(c, &payload) {
		return
	}
	guest, err := gc.Stays.UpdateNotes(c.Request.Context(), id, payload.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, guest)
}

// GET /api/guests/:id/invoice.pdf
func (gc *GuestController) Invoice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	data, name, err := gc.Invoices.RenderPDF(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	c.Data(http.StatusOK, "application/pdf", data)
}
