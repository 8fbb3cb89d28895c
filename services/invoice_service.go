package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel-frontdesk/billing"
	"hotel-frontdesk/models"

	"github.com/go-pdf/fpdf"
	"gorm.io/gorm"
)

// InvoiceService renders the guest invoice. A closed stay prints the bill
// accepted at checkout; an open stay prints a pro-forma priced with
// ProformaRates and no adjustments.
type InvoiceService struct {
	DB            *gorm.DB
	Settings      *SettingsService
	ProformaRates billing.Rates
	Currency      string
	Now           func() time.Time
}

func NewInvoiceService(db *gorm.DB, settings *SettingsService, proforma billing.Rates, currency string) *InvoiceService {
	if settings == nil {
		settings = NewSettingsService(db)
	}
	if currency == "" {
		currency = "RUPEES"
	}
	return &InvoiceService{DB: db, Settings: settings, ProformaRates: proforma, Currency: currency, Now: time.Now}
}

type Invoice struct {
	Title     string
	Number    string
	Hotel     models.HotelSetting
	Guest     models.Guest
	Breakdown billing.BillBreakdown
	Words     string
	IssuedAt  time.Time
}

// Build assembles the invoice data for a stay.
func (s *InvoiceService) Build(ctx context.Context, guestID uint) (Invoice, error) {
	var guest models.Guest
	err := s.DB.WithContext(ctx).First(&guest, guestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Invoice{}, ErrGuestNotFound
	}
	if err != nil {
		return Invoice{}, err
	}

	hotel, err := s.Settings.Hotel(ctx)
	if err != nil {
		return Invoice{}, err
	}

	inv := Invoice{
		Hotel:    hotel,
		Guest:    guest,
		Number:   fmt.Sprintf("INV-%06d", guest.ID),
		IssuedAt: time.Now(),
	}
	if s.Now != nil {
		inv.IssuedAt = s.Now()
	}

	if !guest.IsOpen() && len(guest.FinalBill) > 0 {
		if err := json.Unmarshal(guest.FinalBill, &inv.Breakdown); err != nil {
			return Invoice{}, fmt.Errorf("decode final bill for guest %d: %w", guest.ID, err)
		}
		inv.Title = "TAX INVOICE"
		if guest.CheckedOutAt != nil {
			inv.IssuedAt = *guest.CheckedOutAt
		}
	} else {
		var room models.Room
		if err := s.DB.WithContext(ctx).Unscoped().First(&room, guest.RoomID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return Invoice{}, err
		}
		bill, err := billing.Calculate(guest.BillingStay(""), billing.Adjustments{}, roomBaseRate(guest, room), s.ProformaRates)
		if err != nil {
			return Invoice{}, err
		}
		inv.Breakdown = bill
		inv.Title = "PRO-FORMA INVOICE"
		inv.Number = "PF-" + strings.TrimPrefix(inv.Number, "INV-")
	}

	inv.Words = billing.AmountInWords(inv.Breakdown.TotalAmountDisplay.IntPart(), s.Currency)
	return inv, nil
}

// RenderPDF builds the invoice and returns the PDF bytes and a file name.
func (s *InvoiceService) RenderPDF(ctx context.Context, guestID uint) ([]byte, string, error) {
	inv, err := s.Build(ctx, guestID)
	if err != nil {
		return nil, "", err
	}
	data, err := renderInvoicePDF(inv)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("%s.pdf", strings.ToLower(inv.Number)), nil
}

var categoryLabels = map[billing.Category]string{
	billing.CategoryRoomRent:     "Room Rent",
	billing.CategoryExtraBed:     "Extra Bed",
	billing.CategoryFooding:      "Fooding",
	billing.CategoryLaundry:      "Laundry",
	billing.CategoryLateCheckout: "Late Checkout",
}

func displayDate(storage string) string {
	d, err := billing.NormalizeDisplay(storage)
	if err != nil {
		return storage
	}
	return d
}

func renderInvoicePDF(inv Invoice) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ---------------- Header ----------------
	name := inv.Hotel.Name
	if name == "" {
		name = "Hotel"
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 8, name, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, l := range []string{inv.Hotel.Address, inv.Hotel.Phone, inv.Hotel.Email} {
		if strings.TrimSpace(l) != "" {
			pdf.CellFormat(contentW, 5, l, "", 1, "C", false, 0, "")
		}
	}
	if inv.Hotel.GSTIN != "" {
		pdf.CellFormat(contentW, 5, "GSTIN: "+inv.Hotel.GSTIN, "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, inv.Title, "TB", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ---------------- Stay ----------------
	b := inv.Breakdown
	half := contentW / 2
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(half, 5, "Invoice No: "+inv.Number, "", 0, "L", false, 0, "")
	pdf.CellFormat(half, 5, "Date: "+inv.IssuedAt.Format(billing.DisplayLayout), "", 1, "R", false, 0, "")
	pdf.CellFormat(half, 5, "Guest: "+inv.Guest.FullName, "", 0, "L", false, 0, "")
	pdf.CellFormat(half, 5, "Room: "+b.RoomNumber, "", 1, "R", false, 0, "")
	pdf.CellFormat(half, 5, "Check-in: "+displayDate(b.CheckInDate), "", 0, "L", false, 0, "")
	pdf.CellFormat(half, 5, "Check-out: "+displayDate(b.CheckOutDate), "", 1, "R", false, 0, "")
	pdf.CellFormat(half, 5, fmt.Sprintf("Nights: %d", b.Days), "", 0, "L", false, 0, "")
	rate := "Rate/Day: " + b.PerDayRate.StringFixed(2)
	if b.Complimentary {
		rate = "Complimentary"
	}
	pdf.CellFormat(half, 5, rate, "", 1, "R", false, 0, "")
	pdf.Ln(3)

	// ---------------- Lines ----------------
	cols := []float64{contentW * 0.28, contentW * 0.16, contentW * 0.10, contentW * 0.16, contentW * 0.15, contentW * 0.15}
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range []string{"Description", "Taxable", "GST %", "CGST", "SGST", "Amount"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(cols[i], 6, h, "B", 0, align, false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, l := range b.Lines() {
		if l.Amount.IsZero() {
			continue
		}
		pdf.CellFormat(cols[0], 6, categoryLabels[l.Category], "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], 6, l.Taxable.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[2], 6, l.RatePercent.String(), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[3], 6, l.CGST.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[4], 6, l.SGST.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[5], 6, l.Amount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	// ---------------- Totals ----------------
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(cols[0], 6, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(cols[1], 6, b.TotalTaxable.StringFixed(2), "T", 0, "R", false, 0, "")
	pdf.CellFormat(cols[2], 6, "", "T", 0, "R", false, 0, "")
	pdf.CellFormat(cols[3], 6, b.TotalCGST.StringFixed(2), "T", 0, "R", false, 0, "")
	pdf.CellFormat(cols[4], 6, b.TotalSGST.StringFixed(2), "T", 0, "R", false, 0, "")
	pdf.CellFormat(cols[5], 6, b.TotalAmount.StringFixed(2), "T", 1, "R", false, 0, "")

	labelW := contentW - cols[5]
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(labelW, 6, "Round off", "", 0, "R", false, 0, "")
	pdf.CellFormat(cols[5], 6, b.RoundOff.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(labelW, 7, "Grand Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(cols[5], 7, b.TotalAmountDisplay.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(contentW, 5, "Amount in words: "+inv.Words, "", "L", false)

	if !inv.Guest.AmountPaid.IsZero() {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(labelW, 6, "Paid", "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[5], 6, inv.Guest.AmountPaid.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, "Thank you for staying with us.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render invoice %s: %w", inv.Number, err)
	}
	return buf.Bytes(), nil
}
