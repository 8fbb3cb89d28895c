package models

import (
	"time"

	"hotel-frontdesk/billing"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StayCheckedIn  = "checked_in"
	StayCheckedOut = "checked_out"
)

// Guest is one guest's stay in one room.
type Guest struct {
	gorm.Model

	FullName string `json:"fullName" gorm:"size:255"`
	Phone    string `json:"phone" gorm:"size:50"`
	Email    string `json:"email" gorm:"size:150"`
	IDType   string `json:"idType" gorm:"size:50"`
	IDNumber string `json:"idNumber" gorm:"size:100"`

	RoomID     uint   `json:"roomId" gorm:"index"`
	RoomNumber string `json:"roomNumber" gorm:"size:50"`

	// year-first, see billing.StorageLayout
	CheckInDate  string `json:"checkInDate" gorm:"size:10"`
	CheckOutDate string `json:"checkOutDate" gorm:"size:10"`

	RatePerDay    decimal.Decimal                       `json:"ratePerDay" gorm:"type:decimal(12,2)"`
	TotalAmount   decimal.Decimal                       `json:"totalAmount" gorm:"type:decimal(12,2)"`
	ExtraBeds     datatypes.JSONSlice[billing.ExtraBed] `json:"extraBeds"`
	Complimentary bool                                  `json:"complimentary"`
	AmountPaid    decimal.Decimal                       `json:"amountPaid" gorm:"type:decimal(12,2)"`
	BilledAmount  decimal.Decimal                       `json:"billedAmount" gorm:"type:decimal(12,2)"`

	Status       string         `json:"status" gorm:"size:20;default:checked_in;index"`
	FinalBill    datatypes.JSON `json:"finalBill,omitempty"`
	CheckedOutAt *time.Time     `json:"checkedOutAt,omitempty"`
	Notes        string         `json:"notes" gorm:"type:text"`
}

func (g Guest) IsOpen() bool {
	return g.Status == StayCheckedIn
}

// BillingStay is the snapshot the billing calculator prices.
func (g Guest) BillingStay(checkOutDate string) billing.Stay {
	if checkOutDate == "" {
		checkOutDate = g.CheckOutDate
	}
	return billing.Stay{
		CheckInDate:   g.CheckInDate,
		CheckOutDate:  checkOutDate,
		RoomNumber:    g.RoomNumber,
		TotalAmount:   g.TotalAmount,
		ExtraBeds:     []billing.ExtraBed(g.ExtraBeds),
		Complimentary: g.Complimentary,
	}
}
