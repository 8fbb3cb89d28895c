package models

import (
	"hotel-frontdesk/roomstate"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Room struct {
	gorm.Model

	RoomNumber string `json:"roomNumber" gorm:"column:room_number;uniqueIndex;type:varchar(50)"`

	Type         string                      `json:"type"`
	Status       string                      `json:"status" gorm:"type:varchar(20);default:available;index"`
	Floor        string                      `json:"floor" gorm:"type:varchar(10)"`
	Price        decimal.Decimal             `json:"price" gorm:"type:decimal(12,2)"`
	MaxOccupancy int                         `json:"maxOccupancy" gorm:"column:max_occupancy"`
	Description  string                      `json:"description" gorm:"type:text"`
	Amenities    datatypes.JSONSlice[string] `json:"amenities"`

	// GuestID is set exactly when Status is occupied.
	GuestID *uint `json:"guestId,omitempty" gorm:"column:guest_id;index"`
	// Version is bumped on every status write; writes compare-and-set on it.
	Version int64 `json:"version" gorm:"not null;default:0"`
}

func (r Room) Snapshot() roomstate.Snapshot {
	return roomstate.Snapshot{
		ID:      r.ID,
		Number:  r.RoomNumber,
		Status:  roomstate.NormalizeStatus(r.Status),
		GuestID: r.GuestID,
		Version: r.Version,
	}
}
