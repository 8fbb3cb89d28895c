package models

import "time"

// ShiftEvent is the audit record of a guest moving rooms. Rows are only
// ever inserted.
type ShiftEvent struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Reference string `gorm:"size:36;uniqueIndex" json:"reference"`

	GuestID   uint   `gorm:"index" json:"guestId"`
	GuestName string `gorm:"size:255" json:"guestName"`

	FromRoomID     uint   `gorm:"index" json:"fromRoomId"`
	FromRoomNumber string `gorm:"size:50" json:"fromRoomNumber"`
	ToRoomID       uint   `gorm:"index" json:"toRoomId"`
	ToRoomNumber   string `gorm:"size:50" json:"toRoomNumber"`

	Reason       string    `gorm:"size:255" json:"reason"`
	AuthorizedBy string    `gorm:"size:255" json:"authorizedBy"`
	Notes        string    `gorm:"type:text" json:"notes"`
	ShiftedAt    time.Time `gorm:"index" json:"shiftedAt"`
}
