package services

import (
	"errors"
	"fmt"

	"hotel-frontdesk/models"
	"hotel-frontdesk/roomstate"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// loadRoom reads a room inside tx, taking a row lock where the dialect
// supports it.
func loadRoom(tx *gorm.DB, id uint, notFound error) (models.Room, error) {
	var room models.Room
	err := lockForUpdate(tx).First(&room, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return room, notFound
	}
	if err != nil {
		return room, err
	}
	return room, nil
}

func loadGuest(tx *gorm.DB, id uint) (models.Guest, error) {
	var guest models.Guest
	err := lockForUpdate(tx).First(&guest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return guest, ErrGuestNotFound
	}
	return guest, err
}

// sqlite has no SELECT ... FOR UPDATE; the version column still protects writes.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector != nil && tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// casRoom writes next's status and guest over prev, succeeding only while
// the stored version still equals prev.Version. extra carries attribute
// columns written in the same statement.
func casRoom(tx *gorm.DB, prev, next roomstate.Snapshot, extra map[string]interface{}) (roomstate.Snapshot, error) {
	if err := next.Validate(); err != nil {
		return prev, err
	}

	cols := map[string]interface{}{
		"status":  string(next.Status),
		"version": gorm.Expr("version + 1"),
	}
	if next.GuestID != nil {
		cols["guest_id"] = *next.GuestID
	} else {
		cols["guest_id"] = gorm.Expr("NULL")
	}
	for k, v := range extra {
		cols[k] = v
	}

	res := tx.Model(&models.Room{}).
		Where("id = ? AND version = ?", prev.ID, prev.Version).
		Updates(cols)
	if res.Error != nil {
		if isDuplicateKey(res.Error) {
			return prev, ErrDuplicateRoomNumber
		}
		return prev, fmt.Errorf("update room %s: %w", prev.Number, res.Error)
	}
	if res.RowsAffected == 0 {
		return prev, fmt.Errorf("%w: room %s", ErrStaleRoom, prev.Number)
	}

	next.Version = prev.Version + 1
	return next, nil
}
