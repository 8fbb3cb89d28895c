package services

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrGuestNotFound       = errors.New("guest not found")
	ErrDestinationNotFound = errors.New("destination room not found")
	ErrRoleNotFound        = errors.New("role not found")
	ErrStaleRoom           = errors.New("room was changed by another session, reload and retry")
	ErrStayClosed          = errors.New("stay is already checked out")
	ErrRoomBusy            = errors.New("room is being updated by another session")
	ErrDuplicateRoomNumber = errors.New("room number already exists")
	ErrRoomNumberRequired  = errors.New("room number is required")
	ErrGuestNameRequired   = errors.New("guest name is required")
	ErrGuestNameMismatch   = errors.New("guest name does not match the occupant of the source room")
	ErrInvalidStayDates    = errors.New("check-out date is before check-in date")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrUnknownPermission   = errors.New("unknown permission")
)

// isDuplicateKey reports a unique index violation from mysql, postgres or sqlite.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
