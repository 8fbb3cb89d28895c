// Package roomstate holds the room status machine. Guards are pure
// predicates over a snapshot; transitions return new snapshots and never
// touch storage, so callers can pair them with a compare-and-set write.
package roomstate

import (
	"errors"
	"fmt"
	"strings"
)

type Status string

const (
	Available   Status = "available"
	Occupied    Status = "occupied"
	Maintenance Status = "maintenance"
	Reserved    Status = "reserved"
	Cleaning    Status = "cleaning"
)

var All = []Status{Available, Occupied, Maintenance, Reserved, Cleaning}

var (
	ErrInvalidStatus          = errors.New("invalid room status")
	ErrOccupiedRoomEdit       = errors.New("cannot edit occupied room")
	ErrOccupiedStatusChange   = errors.New("cannot change status of occupied room; check out or shift the guest first")
	ErrOccupiedViaStatusEdit  = errors.New("occupied can only be set by checking a guest in")
	ErrCreateOccupied         = errors.New("a room cannot be created occupied")
	ErrRoomOccupied           = errors.New("room is already occupied")
	ErrRoomNotOccupied        = errors.New("room is not occupied")
	ErrGuestRequired          = errors.New("guest reference required")
	ErrGuestMismatch          = errors.New("guest is not assigned to this room")
	ErrBillNotAccepted        = errors.New("bill breakdown has not been accepted")
	ErrSameRoom               = errors.New("source and destination room are the same")
	ErrDestinationUnavailable = errors.New("destination room is not available")
	ErrInvariantViolated      = errors.New("room status and guest assignment disagree")
)

// NormalizeStatus folds case and surrounding space; older rows stored
// "Occupied", "Available" and so on.
func NormalizeStatus(s string) Status {
	return Status(strings.ToLower(strings.TrimSpace(s)))
}

// ParseStatus accepts any casing and surrounding space ("Available", " cleaning ").
func ParseStatus(s string) (Status, error) {
	st := NormalizeStatus(s)
	for _, v := range All {
		if st == v {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Snapshot is the part of a room the machine reasons about. Version is the
// storage compare-and-set key and is carried through unchanged.
type Snapshot struct {
	ID      uint
	Number  string
	Status  Status
	GuestID *uint
	Version int64
}

func (s Snapshot) HasGuest() bool {
	return s.GuestID != nil && *s.GuestID != 0
}

// Validate checks occupied <=> guest present.
func (s Snapshot) Validate() error {
	if (s.Status == Occupied) != s.HasGuest() {
		return fmt.Errorf("%w: room %s status=%s", ErrInvariantViolated, s.Number, s.Status)
	}
	return nil
}

func guestPtr(id uint) *uint {
	return &id
}

// CheckCreate validates the initial status of a new room.
func CheckCreate(status Status) error {
	if status == Occupied {
		return ErrCreateOccupied
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return err
	}
	return nil
}

// CheckAttributeEdit guards edits to price, floor, amenities and the like.
func CheckAttributeEdit(room Snapshot) error {
	if room.Status == Occupied {
		return fmt.Errorf("%w: %s", ErrOccupiedRoomEdit, room.Number)
	}
	return nil
}

// CheckStatusChange guards the direct status edit path.
func CheckStatusChange(room Snapshot, target Status) error {
	if _, err := ParseStatus(string(target)); err != nil {
		return err
	}
	if target == Occupied {
		return ErrOccupiedViaStatusEdit
	}
	if room.Status == Occupied {
		return fmt.Errorf("%w: %s", ErrOccupiedStatusChange, room.Number)
	}
	return nil
}

// CheckCheckIn guards any non-occupied -> occupied transition.
func CheckCheckIn(room Snapshot, guestID uint) error {
	if guestID == 0 {
		return ErrGuestRequired
	}
	if room.Status == Occupied {
		return fmt.Errorf("%w: %s", ErrRoomOccupied, room.Number)
	}
	return nil
}

// CheckCheckout guards occupied -> available. accepted reports whether the
// operator accepted the computed bill.
func CheckCheckout(room Snapshot, guestID uint, accepted bool) error {
	if err := occupiedBy(room, guestID); err != nil {
		return err
	}
	if !accepted {
		return ErrBillNotAccepted
	}
	return nil
}

// CheckShift guards the compound move of a guest between two rooms.
func CheckShift(src, dst Snapshot, guestID uint) error {
	if src.ID == dst.ID || (src.Number != "" && strings.EqualFold(src.Number, dst.Number)) {
		return ErrSameRoom
	}
	if err := occupiedBy(src, guestID); err != nil {
		return err
	}
	if dst.Status != Available {
		return fmt.Errorf("%w: %s is %s", ErrDestinationUnavailable, dst.Number, dst.Status)
	}
	return nil
}

func occupiedBy(room Snapshot, guestID uint) error {
	if guestID == 0 {
		return ErrGuestRequired
	}
	if room.Status != Occupied {
		return fmt.Errorf("%w: %s", ErrRoomNotOccupied, room.Number)
	}
	if !room.HasGuest() || *room.GuestID != guestID {
		return fmt.Errorf("%w: %s", ErrGuestMismatch, room.Number)
	}
	return nil
}

// ChangeStatus applies a direct status edit.
func ChangeStatus(room Snapshot, target Status) (Snapshot, error) {
	if err := CheckStatusChange(room, target); err != nil {
		return room, err
	}
	next := room
	next.Status = target
	next.GuestID = nil
	return next, nil
}

func CheckIn(room Snapshot, guestID uint) (Snapshot, error) {
	if err := CheckCheckIn(room, guestID); err != nil {
		return room, err
	}
	next := room
	next.Status = Occupied
	next.GuestID = guestPtr(guestID)
	return next, nil
}

func Checkout(room Snapshot, guestID uint, accepted bool) (Snapshot, error) {
	if err := CheckCheckout(room, guestID, accepted); err != nil {
		return room, err
	}
	next := room
	next.Status = Available
	next.GuestID = nil
	return next, nil
}

// ShiftResult carries both sides of a shift; they must be written together.
type ShiftResult struct {
	Source      Snapshot
	Destination Snapshot
}

func Shift(src, dst Snapshot, guestID uint) (ShiftResult, error) {
	if err := CheckShift(src, dst, guestID); err != nil {
		return ShiftResult{Source: src, Destination: dst}, err
	}
	from := src
	from.Status = Available
	from.GuestID = nil

	to := dst
	to.Status = Occupied
	to.GuestID = guestPtr(guestID)
	return ShiftResult{Source: from, Destination: to}, nil
}
