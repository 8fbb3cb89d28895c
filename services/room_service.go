package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotel-frontdesk/billing"
	"hotel-frontdesk/events"
	"hotel-frontdesk/models"
	"hotel-frontdesk/roomstate"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RoomService struct {
	DB     *gorm.DB
	Locker RoomLocker
	Events events.Publisher
}

func NewRoomService(db *gorm.DB, locker RoomLocker, pub events.Publisher) *RoomService {
	if locker == nil {
		locker = NewLocalLocker()
	}
	if pub == nil {
		pub = events.Noop{}
	}
	return &RoomService{DB: db, Locker: locker, Events: pub}
}

// RoomPatch is a partial room edit. Nil fields are left alone.
type RoomPatch struct {
	RoomNumber   *string          `json:"roomNumber"`
	Type         *string          `json:"type"`
	Floor        *string          `json:"floor"`
	Price        *decimal.Decimal `json:"price"`
	MaxOccupancy *int             `json:"maxOccupancy" validate:"omitempty,min=0"`
	Description  *string          `json:"description"`
	Amenities    *[]string        `json:"amenities"`
	Status       *string          `json:"status"`
}

func (p RoomPatch) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.RoomNumber != nil {
		cols["room_number"] = strings.TrimSpace(*p.RoomNumber)
	}
	if p.Type != nil {
		cols["type"] = *p.Type
	}
	if p.Floor != nil {
		cols["floor"] = *p.Floor
	}
	if p.Price != nil {
		cols["price"] = *p.Price
	}
	if p.MaxOccupancy != nil {
		cols["max_occupancy"] = *p.MaxOccupancy
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Amenities != nil {
		cols["amenities"] = datatypes.JSONSlice[string](*p.Amenities)
	}
	return cols
}

// ----------------------------------------------------
// Reads
// ----------------------------------------------------

func (s *RoomService) List(ctx context.Context, status string) ([]models.Room, error) {
	q := s.DB.WithContext(ctx).Order("room_number ASC")
	if status != "" {
		st, err := roomstate.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		q = q.Where("LOWER(status) = ?", string(st))
	}
	var rooms []models.Room
	if err := q.Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *RoomService) Get(ctx context.Context, id uint) (models.Room, error) {
	var room models.Room
	err := s.DB.WithContext(ctx).First(&room, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return room, ErrRoomNotFound
	}
	return room, err
}

// ----------------------------------------------------
// Create
// ----------------------------------------------------

func (s *RoomService) Create(ctx context.Context, room *models.Room) error {
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		return ErrRoomNumberRequired
	}
	if room.Status == "" {
		room.Status = string(roomstate.Available)
	}
	st, err := roomstate.ParseStatus(room.Status)
	if err != nil {
		return err
	}
	if err := roomstate.CheckCreate(st); err != nil {
		return err
	}
	if err := billing.CheckBounds(room.Price); err != nil {
		return fmt.Errorf("%w: price", err)
	}
	room.Status = string(st)
	room.GuestID = nil
	room.Version = 0

	if err := s.DB.WithContext(ctx).Create(room).Error; err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateRoomNumber, room.RoomNumber)
		}
		return err
	}
	log.Info().Uint("room_id", room.ID).Str("room", room.RoomNumber).Str("status", room.Status).Msg("room created")
	return nil
}

// ----------------------------------------------------
// Update (attributes and, optionally, status)
// ----------------------------------------------------

// Update applies patch to a room. Attribute edits are refused while the room
// is occupied; a status in the patch goes through the direct status guard.
func (s *RoomService) Update(ctx context.Context, id uint, patch RoomPatch) (models.Room, error) {
	if patch.Price != nil {
		if err := billing.CheckBounds(*patch.Price); err != nil {
			return models.Room{}, fmt.Errorf("%w: price", err)
		}
	}
	unlock, err := s.Locker.Lock(ctx, id)
	if err != nil {
		return models.Room{}, err
	}
	defer unlock()

	var (
		updated models.Room
		before  roomstate.Snapshot
		after   roomstate.Snapshot
	)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := loadRoom(tx, id, ErrRoomNotFound)
		if err != nil {
			return err
		}
		before = room.Snapshot()
		cols := patch.columns()
		if len(cols) == 0 && patch.Status == nil {
			updated = room
			after = before
			return nil
		}
		if len(cols) > 0 {
			if err := roomstate.CheckAttributeEdit(before); err != nil {
				return err
			}
		}

		next := before
		if patch.Status != nil {
			target, err := roomstate.ParseStatus(*patch.Status)
			if err != nil {
				return err
			}
			if next, err = roomstate.ChangeStatus(before, target); err != nil {
				return err
			}
		}

		if n, ok := cols["room_number"]; ok && n == "" {
			return ErrRoomNumberRequired
		}
		if after, err = casRoom(tx, before, next, cols); err != nil {
			return err
		}
		return tx.First(&updated, id).Error
	})
	if err != nil {
		log.Warn().Err(err).Uint("room_id", id).Msg("room update rejected")
		return models.Room{}, err
	}

	if before.Status != after.Status {
		s.statusChanged(ctx, updated, before.Status)
	}
	return updated, nil
}

// ChangeStatus is the direct status edit (maintenance, cleaning, reserved,
// available). Occupied is never reachable here.
func (s *RoomService) ChangeStatus(ctx context.Context, id uint, status string) (models.Room, error) {
	return s.Update(ctx, id, RoomPatch{Status: &status})
}

// CanTransition evaluates the direct-status guard without writing.
func (s *RoomService) CanTransition(ctx context.Context, id uint, status string) error {
	room, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	target, err := roomstate.ParseStatus(status)
	if err != nil {
		return err
	}
	return roomstate.CheckStatusChange(room.Snapshot(), target)
}

func (s *RoomService) statusChanged(ctx context.Context, room models.Room, from roomstate.Status) {
	log.Info().
		Uint("room_id", room.ID).
		Str("room", room.RoomNumber).
		Str("from", string(from)).
		Str("to", room.Status).
		Int64("version", room.Version).
		Msg("room status changed")

	publish(ctx, s.Events, events.RoomStatusChanged, events.RoomStatusChangedEvent{
		RoomID:     room.ID,
		RoomNumber: room.RoomNumber,
		From:       string(from),
		To:         room.Status,
		Version:    room.Version,
	})
}

// ----------------------------------------------------
// Delete
// ----------------------------------------------------

func (s *RoomService) Delete(ctx context.Context, id uint) error {
	unlock, err := s.Locker.Lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := loadRoom(tx, id, ErrRoomNotFound)
		if err != nil {
			return err
		}
		if err := roomstate.CheckAttributeEdit(room.Snapshot()); err != nil {
			return err
		}
		res := tx.Where("version = ?", room.Version).Delete(&models.Room{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: room %s", ErrStaleRoom, room.RoomNumber)
		}
		log.Info().Uint("room_id", id).Str("room", room.RoomNumber).Msg("room deleted")
		return nil
	})
}

// publish sends an event after commit. Failures are logged, never returned.
func publish(ctx context.Context, pub events.Publisher, key string, payload any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, key, payload); err != nil {
		log.Warn().Err(err).Str("routing_key", key).Msg("event publish failed")
	}
}
