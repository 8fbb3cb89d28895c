package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel-frontdesk/billing"
	"hotel-frontdesk/events"
	"hotel-frontdesk/models"
	"hotel-frontdesk/roomstate"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StayService runs the guest side of the room lifecycle: check-in, bill
// preview, checkout and room shifts.
type StayService struct {
	DB     *gorm.DB
	Locker RoomLocker
	Events events.Publisher
	// Rates applies to bill preview and checkout.
	Rates billing.Rates
	Now   func() time.Time
}

func NewStayService(db *gorm.DB, locker RoomLocker, pub events.Publisher, rates billing.Rates) *StayService {
	if locker == nil {
		locker = NewLocalLocker()
	}
	if pub == nil {
		pub = events.Noop{}
	}
	return &StayService{DB: db, Locker: locker, Events: pub, Rates: rates, Now: time.Now}
}

func (s *StayService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

type CheckInInput struct {
	FullName      string             `json:"fullName" validate:"required"`
	Phone         string             `json:"phone"`
	Email         string             `json:"email" validate:"omitempty,email"`
	IDType        string             `json:"idType"`
	IDNumber      string             `json:"idNumber"`
	RoomID        uint               `json:"roomId" validate:"required"`
	CheckInDate   string             `json:"checkInDate" validate:"required"`
	CheckOutDate  string             `json:"checkOutDate" validate:"required"`
	RatePerDay    billing.Amount     `json:"ratePerDay" validate:"min=0"`
	TotalAmount   billing.Amount     `json:"totalAmount" validate:"min=0"`
	AmountPaid    billing.Amount     `json:"amountPaid" validate:"min=0"`
	ExtraBeds     []billing.ExtraBed `json:"extraBeds"`
	Complimentary bool               `json:"complimentary"`
	Notes         string             `json:"notes"`
}

type CheckoutInput struct {
	CheckOutDate string `json:"checkOutDate"`
	billing.Adjustments
	// AcceptedTotal is the totalAmountDisplay the operator accepted on preview.
	AcceptedTotal *decimal.Decimal `json:"acceptedTotal"`
	AmountPaid    billing.Amount   `json:"amountPaid" validate:"min=0"`
}

type CheckoutResult struct {
	Guest     models.Guest          `json:"guest"`
	Breakdown billing.BillBreakdown `json:"breakdown"`
}

type ShiftInput struct {
	FromRoomID   uint   `json:"fromRoomId" validate:"required"`
	ToRoomNumber string `json:"toRoomNumber" validate:"required"`
	GuestName    string `json:"guestName" validate:"required"`
	Reason       string `json:"reason"`
	AuthorizedBy string `json:"authorizedBy"`
	Notes        string `json:"notes"`
}

// ----------------------------------------------------
// Reads
// ----------------------------------------------------

func (s *StayService) List(ctx context.Context, status string) ([]models.Guest, error) {
	q := s.DB.WithContext(ctx).Order("id DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var guests []models.Guest
	if err := q.Find(&guests).Error; err != nil {
		return nil, err
	}
	return guests, nil
}

func (s *StayService) Get(ctx context.Context, id uint) (models.Guest, error) {
	var guest models.Guest
	err := s.DB.WithContext(ctx).First(&guest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return guest, ErrGuestNotFound
	}
	return guest, err
}

func (s *StayService) ListShifts(ctx context.Context, roomID uint) ([]models.ShiftEvent, error) {
	q := s.DB.WithContext(ctx).Order("shifted_at DESC, id DESC")
	if roomID != 0 {
		q = q.Where("from_room_id = ? OR to_room_id = ?", roomID, roomID)
	}
	var out []models.ShiftEvent
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ----------------------------------------------------
// Check-in
// ----------------------------------------------------

func validateBeds(beds []billing.ExtraBed) error {
	for i, b := range beds {
		if b.Charge.IsNegative() {
			return fmt.Errorf("%w: extraBeds[%d].charge is negative", billing.ErrInvalidChargeAmount, i)
		}
		if err := billing.CheckBounds(b.Charge); err != nil {
			return fmt.Errorf("%w: extraBeds[%d].charge", err, i)
		}
	}
	return nil
}

func (s *StayService) CheckIn(ctx context.Context, in CheckInInput) (models.Guest, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	if in.FullName == "" {
		return models.Guest{}, ErrGuestNameRequired
	}
	checkIn, err := billing.ParseDate(in.CheckInDate)
	if err != nil {
		return models.Guest{}, err
	}
	checkOut, err := billing.ParseDate(in.CheckOutDate)
	if err != nil {
		return models.Guest{}, err
	}
	if checkOut.Before(checkIn) {
		return models.Guest{}, ErrInvalidStayDates
	}
	for name, v := range map[string]billing.Amount{"ratePerDay": in.RatePerDay, "totalAmount": in.TotalAmount, "amountPaid": in.AmountPaid} {
		if v.IsNegative() {
			return models.Guest{}, fmt.Errorf("%w: %s is negative", billing.ErrInvalidChargeAmount, name)
		}
		if err := billing.CheckBounds(v.Dec()); err != nil {
			return models.Guest{}, fmt.Errorf("%w: %s", err, name)
		}
	}
	if err := validateBeds(in.ExtraBeds); err != nil {
		return models.Guest{}, err
	}

	unlock, err := s.Locker.Lock(ctx, in.RoomID)
	if err != nil {
		return models.Guest{}, err
	}
	defer unlock()

	var (
		guest models.Guest
		after roomstate.Snapshot
	)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := loadRoom(tx, in.RoomID, ErrRoomNotFound)
		if err != nil {
			return err
		}
		snap := room.Snapshot()
		if snap.Status == roomstate.Occupied {
			return fmt.Errorf("%w: %s", roomstate.ErrRoomOccupied, room.RoomNumber)
		}

		rate := in.RatePerDay.Dec()
		if !rate.IsPositive() {
			rate = room.Price
		}
		total := in.TotalAmount.Dec()
		if total.IsZero() {
			days := billing.DaysBetween(checkIn, checkOut)
			total = rate.Mul(decimal.NewFromInt(int64(days)))
			for _, b := range in.ExtraBeds {
				total = total.Add(b.Charge)
			}
		}

		guest = models.Guest{
			FullName:      in.FullName,
			Phone:         strings.TrimSpace(in.Phone),
			Email:         strings.TrimSpace(in.Email),
			IDType:        in.IDType,
			IDNumber:      in.IDNumber,
			RoomID:        room.ID,
			RoomNumber:    room.RoomNumber,
			CheckInDate:   billing.ToStorageFormat(checkIn),
			CheckOutDate:  billing.ToStorageFormat(checkOut),
			RatePerDay:    rate,
			TotalAmount:   total,
			ExtraBeds:     datatypes.JSONSlice[billing.ExtraBed](in.ExtraBeds),
			Complimentary: in.Complimentary,
			AmountPaid:    in.AmountPaid.Dec(),
			Status:        models.StayCheckedIn,
			Notes:         in.Notes,
		}
		if err := tx.Create(&guest).Error; err != nil {
			return fmt.Errorf("create guest: %w", err)
		}

		next, err := roomstate.CheckIn(snap, guest.ID)
		if err != nil {
			return err
		}
		after, err = casRoom(tx, snap, next, nil)
		return err
	})
	if err != nil {
		log.Warn().Err(err).Uint("room_id", in.RoomID).Msg("check-in rejected")
		return models.Guest{}, err
	}

	log.Info().
		Uint("guest_id", guest.ID).
		Uint("room_id", guest.RoomID).
		Str("room", guest.RoomNumber).
		Int64("version", after.Version).
		Msg("guest checked in")
	publish(ctx, s.Events, events.StayCheckedIn, events.StayCheckedInEvent{
		GuestID:    guest.ID,
		RoomID:     guest.RoomID,
		RoomNumber: guest.RoomNumber,
		At:         s.now().UTC(),
	})
	return guest, nil
}

// ----------------------------------------------------
// Billing
// ----------------------------------------------------

// roomBaseRate is the booked rate when set, else the room's current price.
func roomBaseRate(guest models.Guest, room models.Room) decimal.Decimal {
	if guest.RatePerDay.IsPositive() {
		return guest.RatePerDay
	}
	return room.Price
}

func (s *StayService) checkOutDate(guest models.Guest, requested string) string {
	if strings.TrimSpace(requested) != "" {
		return requested
	}
	if guest.CheckOutDate != "" {
		return guest.CheckOutDate
	}
	return billing.ToStorageFormat(s.now())
}

func (s *StayService) compute(guest models.Guest, room models.Room, checkOutDate string, adj billing.Adjustments, rates billing.Rates) (billing.BillBreakdown, error) {
	if err := adj.Validate(); err != nil {
		return billing.BillBreakdown{}, err
	}
	stay := guest.BillingStay(s.checkOutDate(guest, checkOutDate))
	if stay.RoomNumber == "" {
		stay.RoomNumber = room.RoomNumber
	}
	return billing.Calculate(stay, adj, roomBaseRate(guest, room), rates)
}

// PreviewBill computes the breakdown an operator reviews before checkout.
// Nothing is written.
func (s *StayService) PreviewBill(ctx context.Context, guestID uint, checkOutDate string, adj billing.Adjustments) (billing.BillBreakdown, error) {
	guest, err := s.Get(ctx, guestID)
	if err != nil {
		return billing.BillBreakdown{}, err
	}
	if !guest.IsOpen() {
		return billing.BillBreakdown{}, fmt.Errorf("%w: guest %d", ErrStayClosed, guestID)
	}
	var room models.Room
	if err := s.DB.WithContext(ctx).First(&room, guest.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return billing.BillBreakdown{}, ErrRoomNotFound
		}
		return billing.BillBreakdown{}, err
	}
	return s.compute(guest, room, checkOutDate, adj, s.Rates)
}

// ----------------------------------------------------
// Checkout
// ----------------------------------------------------

// Checkout recomputes the bill, requires the operator's accepted total to
// match it, then frees the room and closes the stay in one transaction.
func (s *StayService) Checkout(ctx context.Context, guestID uint, in CheckoutInput) (CheckoutResult, error) {
	if err := in.Adjustments.Validate(); err != nil {
		return CheckoutResult{}, err
	}
	if in.AmountPaid.IsNegative() {
		return CheckoutResult{}, fmt.Errorf("%w: amountPaid is negative", billing.ErrInvalidChargeAmount)
	}
	if err := billing.CheckBounds(in.AmountPaid.Dec()); err != nil {
		return CheckoutResult{}, fmt.Errorf("%w: amountPaid", err)
	}
	if in.AcceptedTotal != nil {
		if err := billing.CheckBounds(*in.AcceptedTotal); err != nil {
			return CheckoutResult{}, fmt.Errorf("%w: acceptedTotal", err)
		}
	}

	guest, err := s.Get(ctx, guestID)
	if err != nil {
		return CheckoutResult{}, err
	}
	unlock, err := s.Locker.Lock(ctx, guest.RoomID)
	if err != nil {
		return CheckoutResult{}, err
	}
	defer unlock()

	var (
		result CheckoutResult
		after  roomstate.Snapshot
	)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		guest, err := loadGuest(tx, guestID)
		if err != nil {
			return err
		}
		if !guest.IsOpen() {
			return fmt.Errorf("%w: guest %d", ErrStayClosed, guestID)
		}
		room, err := loadRoom(tx, guest.RoomID, ErrRoomNotFound)
		if err != nil {
			return err
		}

		bill, err := s.compute(guest, room, in.CheckOutDate, in.Adjustments, s.Rates)
		if err != nil {
			return err
		}
		accepted := in.AcceptedTotal != nil && in.AcceptedTotal.Equal(bill.TotalAmountDisplay)

		snap := room.Snapshot()
		next, err := roomstate.Checkout(snap, guest.ID, accepted)
		if err != nil {
			if errors.Is(err, roomstate.ErrBillNotAccepted) {
				return fmt.Errorf("%w: expected total %s", err, bill.TotalAmountDisplay.StringFixed(0))
			}
			return err
		}
		if after, err = casRoom(tx, snap, next, nil); err != nil {
			return err
		}

		raw, err := json.Marshal(bill)
		if err != nil {
			return fmt.Errorf("encode final bill: %w", err)
		}
		closedAt := s.now()
		paid := guest.AmountPaid
		if !in.AmountPaid.IsZero() {
			paid = in.AmountPaid.Dec()
		}
		res := tx.Model(&models.Guest{}).
			Where("id = ? AND status = ?", guest.ID, models.StayCheckedIn).
			Updates(map[string]interface{}{
				"status":         models.StayCheckedOut,
				"check_out_date": bill.CheckOutDate,
				"final_bill":     datatypes.JSON(raw),
				"billed_amount":  bill.TotalAmountDisplay,
				"amount_paid":    paid,
				"checked_out_at": closedAt,
			})
		if res.Error != nil {
			return fmt.Errorf("close stay: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: guest %d", ErrStayClosed, guestID)
		}

		result.Breakdown = bill
		return tx.First(&result.Guest, guest.ID).Error
	})
	if err != nil {
		log.Warn().Err(err).Uint("guest_id", guestID).Msg("checkout rejected")
		return CheckoutResult{}, err
	}

	log.Info().
		Uint("guest_id", guestID).
		Uint("room_id", result.Guest.RoomID).
		Str("room", result.Guest.RoomNumber).
		Str("total", result.Breakdown.TotalAmountDisplay.StringFixed(0)).
		Int64("version", after.Version).
		Msg("guest checked out")
	publish(ctx, s.Events, events.StayCheckedOut, events.StayCheckedOutEvent{
		GuestID:    guestID,
		RoomID:     result.Guest.RoomID,
		RoomNumber: result.Guest.RoomNumber,
		Total:      result.Breakdown.TotalAmountDisplay.StringFixed(2),
		At:         s.now().UTC(),
	})
	return result, nil
}

// ----------------------------------------------------
// Shift
// ----------------------------------------------------

// Shift moves the occupant of FromRoomID into the available room
// ToRoomNumber. Both rooms, the guest and the audit record change together
// or not at all. The booked rate travels with the guest.
func (s *StayService) Shift(ctx context.Context, in ShiftInput) (models.ShiftEvent, error) {
	toNumber := strings.TrimSpace(in.ToRoomNumber)
	var dst models.Room
	err := s.DB.WithContext(ctx).Where("room_number = ?", toNumber).First(&dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ShiftEvent{}, fmt.Errorf("%w: %s", ErrDestinationNotFound, toNumber)
	}
	if err != nil {
		return models.ShiftEvent{}, err
	}
	if dst.ID == in.FromRoomID {
		return models.ShiftEvent{}, roomstate.ErrSameRoom
	}

	unlock, err := s.Locker.Lock(ctx, in.FromRoomID, dst.ID)
	if err != nil {
		return models.ShiftEvent{}, err
	}
	defer unlock()

	var (
		event  models.ShiftEvent
		result roomstate.ShiftResult
	)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		src, err := loadRoom(tx, in.FromRoomID, ErrRoomNotFound)
		if err != nil {
			return err
		}
		dstRoom, err := loadRoom(tx, dst.ID, ErrDestinationNotFound)
		if err != nil {
			return err
		}
		srcSnap, dstSnap := src.Snapshot(), dstRoom.Snapshot()
		if !srcSnap.HasGuest() {
			return fmt.Errorf("%w: %s", roomstate.ErrRoomNotOccupied, src.RoomNumber)
		}

		guest, err := loadGuest(tx, *srcSnap.GuestID)
		if err != nil {
			return err
		}
		if !strings.EqualFold(strings.TrimSpace(guest.FullName), strings.TrimSpace(in.GuestName)) {
			return fmt.Errorf("%w: room %s", ErrGuestNameMismatch, src.RoomNumber)
		}

		if result, err = roomstate.Shift(srcSnap, dstSnap, guest.ID); err != nil {
			return err
		}
		// free the source first so the occupant is never in two rooms
		if result.Source, err = casRoom(tx, srcSnap, result.Source, nil); err != nil {
			return err
		}
		if result.Destination, err = casRoom(tx, dstSnap, result.Destination, nil); err != nil {
			return err
		}

		if err := tx.Model(&models.Guest{}).Where("id = ?", guest.ID).Updates(map[string]interface{}{
			"room_id":     dstRoom.ID,
			"room_number": dstRoom.RoomNumber,
		}).Error; err != nil {
			return fmt.Errorf("move guest: %w", err)
		}

		event = models.ShiftEvent{
			Reference:      uuid.NewString(),
			GuestID:        guest.ID,
			GuestName:      guest.FullName,
			FromRoomID:     src.ID,
			FromRoomNumber: src.RoomNumber,
			ToRoomID:       dstRoom.ID,
			ToRoomNumber:   dstRoom.RoomNumber,
			Reason:         in.Reason,
			AuthorizedBy:   in.AuthorizedBy,
			Notes:          in.Notes,
			ShiftedAt:      s.now(),
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		log.Warn().Err(err).Uint("from_room_id", in.FromRoomID).Str("to_room", toNumber).Msg("room shift rejected")
		return models.ShiftEvent{}, err
	}

	log.Info().
		Str("reference", event.Reference).
		Uint("guest_id", event.GuestID).
		Str("from", event.FromRoomNumber).
		Str("to", event.ToRoomNumber).
		Int64("from_version", result.Source.Version).
		Int64("to_version", result.Destination.Version).
		Msg("guest shifted")
	publish(ctx, s.Events, events.RoomShifted, events.RoomShiftedEvent{
		Reference:    event.Reference,
		GuestID:      event.GuestID,
		FromRoom:     event.FromRoomNumber,
		ToRoom:       event.ToRoomNumber,
		AuthorizedBy: event.AuthorizedBy,
		At:           event.ShiftedAt.UTC(),
	})
	return event, nil
}

// ----------------------------------------------------
// Notes
// ----------------------------------------------------

// UpdateNotes is the one edit allowed on a closed stay.
func (s *StayService) UpdateNotes(ctx context.Context, guestID uint, notes string) (models.Guest, error) {
	res := s.DB.WithContext(ctx).Model(&models.Guest{}).Where("id = ?", guestID).Update("notes", notes)
	if res.Error != nil {
		return models.Guest{}, res.Error
	}
	if res.RowsAffected == 0 {
		return models.Guest{}, ErrGuestNotFound
	}
	return s.Get(ctx, guestID)
}
