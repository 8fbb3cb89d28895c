package services

import (
	"context"
	"encoding/json"
	"testing"

	"hotel-frontdesk/billing"
	"hotel-frontdesk/events"
	"hotel-frontdesk/models"
	"hotel-frontdesk/roomstate"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkIn(t *testing.T, f fixture, room models.Room, name string) models.Guest {
	t.Helper()
	g, err := f.stays.CheckIn(context.Background(), CheckInInput{
		FullName:     name,
		RoomID:       room.ID,
		CheckInDate:  "01-01-2024",
		CheckOutDate: "2024-01-04",
	})
	require.NoError(t, err)
	return g
}

func TestStayService_CheckIn(t *testing.T) {
	f := newFixture(t)
	room := seedRoom(t, f.db, "101", "cleaning", 2000)

	g := checkIn(t, f, room, "Asha Rao")
	assert.Equal(t, "2024-01-01", g.CheckInDate, "stored year-first")
	assert.Equal(t, "101", g.RoomNumber)
	assert.True(t, g.RatePerDay.Equal(decimal.NewFromInt(2000)), "falls back to room price")
	assert.True(t, g.TotalAmount.Equal(decimal.NewFromInt(6000)))
	assert.Equal(t, models.StayCheckedIn, g.Status)

	stored := reloadRoom(t, f.db, room.ID)
	assert.Equal(t, "occupied", stored.Status)
	require.NotNil(t, stored.GuestID)
	assert.Equal(t, g.ID, *stored.GuestID)
	assert.Equal(t, int64(1), stored.Version)
	assert.Equal(t, []string{events.StayCheckedIn}, f.events.Keys())
}

func TestStayService_CheckInRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room := seedRoom(t, f.db, "101", "available", 2000)
	checkIn(t, f, room, "Asha Rao")

	tests := []struct {
		name string
		in   CheckInInput
		want error
	}{
		{"occupied room", CheckInInput{FullName: "B", RoomID: room.ID, CheckInDate: "2024-01-01", CheckOutDate: "2024-01-02"}, roomstate.ErrRoomOccupied},
		{"missing room", CheckInInput{FullName: "B", RoomID: 999, CheckInDate: "2024-01-01", CheckOutDate: "2024-01-02"}, ErrRoomNotFound},
		{"bad date", CheckInInput{FullName: "B", RoomID: room.ID, CheckInDate: "someday", CheckOutDate: "2024-01-02"}, billing.ErrInvalidDate},
		{"dates reversed", CheckInInput{FullName: "B", RoomID: room.ID, CheckInDate: "2024-01-05", CheckOutDate: "2024-01-02"}, ErrInvalidStayDates},
		{"negative rate", CheckInInput{FullName: "B", RoomID: room.ID, CheckInDate: "2024-01-01", CheckOutDate: "2024-01-02", RatePerDay: billing.NewAmount(-1)}, billing.ErrInvalidChargeAmount},
		{"no name", CheckInInput{FullName: "  ", RoomID: room.ID, CheckInDate: "2024-01-01", CheckOutDate: "2024-01-02"}, ErrGuestNameRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.stays.CheckIn(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	var count int64
	f.db.Model(&models.Guest{}).Count(&count)
	assert.Equal(t, int64(1), count, "rejected check-ins leave no guest rows")
}

func TestStayService_PreviewAndCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room := seedRoom(t, f.db, "101", "available", 2000)
	g := checkIn(t, f, room, "Asha Rao")

	adj := billing.Adjustments{AdditionalCharges: billing.NewAmount(300)}
	preview, err := f.stays.PreviewBill(ctx, g.ID, "", adj)
	require.NoError(t, err)
	assert.Equal(t, 3, preview.Days)
	assert.True(t, preview.RoomRent.Amount.Equal(decimal.NewFromInt(6000)))
	assert.True(t, preview.Fooding.Amount.Equal(decimal.NewFromInt(300)))
	assert.True(t, preview.TotalAmountDisplay.Equal(decimal.NewFromInt(6300)))
	assert.Equal(t, "occupied", reloadRoom(t, f.db, room.ID).Status, "preview writes nothing")

	res, err := f.stays.Checkout(ctx, g.ID, CheckoutInput{Adjustments: adj, AcceptedTotal: dec(6300)})
	require.NoError(t, err)
	assert.Equal(t, models.StayCheckedOut, res.Guest.Status)
	assert.True(t, res.Guest.BilledAmount.Equal(decimal.NewFromInt(6300)))
	require.NotNil(t, res.Guest.CheckedOutAt)

	var stored billing.BillBreakdown
	require.NoError(t, json.Unmarshal(res.Guest.FinalBill, &stored))
	assert.True(t, stored.TotalAmountDisplay.Equal(decimal.NewFromInt(6300)))

	freed := reloadRoom(t, f.db, room.ID)
	assert.Equal(t, "available", freed.Status)
	assert.Nil(t, freed.GuestID)
	assert.Equal(t, int64(2), freed.Version)
	assert.Equal(t, []string{events.StayCheckedIn, events.StayCheckedOut}, f.events.Keys())

	_, err = f.stays.Checkout(ctx, g.ID, CheckoutInput{Adjustments: adj, AcceptedTotal: dec(6300)})
	assert.ErrorIs(t, err, ErrStayClosed)
	_, err = f.stays.PreviewBill(ctx, g.ID, "", adj)
	assert.ErrorIs(t, err, ErrStayClosed)
}

func TestStayService_CheckoutRequiresAcceptedTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room := seedRoom(t, f.db, "101", "available", 2000)
	g := checkIn(t, f, room, "Asha Rao")

	_, err := f.stays.Checkout(ctx, g.ID, CheckoutInput{})
	assert.ErrorIs(t, err, roomstate.ErrBillNotAccepted)

	_, err = f.stays.Checkout(ctx, g.ID, CheckoutInput{AcceptedTotal: dec(5000)})
	assert.ErrorIs(t, err, roomstate.ErrBillNotAccepted)
	assert.Contains(t, err.Error(), "6000")

	stored := reloadRoom(t, f.db, room.ID)
	assert.Equal(t, "occupied", stored.Status)
	assert.Equal(t, int64(1), stored.Version)

	open, err := f.stays.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, open.IsOpen())
}

func TestStayService_CheckoutRejectsNegativeCharge(t *testing.T) {
	f := newFixture(t)
	room := seedRoom(t, f.db, "101", "available", 2000)
	g := checkIn(t, f, room, "Asha Rao")

	_, err := f.stays.Checkout(context.Background(), g.ID, CheckoutInput{
		Adjustments:   billing.Adjustments{LaundryCharges: billing.NewAmount(-50)},
		AcceptedTotal: dec(6000),
	})
	assert.ErrorIs(t, err, billing.ErrInvalidChargeAmount)
	assert.Equal(t, "occupied", reloadRoom(t, f.db, room.ID).Status)
}

func TestStayService_ComplimentaryCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room := seedRoom(t, f.db, "101", "available", 2000)
	g, err := f.stays.CheckIn(ctx, CheckInInput{
		FullName: "VIP", RoomID: room.ID, CheckInDate: "2024-01-01", CheckOutDate: "2024-01-04",
		Complimentary: true,
	})
	require.NoError(t, err)

	adj := billing.Adjustments{AdditionalCharges: billing.NewAmount(300)}
	res, err := f.stays.Checkout(ctx, g.ID, CheckoutInput{Adjustments: adj, AcceptedTotal: dec(300)})
	require.NoError(t, err)
	assert.True(t, res.Breakdown.RoomRent.Amount.IsZero())
	assert.True(t, res.Breakdown.TotalAmountDisplay.Equal(decimal.NewFromInt(300)))
}

func TestStayService_Shift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src := seedRoom(t, f.db, "101", "available", 2000)
	dst := seedRoom(t, f.db, "102", "available", 3000)
	g := checkIn(t, f, src, "Asha Rao")

	ev, err := f.stays.Shift(ctx, ShiftInput{
		FromRoomID:   src.ID,
		ToRoomNumber: "102",
		GuestName:    "asha rao",
		Reason:       "AC fault",
		AuthorizedBy: "manager",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, ev.Reference)
	assert.Equal(t, "101", ev.FromRoomNumber)
	assert.Equal(t, "102", ev.ToRoomNumber)
	assert.Equal(t, fixedNow, ev.ShiftedAt.UTC())

	from, to := reloadRoom(t, f.db, src.ID), reloadRoom(t, f.db, dst.ID)
	assert.Equal(t, "available", from.Status)
	assert.Nil(t, from.GuestID)
	assert.Equal(t, "occupied", to.Status)
	require.NotNil(t, to.GuestID)
	assert.Equal(t, g.ID, *to.GuestID)

	moved, err := f.stays.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, dst.ID, moved.RoomID)
	assert.Equal(t, "102", moved.RoomNumber)
	assert.True(t, moved.RatePerDay.Equal(decimal.NewFromInt(2000)), "booked rate travels with the guest")

	shifts, err := f.stays.ListShifts(ctx, dst.ID)
	require.NoError(t, err)
	assert.Len(t, shifts, 1)
	assert.Equal(t, []string{events.StayCheckedIn, events.RoomShifted}, f.events.Keys())
}

func TestStayService_ShiftRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	src := seedRoom(t, f.db, "101", "available", 2000)
	seedRoom(t, f.db, "102", "cleaning", 2000)
	busy := seedRoom(t, f.db, "103", "available", 2000)
	empty := seedRoom(t, f.db, "104", "available", 2000)
	checkIn(t, f, src, "Asha Rao")
	checkIn(t, f, busy, "Ben")

	tests := []struct {
		name string
		in   ShiftInput
		want error
	}{
		{"same room", ShiftInput{FromRoomID: src.ID, ToRoomNumber: "101", GuestName: "Asha Rao"}, roomstate.ErrSameRoom},
		{"destination cleaning", ShiftInput{FromRoomID: src.ID, ToRoomNumber: "102", GuestName: "Asha Rao"}, roomstate.ErrDestinationUnavailable},
		{"destination occupied", ShiftInput{FromRoomID: src.ID, ToRoomNumber: "103", GuestName: "Asha Rao"}, roomstate.ErrDestinationUnavailable},
		{"unknown destination", ShiftInput{FromRoomID: src.ID, ToRoomNumber: "999", GuestName: "Asha Rao"}, ErrDestinationNotFound},
		{"wrong guest", ShiftInput{FromRoomID: src.ID, ToRoomNumber: "104", GuestName: "Someone Else"}, ErrGuestNameMismatch},
		{"empty source", ShiftInput{FromRoomID: empty.ID, ToRoomNumber: "101", GuestName: "Asha Rao"}, roomstate.ErrRoomNotOccupied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.stays.Shift(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Equal(t, "occupied", reloadRoom(t, f.db, src.ID).Status)
	assert.Equal(t, "available", reloadRoom(t, f.db, empty.ID).Status)
	var count int64
	f.db.Model(&models.ShiftEvent{}).Count(&count)
	assert.Zero(t, count)
}

func TestStayService_UpdateNotesAfterCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room := seedRoom(t, f.db, "101", "available", 2000)
	g := checkIn(t, f, room, "Asha Rao")
	_, err := f.stays.Checkout(ctx, g.ID, CheckoutInput{AcceptedTotal: dec(6000)})
	require.NoError(t, err)

	updated, err := f.stays.UpdateNotes(ctx, g.ID, "left umbrella")
	require.NoError(t, err)
	assert.Equal(t, "left umbrella", updated.Notes)
	assert.Equal(t, models.StayCheckedOut, updated.Status)

	_, err = f.stays.UpdateNotes(ctx, 999, "x")
	assert.ErrorIs(t, err, ErrGuestNotFound)
}

func TestStayService_RejectsOutOfRangeAmounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room := seedRoom(t, f.db, "101", "available", 2000)
	g := checkIn(t, f, room, "Asha Rao")
	huge := billing.Amount{Decimal: decimal.New(1, 20000000)}

	_, err := f.stays.PreviewBill(ctx, g.ID, "", billing.Adjustments{FinalAmount: huge, AdditionalCharges: billing.NewAmount(300)})
	assert.ErrorIs(t, err, billing.ErrInvalidChargeAmount)

	hugeTotal := decimal.New(1, 20000000)
	_, err = f.stays.Checkout(ctx, g.ID, CheckoutInput{AcceptedTotal: &hugeTotal})
	assert.ErrorIs(t, err, billing.ErrAmountOutOfRange)
	assert.Equal(t, "occupied", reloadRoom(t, f.db, room.ID).Status)

	other := seedRoom(t, f.db, "102", "available", 2000)
	_, err = f.stays.CheckIn(ctx, CheckInInput{
		FullName: "B", RoomID: other.ID, CheckInDate: "2024-01-01", CheckOutDate: "2024-01-02",
		ExtraBeds: []billing.ExtraBed{{Charge: decimal.New(1, 20000000)}},
	})
	assert.ErrorIs(t, err, billing.ErrAmountOutOfRange)
	assert.Equal(t, "available", reloadRoom(t, f.db, other.ID).Status)
}
