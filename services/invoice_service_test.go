package services

import (
	"bytes"
	"context"
	"testing"

	"hotel-frontdesk/billing"
	"hotel-frontdesk/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceService_ProformaUsesProformaRates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room := seedRoom(t, f.db, "101", "available", 2000)
	g := checkIn(t, f, room, "Asha Rao")

	settings := NewSettingsService(f.db)
	_, err := settings.SaveHotel(ctx, models.HotelSetting{Name: "Lakeview", GSTIN: "29ABCDE1234F1Z5"})
	require.NoError(t, err)

	inv := NewInvoiceService(f.db, settings, billing.NewRates(18, 5), "RUPEES")
	built, err := inv.Build(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "PRO-FORMA INVOICE", built.Title)
	assert.Equal(t, "Lakeview", built.Hotel.Name)
	assert.True(t, built.Breakdown.RoomRent.RatePercent.Equal(decimal.NewFromInt(18)))
	assert.Equal(t, "RUPEES SIX THOUSAND ONLY", built.Words)

	data, name, err := inv.RenderPDF(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Equal(t, "pf-000001.pdf", name)
}

func TestInvoiceService_FinalUsesAcceptedBill(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room := seedRoom(t, f.db, "101", "available", 2000)
	g := checkIn(t, f, room, "Asha Rao")
	_, err := f.stays.Checkout(ctx, g.ID, CheckoutInput{
		Adjustments:   billing.Adjustments{AdditionalCharges: billing.NewAmount(300)},
		AcceptedTotal: dec(6300),
	})
	require.NoError(t, err)

	inv := NewInvoiceService(f.db, nil, billing.NewRates(18, 5), "")
	built, err := inv.Build(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "TAX INVOICE", built.Title)
	assert.True(t, built.Breakdown.RoomRent.RatePercent.Equal(decimal.NewFromInt(12)), "checkout rates, not pro-forma")
	assert.Equal(t, "RUPEES SIX THOUSAND THREE HUNDRED ONLY", built.Words)

	_, err = inv.Build(ctx, 404)
	assert.ErrorIs(t, err, ErrGuestNotFound)
}
