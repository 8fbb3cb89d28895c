package billing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRates = NewRates(12, 5)

func threeNightStay() Stay {
	return Stay{
		CheckInDate:  "2024-01-01",
		CheckOutDate: "04-01-2024",
		RoomNumber:   "101",
		TotalAmount:  decimal.NewFromInt(6000),
	}
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertLinesReconcile(t *testing.T, b BillBreakdown) {
	t.Helper()
	for _, l := range b.Lines() {
		if l.Amount.IsZero() {
			assert.True(t, l.Taxable.IsZero(), l.Category)
			assert.True(t, l.CGST.IsZero(), l.Category)
			assert.True(t, l.SGST.IsZero(), l.Category)
			continue
		}
		gross, _ := l.Amount.Float64()
		total, _ := l.Total().Float64()
		assert.InDelta(t, gross, total, 1e-6, l.Category)
	}
	roundOff, _ := b.RoundOff.Abs().Float64()
	assert.Less(t, roundOff, 1.0)
}

func TestCalculate_ThreeNightsWithFooding(t *testing.T) {
	adj := Adjustments{AdditionalCharges: NewAmount(300)}

	b, err := Calculate(threeNightStay(), adj, dec(2000), testRates)
	require.NoError(t, err)

	assert.Equal(t, 3, b.Days)
	assert.Equal(t, RateFromRoomBase, b.RateSource)
	assert.True(t, b.PerDayRate.Equal(dec(2000)))
	assert.True(t, b.RoomRent.Amount.Equal(dec(6000)), b.RoomRent.Amount.String())
	assert.True(t, b.Fooding.Amount.Equal(dec(300)))
	assert.True(t, b.Fooding.RatePercent.Equal(dec(5)))
	assert.True(t, b.RoomRent.RatePercent.Equal(dec(12)))
	assert.True(t, b.LateCheckout.RatePercent.Equal(dec(12)))
	assert.True(t, b.TotalAmount.Equal(dec(6300)))
	assert.True(t, b.TotalAmountDisplay.Equal(dec(6300)))
	assert.True(t, b.RoundOff.IsZero())
	assert.Equal(t, "2024-01-04", b.CheckOutDate)
	assertLinesReconcile(t, b)

	sum := b.TotalTaxable.Add(b.TotalCGST).Add(b.TotalSGST)
	got, _ := sum.Float64()
	assert.InDelta(t, 6300, got, 1e-6)
}

func TestCalculate_ComplimentaryKeepsServiceCharges(t *testing.T) {
	adj := Adjustments{
		AdditionalCharges: NewAmount(300),
		LaundryCharges:    NewAmount(120),
		HalfDayCharges:    NewAmount(500),
	}
	stay := threeNightStay()
	stay.ExtraBeds = []ExtraBed{{Charge: dec(400)}}

	paid, err := Calculate(stay, adj, dec(2000), testRates)
	require.NoError(t, err)

	stay.Complimentary = true
	comp, err := Calculate(stay, adj, dec(2000), testRates)
	require.NoError(t, err)

	assert.True(t, comp.Complimentary)
	assert.True(t, comp.PerDayRate.IsZero())
	assert.True(t, comp.RoomRent.Amount.IsZero())
	assert.True(t, comp.ExtraBed.Amount.IsZero())
	assert.True(t, comp.RoomRent.Taxable.IsZero())

	assert.Equal(t, paid.Fooding, comp.Fooding)
	assert.Equal(t, paid.Laundry, comp.Laundry)
	assert.Equal(t, paid.LateCheckout, comp.LateCheckout)
	assert.True(t, comp.TotalAmountDisplay.Equal(dec(920)))
	assertLinesReconcile(t, comp)
}

func TestCalculate_ComplimentaryEndToEnd(t *testing.T) {
	stay := threeNightStay()
	stay.Complimentary = true

	b, err := Calculate(stay, Adjustments{AdditionalCharges: NewAmount(300)}, dec(2000), testRates)
	require.NoError(t, err)

	assert.True(t, b.RoomRent.Amount.IsZero())
	assert.True(t, b.ExtraBed.Amount.IsZero())
	assert.True(t, b.Fooding.Amount.Equal(dec(300)))
	assert.True(t, b.TotalAmountDisplay.Equal(dec(300)))
}

func TestCalculate_FinalAmountOverride(t *testing.T) {
	stay := threeNightStay()
	stay.ExtraBeds = []ExtraBed{{Charge: dec(250)}, {Charge: dec(250)}}
	adj := Adjustments{FinalAmount: NewAmount(7000), AdditionalCharges: NewAmount(300)}

	b, err := Calculate(stay, adj, dec(2000), testRates)
	require.NoError(t, err)

	assert.Equal(t, RateFromFinalAmount, b.RateSource)
	assert.True(t, b.ExtraBed.Amount.IsZero(), "extra beds are folded into the override")
	assert.True(t, b.TotalAmountDisplay.Equal(dec(7000)), b.TotalAmountDisplay.String())
	assertLinesReconcile(t, b)
}

func TestCalculate_FinalAmountNotCoveringAdjustmentsFallsBack(t *testing.T) {
	adj := Adjustments{FinalAmount: NewAmount(200), AdditionalCharges: NewAmount(300)}

	b, err := Calculate(threeNightStay(), adj, dec(1500), testRates)
	require.NoError(t, err)
	assert.Equal(t, RateFromRoomBase, b.RateSource)
	assert.True(t, b.PerDayRate.Equal(dec(1500)))
}

func TestCalculate_StayTotalFallback(t *testing.T) {
	stay := threeNightStay()
	stay.TotalAmount = dec(6500)
	stay.ExtraBeds = []ExtraBed{{Charge: dec(500)}}

	b, err := Calculate(stay, Adjustments{}, decimal.Zero, testRates)
	require.NoError(t, err)

	assert.Equal(t, RateFromStayTotal, b.RateSource)
	assert.True(t, b.PerDayRate.Equal(dec(2000)), b.PerDayRate.String())
	assert.True(t, b.ExtraBed.Amount.Equal(dec(500)))
	assert.True(t, b.TotalAmountDisplay.Equal(dec(6500)))
}

func TestCalculate_RoomBaseAddsExtraBeds(t *testing.T) {
	stay := threeNightStay()
	stay.ExtraBeds = []ExtraBed{{Charge: dec(300)}, {Charge: dec(200)}}

	b, err := Calculate(stay, Adjustments{}, dec(1000), testRates)
	require.NoError(t, err)
	assert.True(t, b.ExtraBed.Amount.Equal(dec(500)))
	assert.True(t, b.TotalAmount.Equal(dec(3500)))
}

func TestCalculate_SameDayIsOneNight(t *testing.T) {
	stay := threeNightStay()
	stay.CheckOutDate = stay.CheckInDate

	b, err := Calculate(stay, Adjustments{}, dec(1800), testRates)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Days)
	assert.True(t, b.RoomRent.Amount.Equal(dec(1800)))
}

func TestCalculate_RoundOff(t *testing.T) {
	stay := threeNightStay()
	b, err := Calculate(stay, Adjustments{LaundryCharges: AmountFromFloat(99.4)}, decimal.NewFromFloat(1000.35), testRates)
	require.NoError(t, err)

	// 3001.05 + 99.4 = 3100.45
	assert.True(t, b.TotalAmount.Equal(decimal.RequireFromString("3100.45")), b.TotalAmount.String())
	assert.True(t, b.TotalAmountDisplay.Equal(dec(3100)))
	assert.True(t, b.RoundOff.Equal(decimal.RequireFromString("-0.45")), b.RoundOff.String())
	assertLinesReconcile(t, b)
}

func TestCalculate_Deterministic(t *testing.T) {
	stay := threeNightStay()
	stay.ExtraBeds = []ExtraBed{{Charge: dec(333)}}
	adj := Adjustments{FinalAmount: NewAmount(7001), LaundryCharges: NewAmount(77)}

	first, err := Calculate(stay, adj, dec(2000), testRates)
	require.NoError(t, err)
	second, err := Calculate(stay, adj, dec(2000), testRates)
	require.NoError(t, err)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.Equal(t, string(a), string(b))
}

func TestCalculate_InvalidDate(t *testing.T) {
	stay := threeNightStay()
	stay.CheckOutDate = "soon"

	_, err := Calculate(stay, Adjustments{}, dec(2000), testRates)
	assert.ErrorIs(t, err, ErrInvalidDate)
}
