package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryRoomRent     Category = "room_rent"
	CategoryExtraBed     Category = "extra_bed"
	CategoryFooding      Category = "fooding"
	CategoryLaundry      Category = "laundry"
	CategoryLateCheckout Category = "late_checkout"
)

// RateSource records which branch produced the effective per-day rate.
type RateSource string

const (
	RateFromFinalAmount RateSource = "final_amount"
	RateFromRoomBase    RateSource = "room_base"
	RateFromStayTotal   RateSource = "stay_total"
)

// Rates are GST percentages. Room applies to room rent, extra bed and late
// checkout; Service applies to fooding and laundry. Call sites own the values.
type Rates struct {
	Room    decimal.Decimal `json:"room"`
	Service decimal.Decimal `json:"service"`
}

func NewRates(room, service float64) Rates {
	return Rates{Room: decimal.NewFromFloat(room), Service: decimal.NewFromFloat(service)}
}

type ExtraBed struct {
	Charge decimal.Decimal `json:"charge"`
}

// Stay is the snapshot of one guest's occupancy the calculator prices.
type Stay struct {
	CheckInDate   string
	CheckOutDate  string
	RoomNumber    string
	TotalAmount   decimal.Decimal
	ExtraBeds     []ExtraBed
	Complimentary bool
}

// Adjustments are the operator-entered values at checkout time.
type Adjustments struct {
	FinalAmount       Amount `json:"finalAmount"`
	AdditionalCharges Amount `json:"additionalCharges"`
	LaundryCharges    Amount `json:"laundryCharges"`
	HalfDayCharges    Amount `json:"halfDayCharges"`
}

// Validate rejects negative or out-of-range charges. Calculate itself does
// not clamp them.
func (a Adjustments) Validate() error {
	fields := []struct {
		name string
		v    Amount
	}{
		{"finalAmount", a.FinalAmount},
		{"additionalCharges", a.AdditionalCharges},
		{"laundryCharges", a.LaundryCharges},
		{"halfDayCharges", a.HalfDayCharges},
	}
	for _, f := range fields {
		if f.v.IsNegative() {
			return fmt.Errorf("%w: %s is negative", ErrInvalidChargeAmount, f.name)
		}
		if err := CheckBounds(f.v.Dec()); err != nil {
			return fmt.Errorf("%w: %s", err, f.name)
		}
	}
	return nil
}

// Line is one invoice row with its tax split.
type Line struct {
	Category    Category        `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	RatePercent decimal.Decimal `json:"ratePercent"`
	TaxSplit
}

// BillBreakdown keeps every intermediate value; the invoice renders each line.
type BillBreakdown struct {
	RoomNumber    string          `json:"roomNumber"`
	CheckInDate   string          `json:"checkInDate"`
	CheckOutDate  string          `json:"checkOutDate"`
	Days          int             `json:"days"`
	PerDayRate    decimal.Decimal `json:"perDayRate"`
	RateSource    RateSource      `json:"rateSource"`
	Complimentary bool            `json:"complimentary"`
	Rates         Rates           `json:"rates"`

	RoomRent     Line `json:"roomRent"`
	ExtraBed     Line `json:"extraBed"`
	Fooding      Line `json:"fooding"`
	Laundry      Line `json:"laundry"`
	LateCheckout Line `json:"lateCheckout"`

	TotalTaxable       decimal.Decimal `json:"totalTaxable"`
	TotalCGST          decimal.Decimal `json:"totalCgst"`
	TotalSGST          decimal.Decimal `json:"totalSgst"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	TotalAmountDisplay decimal.Decimal `json:"totalAmountDisplay"`
	RoundOff           decimal.Decimal `json:"roundOff"`
}

// Lines returns the five category lines in invoice order.
func (b BillBreakdown) Lines() []Line {
	return []Line{b.RoomRent, b.ExtraBed, b.Fooding, b.Laundry, b.LateCheckout}
}

func sumExtraBeds(beds []ExtraBed) decimal.Decimal {
	total := decimal.Zero
	for _, b := range beds {
		total = total.Add(b.Charge)
	}
	return total
}

// effectiveRate picks the per-day rate and the extra-bed charge that goes with it.
//  1. a positive operator final amount, net of the service adjustments, spread
//     over the stay (extra beds already folded in);
//  2. the room's base per-day rate;
//  3. the stay's stored total, net of extra beds, spread over the stay.
func effectiveRate(stay Stay, adj Adjustments, roomBase decimal.Decimal, days decimal.Decimal) (decimal.Decimal, decimal.Decimal, RateSource) {
	if adj.FinalAmount.IsPositive() {
		net := adj.FinalAmount.Dec().
			Sub(adj.AdditionalCharges.Dec()).
			Sub(adj.LaundryCharges.Dec()).
			Sub(adj.HalfDayCharges.Dec())
		if net.IsPositive() {
			return net.Div(days), decimal.Zero, RateFromFinalAmount
		}
	}

	beds := sumExtraBeds(stay.ExtraBeds)
	if roomBase.IsPositive() {
		return roomBase, beds, RateFromRoomBase
	}

	perDay := stay.TotalAmount.Sub(beds).Div(days)
	if perDay.IsNegative() {
		perDay = decimal.Zero
	}
	return perDay, beds, RateFromStayTotal
}

func line(c Category, amount, rate decimal.Decimal) Line {
	return Line{Category: c, Amount: amount, RatePercent: rate, TaxSplit: Split(amount, rate)}
}

// Calculate prices a stay. Dates that cannot be parsed fail the calculation.
func Calculate(stay Stay, adj Adjustments, roomBaseRatePerDay decimal.Decimal, rates Rates) (BillBreakdown, error) {
	checkIn, err := ParseDate(stay.CheckInDate)
	if err != nil {
		return BillBreakdown{}, fmt.Errorf("check-in date: %w", err)
	}
	checkOut, err := ParseDate(stay.CheckOutDate)
	if err != nil {
		return BillBreakdown{}, fmt.Errorf("check-out date: %w", err)
	}

	days := DaysBetween(checkIn, checkOut)
	perDay, extraBed, source := effectiveRate(stay, adj, roomBaseRatePerDay, decimal.NewFromInt(int64(days)))

	// Complimentary waives room rent and extra bed only; service charges stay billable.
	if stay.Complimentary {
		perDay = decimal.Zero
		extraBed = decimal.Zero
	}

	roomRent := perDay.Mul(decimal.NewFromInt(int64(days)))

	b := BillBreakdown{
		RoomNumber:    stay.RoomNumber,
		CheckInDate:   ToStorageFormat(checkIn),
		CheckOutDate:  ToStorageFormat(checkOut),
		Days:          days,
		PerDayRate:    perDay,
		RateSource:    source,
		Complimentary: stay.Complimentary,
		Rates:         rates,
		RoomRent:      line(CategoryRoomRent, roomRent, rates.Room),
		ExtraBed:      line(CategoryExtraBed, extraBed, rates.Room),
		Fooding:       line(CategoryFooding, adj.AdditionalCharges.Dec(), rates.Service),
		Laundry:       line(CategoryLaundry, adj.LaundryCharges.Dec(), rates.Service),
		LateCheckout:  line(CategoryLateCheckout, adj.HalfDayCharges.Dec(), rates.Room),
	}

	b.TotalTaxable, b.TotalCGST, b.TotalSGST, b.TotalAmount = decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, l := range b.Lines() {
		b.TotalTaxable = b.TotalTaxable.Add(l.Taxable)
		b.TotalCGST = b.TotalCGST.Add(l.CGST)
		b.TotalSGST = b.TotalSGST.Add(l.SGST)
		b.TotalAmount = b.TotalAmount.Add(l.Amount)
	}
	b.TotalAmountDisplay = b.TotalAmount.Round(0)
	b.RoundOff = b.TotalAmountDisplay.Sub(b.TotalAmount)

	return b, nil
}
