package billing

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// TaxSplit is the tax-inclusive gross amount broken into its taxable base and
// the two equal GST halves.
type TaxSplit struct {
	Taxable decimal.Decimal `json:"taxable"`
	CGST    decimal.Decimal `json:"cgst"`
	SGST    decimal.Decimal `json:"sgst"`
}

// Split derives the taxable base of a tax-inclusive gross amount and halves
// the tax into CGST and SGST. A gross of zero or less yields an all-zero split.
func Split(gross, ratePercent decimal.Decimal) TaxSplit {
	if !gross.IsPositive() {
		return TaxSplit{Taxable: decimal.Zero, CGST: decimal.Zero, SGST: decimal.Zero}
	}
	rate := ratePercent.Div(hundred)
	taxable := gross.Div(decimal.NewFromInt(1).Add(rate))
	half := taxable.Mul(rate).Div(two)
	return TaxSplit{Taxable: taxable, CGST: half, SGST: half}
}

// Total is taxable + cgst + sgst; it reconstructs the gross up to division precision.
func (s TaxSplit) Total() decimal.Decimal {
	return s.Taxable.Add(s.CGST).Add(s.SGST)
}
