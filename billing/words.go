package billing

import "strings"

var (
	ones = []string{
		"", "ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT", "NINE",
		"TEN", "ELEVEN", "TWELVE", "THIRTEEN", "FOURTEEN", "FIFTEEN", "SIXTEEN",
		"SEVENTEEN", "EIGHTEEN", "NINETEEN",
	}
	tens = []string{
		"", "", "TWENTY", "THIRTY", "FORTY", "FIFTY", "SIXTY", "SEVENTY", "EIGHTY", "NINETY",
	}
)

const (
	crore    = 10000000
	lakh     = 100000
	thousand = 1000
)

// ToWords spells an integer amount using crore/lakh/thousand grouping, upper
// case, with no currency name.
func ToWords(n int64) string {
	if n == 0 {
		return "ZERO"
	}
	if n < 0 {
		// -(n+1)+1 keeps math.MinInt64 in range.
		return "MINUS " + spell(uint64(-(n+1))+1)
	}
	return spell(uint64(n))
}

// AmountInWords is ToWords with a currency prefix and the customary suffix.
func AmountInWords(n int64, currency string) string {
	return strings.TrimSpace(currency + " " + ToWords(n) + " ONLY")
}

func spell(n uint64) string {
	parts := make([]string, 0, 5)
	if n >= crore {
		// counts above 99 crore recurse, e.g. ONE HUNDRED FIVE CRORE
		parts = append(parts, spell(n/crore)+" CRORE")
		n %= crore
	}
	if n >= lakh {
		parts = append(parts, belowHundred(n/lakh)+" LAKH")
		n %= lakh
	}
	if n >= thousand {
		parts = append(parts, belowHundred(n/thousand)+" THOUSAND")
		n %= thousand
	}
	if n >= 100 {
		parts = append(parts, ones[n/100]+" HUNDRED")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, belowHundred(n))
	}
	return strings.Join(parts, " ")
}

func belowHundred(n uint64) string {
	if n < 20 {
		return ones[n]
	}
	if n%10 == 0 {
		return tens[n/10]
	}
	return tens[n/10] + " " + ones[n%10]
}
