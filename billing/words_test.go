package billing

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToWords(t *testing.T) {
	cases := map[int64]string{
		0:          "ZERO",
		1:          "ONE",
		19:         "NINETEEN",
		20:         "TWENTY",
		21:         "TWENTY ONE",
		100:        "ONE HUNDRED",
		110:        "ONE HUNDRED TEN",
		1000:       "ONE THOUSAND",
		6300:       "SIX THOUSAND THREE HUNDRED",
		100000:     "ONE LAKH",
		1234567:    "TWELVE LAKH THIRTY FOUR THOUSAND FIVE HUNDRED SIXTY SEVEN",
		10000000:   "ONE CRORE",
		1050000000: "ONE HUNDRED FIVE CRORE",
		-5:         "MINUS FIVE",
	}
	for n, want := range cases {
		assert.Equal(t, want, ToWords(n), "n=%d", n)
	}
}

func TestToWords_MinInt64(t *testing.T) {
	got := ToWords(math.MinInt64)
	assert.True(t, strings.HasPrefix(got, "MINUS "))
	assert.NotContains(t, got, "  ")
}

func TestAmountInWords(t *testing.T) {
	assert.Equal(t, "RUPEES SIX THOUSAND THREE HUNDRED ONLY", AmountInWords(6300, "RUPEES"))
	assert.Equal(t, "ZERO ONLY", AmountInWords(0, ""))
}
