package domain_test

import (
	"testing"

	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/zishop/zishop/internal/core/domain"
)

func TestCommissionRates_Split(t *testing.T) {
	rates := domain.DefaultCommissionRates()

	tests := []struct {
		total    string
		merchant string
		zishop   string
		hotel    string
	}{
		{total: "100.00", merchant: "75.00", zishop: "20.00", hotel: "5.00"},
		{total: "10.01", merchant: "7.51", zishop: "2.00", hotel: "0.50"},
		{total: "0.01", merchant: "0.01", zishop: "0.00", hotel: "0.00"},
		{total: "3.33", merchant: "2.50", zishop: "0.66", hotel: "0.17"},
		{total: "99.99", merchant: "74.99", zishop: "20.00", hotel: "5.00"},
	}

	for _, test := range tests {
		t.Run(test.total, func(t *testing.T) {
			split, err := rates.Split(decimal.MustParse(test.total))
			assert.NoError(t, err)

			assert.Equal(t, test.merchant, split.Merchant.String())
			assert.Equal(t, test.zishop, split.Zishop.String())
			assert.Equal(t, test.hotel, split.Hotel.String())
		})
	}
}

// TestCommissionRates_SplitSumsExactly is the money-conservation property:
// the three shares always add back to the original total.
func TestCommissionRates_SplitSumsExactly(t *testing.T) {
	rates := domain.DefaultCommissionRates()

	amounts := []string{
		"0.01", "0.02", "0.03", "0.05", "0.99",
		"1.00", "1.01", "3.33", "9.99", "10.01",
		"49.95", "99.99", "100.00", "123.45", "10000.07",
	}

	for _, amount := range amounts {
		t.Run(amount, func(t *testing.T) {
			total := decimal.MustParse(amount)
			split, err := rates.Split(total)
			assert.NoError(t, err)

			sum, err := split.Merchant.Add(split.Zishop)
			assert.NoError(t, err)
			sum, err = sum.Add(split.Hotel)
			assert.NoError(t, err)

			assert.Zero(t, sum.Cmp(total),
				"split %s + %s + %s != %s", split.Merchant, split.Zishop, split.Hotel, total)
		})
	}
}

func TestCommissionRates_SplitInvalidAmount(t *testing.T) {
	rates := domain.DefaultCommissionRates()

	_, err := rates.Split(decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = rates.Split(decimal.MustParse("-5.00"))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestNewCommissionRates(t *testing.T) {
	rates, err := domain.NewCommissionRates("0.50", "0.30", "0.20")
	assert.NoError(t, err)

	split, err := rates.Split(decimal.MustParse("10.00"))
	assert.NoError(t, err)
	assert.Equal(t, "5.00", split.Merchant.String())
	assert.Equal(t, "3.00", split.Zishop.String())
	assert.Equal(t, "2.00", split.Hotel.String())

	_, err = domain.NewCommissionRates("0.50", "0.30", "0.30")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = domain.NewCommissionRates("half", "0.30", "0.20")
	assert.Error(t, err)
}
