package domain

import (
	"fmt"

	"github.com/govalues/decimal"
)

// CommissionRates is the revenue split between the merchant, the Zishop
// platform and the hotel. Rates are injected so tests and deployments can
// vary them; the shipped defaults are 75/20/5.
type CommissionRates struct {
	Merchant decimal.Decimal
	Zishop   decimal.Decimal
	Hotel    decimal.Decimal
}

func DefaultCommissionRates() CommissionRates {
	return CommissionRates{
		Merchant: decimal.MustParse("0.75"),
		Zishop:   decimal.MustParse("0.20"),
		Hotel:    decimal.MustParse("0.05"),
	}
}

func NewCommissionRates(merchant, zishop, hotel string) (CommissionRates, error) {
	var rates CommissionRates
	var err error

	if rates.Merchant, err = decimal.Parse(merchant); err != nil {
		return CommissionRates{}, fmt.Errorf("parsing merchant rate: %w", err)
	}
	if rates.Zishop, err = decimal.Parse(zishop); err != nil {
		return CommissionRates{}, fmt.Errorf("parsing zishop rate: %w", err)
	}
	if rates.Hotel, err = decimal.Parse(hotel); err != nil {
		return CommissionRates{}, fmt.Errorf("parsing hotel rate: %w", err)
	}

	if err = rates.Validate(); err != nil {
		return CommissionRates{}, err
	}
	return rates, nil
}

// Validate requires non-negative rates summing exactly to one.
func (r CommissionRates) Validate() error {
	if r.Merchant.IsNeg() || r.Zishop.IsNeg() || r.Hotel.IsNeg() {
		return ErrInvalidAmount
	}

	sum, err := r.Merchant.Add(r.Zishop)
	if err != nil {
		return fmt.Errorf("math error: %w", err)
	}
	sum, err = sum.Add(r.Hotel)
	if err != nil {
		return fmt.Errorf("math error: %w", err)
	}

	if sum.Cmp(decimal.One) != 0 {
		return ErrInvalidAmount
	}
	return nil
}

type CommissionSplit struct {
	Merchant decimal.Decimal
	Zishop   decimal.Decimal
	Hotel    decimal.Decimal
}

// Split divides total between the three parties. Merchant and hotel shares
// are rounded half-up to cents; the platform share takes the remainder, so
// the three always sum exactly to total.
func (r CommissionRates) Split(total decimal.Decimal) (CommissionSplit, error) {
	if !total.IsPos() {
		return CommissionSplit{}, ErrInvalidAmount
	}
	if err := r.Validate(); err != nil {
		return CommissionSplit{}, err
	}

	merchant, err := share(total, r.Merchant)
	if err != nil {
		return CommissionSplit{}, err
	}
	hotel, err := share(total, r.Hotel)
	if err != nil {
		return CommissionSplit{}, err
	}

	rest, err := total.Sub(merchant)
	if err != nil {
		return CommissionSplit{}, fmt.Errorf("math error: %w", err)
	}
	zishop, err := rest.Sub(hotel)
	if err != nil {
		return CommissionSplit{}, fmt.Errorf("math error: %w", err)
	}
	if zishop.IsNeg() {
		return CommissionSplit{}, ErrInvalidAmount
	}

	return CommissionSplit{
		Merchant: merchant,
		Zishop:   zishop.Pad(2),
		Hotel:    hotel,
	}, nil
}

func share(total, rate decimal.Decimal) (decimal.Decimal, error) {
	exact, err := total.Mul(rate)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("math error: %w", err)
	}
	return roundHalfUp(exact, 2), nil
}

// roundHalfUp rounds a non-negative decimal to the given scale with ties
// going up. Decimal's own Round is half-even, which must not be used for
// money shares.
func roundHalfUp(d decimal.Decimal, scale int) decimal.Decimal {
	if d.Scale() <= scale {
		return d.Pad(scale)
	}
	nudge := decimal.MustNew(5, scale+1)
	nudged, err := d.Add(nudge)
	if err != nil {
		return d.Round(scale)
	}
	return nudged.Trunc(scale)
}
