// Package pricing derives booking totals and splits them between the platform
// and the worker. Money is handled in integer cents.
package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/wandura/internal/apperr"
)

var DefaultCommissionRate = decimal.RequireFromString("0.10")

const secondsPerDay = 24 * 60 * 60

type Calculator struct {
	rate decimal.Decimal
}

func NewCalculator(rate decimal.Decimal) (*Calculator, error) {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("commission rate %s outside [0, 1]", rate)
	}

	return &Calculator{rate: rate}, nil
}

func (c *Calculator) Rate() decimal.Decimal {
	return c.rate
}

// TotalDays counts calendar days from start to end inclusive. Only the date
// part of each value is considered.
func TotalDays(start, end time.Time) (int, error) {
	s := dateOnly(start)
	e := dateOnly(end)

	if e.Before(s) {
		return 0, apperr.Validation("end date %s is before start date %s",
			e.Format(time.DateOnly), s.Format(time.DateOnly))
	}

	// Whole-day arithmetic on Unix seconds; time.Duration caps out near 292 years.
	return int(e.Unix()/secondsPerDay-s.Unix()/secondsPerDay) + 1, nil
}

func TotalAmount(ratePerDay int64, days int) int64 {
	return ratePerDay * int64(days)
}

// Commission applies the platform rate to total and rounds half-to-even to
// whole cents.
func (c *Calculator) Commission(total int64) int64 {
	return decimal.NewFromInt(total).Mul(c.rate).RoundBank(0).IntPart()
}

// Split returns the platform commission and the worker earning. The two
// always add up to total.
func (c *Calculator) Split(total int64) (commission, earning int64) {
	commission = c.Commission(total)
	return commission, total - commission
}

type Quote struct {
	StartDate     time.Time
	EndDate       time.Time
	TotalDays     int
	RatePerDay    int64
	TotalAmount   int64
	Commission    int64
	WorkerEarning int64
}

func (c *Calculator) Quote(ratePerDay int64, start, end time.Time) (Quote, error) {
	if ratePerDay <= 0 {
		return Quote{}, apperr.Validation("daily rate must be positive")
	}

	days, err := TotalDays(start, end)
	if err != nil {
		return Quote{}, err
	}

	if int64(days) > math.MaxInt64/ratePerDay {
		return Quote{}, apperr.Validation("booking of %d days at %d per day is too large", days, ratePerDay)
	}

	total := TotalAmount(ratePerDay, days)
	commission, earning := c.Split(total)

	return Quote{
		StartDate:     dateOnly(start),
		EndDate:       dateOnly(end),
		TotalDays:     days,
		RatePerDay:    ratePerDay,
		TotalAmount:   total,
		Commission:    commission,
		WorkerEarning: earning,
	}, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
