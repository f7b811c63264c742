// Package pricing computes the tenancy cost of a stay.
//
// Monthly tiers pay one unit per calendar month touched by the stay, the
// trailing partial month included. Daily tiers pay one unit per day on a
// 30-day month convention: the 31st of a month is never billed and a
// February is padded up to 30 days once its last day is inside the stay.
package pricing

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Mode string

const (
	Monthly Mode = "monthly"
	Daily   Mode = "daily"
)

var (
	ErrInvalidDateRange = errors.New("end date precedes start date")
	ErrUnknownMode      = errors.New("unknown billing mode")
)

type Input struct {
	Start      time.Time
	End        time.Time
	UnitPrice  decimal.Decimal
	Mode       Mode
	Privileged bool
}

// Total returns the price of the stay. On ErrInvalidDateRange the returned
// total is zero, never negative.
func Total(in Input) (decimal.Decimal, error) {
	units, err := Units(in.Start, in.End, in.Mode)
	if err != nil {
		return decimal.Zero, err
	}
	if in.Privileged {
		return decimal.Zero, nil
	}
	return in.UnitPrice.Mul(decimal.NewFromInt(int64(units))), nil
}

// Units is the number of billable units between start and end, both inclusive.
func Units(start, end time.Time, mode Mode) (int, error) {
	start, end = dateOnly(start), dateOnly(end)
	if end.Before(start) {
		return 0, ErrInvalidDateRange
	}

	var units int
	switch mode {
	case Monthly:
		units = MonthDiff(start, end) + 1
	case Daily:
		units = dailyUnits(start, end)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	if units < 0 {
		return 0, ErrInvalidDateRange
	}
	return units, nil
}

// MonthDiff counts calendar month boundaries between start and end.
func MonthDiff(start, end time.Time) int {
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
}

func dailyUnits(start, end time.Time) int {
	if end.Day() == 31 {
		end = end.AddDate(0, 0, -1)
	}

	elapsed := daysBetween(start, end)

	var count31, febPadding int
	for m := firstOfMonth(start); !m.After(end); m = m.AddDate(0, 1, 0) {
		last := lastOfMonth(m)
		if last.Before(start) || last.After(end) {
			continue
		}
		switch {
		case last.Day() == 31:
			count31++
		case m.Month() == time.February:
			febPadding += 30 - last.Day()
		}
	}

	return elapsed + 1 + febPadding - count31
}

func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func lastOfMonth(t time.Time) time.Time {
	return firstOfMonth(t).AddDate(0, 1, -1)
}
