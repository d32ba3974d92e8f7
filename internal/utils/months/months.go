// Package months holds the pure calendar arithmetic behind payment month
// allocation: which months a payment covers, where the next free month is,
// and which proposed months collide with already-claimed ones.
package months

import (
	"fmt"
	"time"

	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
)

// NextStartMonth returns the earliest month at or after today's month that is
// not in occupied. It walks forward one month at a time, wrapping
// December into January of the next year. With nothing occupied it returns
// the current month.
func NextStartMonth(occupied []domain.MonthPeriod, today time.Time) domain.MonthPeriod {
	taken := make(map[domain.MonthPeriod]struct{}, len(occupied))
	for _, p := range occupied {
		taken[p] = struct{}{}
	}

	candidate := domain.PeriodOf(today)
	for {
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
		candidate.Month++
		if candidate.Month > 12 {
			candidate.Month = 1
			candidate.Year++
		}
	}
}

// CoveredMonths returns exactly n consecutive month cells beginning at start.
// Zero-based month arithmetic handles year rollover uniformly.
func CoveredMonths(start domain.MonthPeriod, n int) []domain.MonthPeriod {
	covered := make([]domain.MonthPeriod, 0, n)
	for i := 0; i < n; i++ {
		total := (start.Month - 1) + i
		covered = append(covered, domain.MonthPeriod{
			Year:  start.Year + total/12,
			Month: total%12 + 1,
		})
	}
	return covered
}

// Overlap returns the subset of proposed months that are already occupied,
// in proposal order. A non-empty result means the payment must be refused.
func Overlap(occupied []domain.MonthPeriod, proposed []domain.MonthPeriod) []domain.MonthPeriod {
	taken := make(map[domain.MonthPeriod]struct{}, len(occupied))
	for _, p := range occupied {
		taken[p] = struct{}{}
	}

	var colliding []domain.MonthPeriod
	for _, p := range proposed {
		if _, ok := taken[p]; ok {
			colliding = append(colliding, p)
		}
	}
	return colliding
}

// Label formats a month cell for display, e.g. "March 2026".
func Label(p domain.MonthPeriod) string {
	return fmt.Sprintf("%s %d", time.Month(p.Month).String(), p.Year)
}

// FormatPeriods renders month cells as a compact comma-separated list,
// e.g. "2026-03, 2026-04". Used in conflict error messages.
func FormatPeriods(periods []domain.MonthPeriod) string {
	out := ""
	for i, p := range periods {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%04d-%02d", p.Year, p.Month)
	}
	return out
}
