package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}

// MonthPeriod identifies a single calendar month.
type MonthPeriod struct {
	Year  int `json:"year"`
	Month int `json:"month"` // 1..12
}

// Before reports whether p is strictly earlier than other.
func (p MonthPeriod) Before(other MonthPeriod) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// PeriodOf returns the MonthPeriod containing t.
func PeriodOf(t time.Time) MonthPeriod {
	return MonthPeriod{Year: t.Year(), Month: int(t.Month())}
}
