package domain

// UploadWindowConfig gates which days of the month residents may submit new
// payments. Administrative, stored as a single versioned row.
type UploadWindowConfig struct {
	Enabled  bool `json:"enabled"`
	StartDay int  `json:"startDay"` // 1..31
	EndDay   int  `json:"endDay"`   // 1..31
	AuditFields
}

// ExcludedIncomePeriod flags a calendar month for which approved payments must
// not generate income, typically a migration cut-over month.
type ExcludedIncomePeriod struct {
	ExcludedPeriodID string `json:"excludedPeriodID"` // Primary key (UUID)
	Year             int    `json:"year"`
	Month            int    `json:"month"`
	Reason           string `json:"reason"`
	AuditFields
}
