package models

// UploadWindowConfig is the single-row submission window configuration.
type UploadWindowConfig struct {
	Enabled  bool
	StartDay int
	EndDay   int
	AuditFields
}

// ExcludedIncomePeriod is one month flagged to suppress income derivation.
type ExcludedIncomePeriod struct {
	ExcludedPeriodID string
	Year             int
	Month            int
	Reason           string
	AuditFields
}
