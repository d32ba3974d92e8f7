package mapping

import (
	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	"github.com/griyakita/ipl_ledger_app/internal/models"
)

// ToDomainUploadWindowConfig converts a model UploadWindowConfig to the domain shape.
func ToDomainUploadWindowConfig(m models.UploadWindowConfig) domain.UploadWindowConfig {
	return domain.UploadWindowConfig{
		Enabled:     m.Enabled,
		StartDay:    m.StartDay,
		EndDay:      m.EndDay,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelUploadWindowConfig converts a domain UploadWindowConfig to the model shape.
func ToModelUploadWindowConfig(d domain.UploadWindowConfig) models.UploadWindowConfig {
	return models.UploadWindowConfig{
		Enabled:     d.Enabled,
		StartDay:    d.StartDay,
		EndDay:      d.EndDay,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExcludedIncomePeriod converts a model ExcludedIncomePeriod to the domain shape.
func ToDomainExcludedIncomePeriod(m models.ExcludedIncomePeriod) domain.ExcludedIncomePeriod {
	return domain.ExcludedIncomePeriod{
		ExcludedPeriodID: m.ExcludedPeriodID,
		Year:             m.Year,
		Month:            m.Month,
		Reason:           m.Reason,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelExcludedIncomePeriod converts a domain ExcludedIncomePeriod to the model shape.
func ToModelExcludedIncomePeriod(d domain.ExcludedIncomePeriod) models.ExcludedIncomePeriod {
	return models.ExcludedIncomePeriod{
		ExcludedPeriodID: d.ExcludedPeriodID,
		Year:             d.Year,
		Month:            d.Month,
		Reason:           d.Reason,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}
