package mapping

import (
	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	"github.com/griyakita/ipl_ledger_app/internal/models"
)

// ToModelIncome converts a domain Income to a model Income.
func ToModelIncome(d domain.Income) models.Income {
	return models.Income{
		IncomeID:    d.IncomeID,
		Date:        d.Date,
		Category:    d.Category,
		Amount:      d.Amount,
		Description: d.Description,
		PaymentID:   d.PaymentID,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainIncome converts a model Income to a domain Income.
func ToDomainIncome(m models.Income) domain.Income {
	return domain.Income{
		IncomeID:    m.IncomeID,
		Date:        m.Date,
		Category:    m.Category,
		Amount:      m.Amount,
		Description: m.Description,
		PaymentID:   m.PaymentID,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainIncomeSlice converts a slice of model Incomes.
func ToDomainIncomeSlice(ms []models.Income) []domain.Income {
	out := make([]domain.Income, len(ms))
	for i, m := range ms {
		out[i] = ToDomainIncome(m)
	}
	return out
}
