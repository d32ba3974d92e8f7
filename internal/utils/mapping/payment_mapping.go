package mapping

import (
	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	"github.com/griyakita/ipl_ledger_app/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment.
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:     d.PaymentID,
		ResidentID:    d.ResidentID,
		HouseID:       d.HouseID,
		AmountMonths:  d.AmountMonths,
		TotalAmount:   d.TotalAmount,
		Status:        models.PaymentStatus(d.Status),
		ProofRef:      d.ProofRef,
		RejectionNote: d.RejectionNote,
		ApprovedBy:    d.ApprovedBy,
		ApprovedAt:    d.ApprovedAt,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment.
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:     m.PaymentID,
		ResidentID:    m.ResidentID,
		HouseID:       m.HouseID,
		AmountMonths:  m.AmountMonths,
		TotalAmount:   m.TotalAmount,
		Status:        domain.PaymentStatus(m.Status),
		ProofRef:      m.ProofRef,
		RejectionNote: m.RejectionNote,
		ApprovedBy:    m.ApprovedBy,
		ApprovedAt:    m.ApprovedAt,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPaymentMonth converts a domain PaymentMonth to a model PaymentMonth.
func ToModelPaymentMonth(d domain.PaymentMonth) models.PaymentMonth {
	return models.PaymentMonth{
		PaymentMonthID: d.PaymentMonthID,
		PaymentID:      d.PaymentID,
		HouseID:        d.HouseID,
		Year:           d.Year,
		Month:          d.Month,
		Released:       d.Released,
	}
}

// ToDomainPaymentMonth converts a model PaymentMonth to a domain PaymentMonth.
func ToDomainPaymentMonth(m models.PaymentMonth) domain.PaymentMonth {
	return domain.PaymentMonth{
		PaymentMonthID: m.PaymentMonthID,
		PaymentID:      m.PaymentID,
		HouseID:        m.HouseID,
		Year:           m.Year,
		Month:          m.Month,
		Released:       m.Released,
	}
}

// ToDomainPaymentMonthSlice converts a slice of model PaymentMonths.
func ToDomainPaymentMonthSlice(ms []models.PaymentMonth) []domain.PaymentMonth {
	out := make([]domain.PaymentMonth, len(ms))
	for i, m := range ms {
		out[i] = ToDomainPaymentMonth(m)
	}
	return out
}
