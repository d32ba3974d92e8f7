package dto

import (
	"time"

	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MonthPeriod is the wire shape of one calendar month cell.
type MonthPeriod struct {
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// ToDomainPeriod converts the wire month cell to the domain shape.
func (p MonthPeriod) ToDomainPeriod() domain.MonthPeriod {
	return domain.MonthPeriod{Year: p.Year, Month: p.Month}
}

// FromDomainPeriod converts a domain month cell to the wire shape.
func FromDomainPeriod(p domain.MonthPeriod) MonthPeriod {
	return MonthPeriod{Year: p.Year, Month: p.Month}
}

// FromDomainPeriods converts a slice of domain month cells.
func FromDomainPeriods(ps []domain.MonthPeriod) []MonthPeriod {
	out := make([]MonthPeriod, len(ps))
	for i, p := range ps {
		out[i] = FromDomainPeriod(p)
	}
	return out
}

// SubmitPaymentRequest is a resident's own payment submission.
type SubmitPaymentRequest struct {
	HouseID      string `json:"houseID" binding:"required"`
	AmountMonths int    `json:"amountMonths" binding:"required,min=1,max=12"`
	ProofRef     string `json:"proofRef" binding:"required"`
}

// AdminCreatePaymentRequest is an administrator creating a payment on behalf
// of a resident; the upload window does not apply.
type AdminCreatePaymentRequest struct {
	ResidentID   string `json:"residentID" binding:"required"`
	HouseID      string `json:"houseID" binding:"required"`
	AmountMonths int    `json:"amountMonths" binding:"required,min=1,max=12"`
	ProofRef     string `json:"proofRef"`
}

// BulkCreatePaymentsRequest marks a set of houses paid for explicit months.
type BulkCreatePaymentsRequest struct {
	HouseIDs []string      `json:"houseIDs" binding:"required,min=1"`
	Months   []MonthPeriod `json:"months" binding:"required,min=1,dive"`
	ProofRef string        `json:"proofRef"`
}

// BulkApprovePaymentsRequest approves a batch of payments per-item.
type BulkApprovePaymentsRequest struct {
	PaymentIDs []string `json:"paymentIDs" binding:"required,min=1"`
}

// RejectPaymentRequest rejects a pending payment; the note is mandatory.
type RejectPaymentRequest struct {
	Note string `json:"note" binding:"required"`
}

// ListPaymentsParams narrows and paginates payment listings.
type ListPaymentsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
	Status    *string `form:"status"`
	HouseID   *string `form:"houseID"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID     string          `json:"paymentID"`
	ResidentID    string          `json:"residentID"`
	HouseID       string          `json:"houseID"`
	AmountMonths  int             `json:"amountMonths"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        string          `json:"status"`
	ProofRef      string          `json:"proofRef"`
	RejectionNote *string         `json:"rejectionNote,omitempty"`
	ApprovedBy    *string         `json:"approvedBy,omitempty"`
	ApprovedAt    *time.Time      `json:"approvedAt,omitempty"`
	Months        []MonthPeriod   `json:"months,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	resp := PaymentResponse{
		PaymentID:     p.PaymentID,
		ResidentID:    p.ResidentID,
		HouseID:       p.HouseID,
		AmountMonths:  p.AmountMonths,
		TotalAmount:   p.TotalAmount,
		Status:        string(p.Status),
		ProofRef:      p.ProofRef,
		RejectionNote: p.RejectionNote,
		ApprovedBy:    p.ApprovedBy,
		ApprovedAt:    p.ApprovedAt,
		CreatedAt:     p.CreatedAt,
	}
	for _, m := range p.Months {
		resp.Months = append(resp.Months, MonthPeriod{Year: m.Year, Month: m.Month})
	}
	return resp
}

// ListPaymentsResponse is a paginated payment listing.
type ListPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// BulkItemError names one failed item of a bulk operation.
type BulkItemError struct {
	HouseID   string `json:"houseID,omitempty"`
	PaymentID string `json:"paymentID,omitempty"`
	Reason    string `json:"reason"`
}

// BulkCreateResult reports a bulk create's per-item outcomes. The operation is
// not all-or-nothing: one house's conflict never blocks the rest.
type BulkCreateResult struct {
	Created []PaymentResponse `json:"created"`
	Errors  []BulkItemError   `json:"errors"`
}

// BulkApproveResult reports a bulk approval's per-item outcomes.
type BulkApproveResult struct {
	Approved []PaymentResponse `json:"approved"`
	Errors   []BulkItemError   `json:"errors"`
}

// AvailableMonthOption is a selectable free month for a house.
type AvailableMonthOption struct {
	Label string      `json:"label"` // e.g. "March 2026"
	Value MonthPeriod `json:"value"`
}
