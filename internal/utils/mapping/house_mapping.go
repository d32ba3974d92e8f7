package mapping

import (
	"github.com/griyakita/ipl_ledger_app/internal/core/domain"
	"github.com/griyakita/ipl_ledger_app/internal/models"
)

// ToDomainHouse converts a model House to a domain House.
func ToDomainHouse(m models.House) domain.House {
	return domain.House{
		HouseID:     m.HouseID,
		Code:        m.Code,
		HouseTypeID: m.HouseTypeID,
		ResidentID:  m.ResidentID,
		MonthlyRate: m.MonthlyRate,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelHouse converts a domain House to a model House.
func ToModelHouse(d domain.House) models.House {
	return models.House{
		HouseID:     d.HouseID,
		Code:        d.Code,
		HouseTypeID: d.HouseTypeID,
		ResidentID:  d.ResidentID,
		MonthlyRate: d.MonthlyRate,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainHouseType converts a model HouseType to a domain HouseType.
func ToDomainHouseType(m models.HouseType) domain.HouseType {
	return domain.HouseType{
		HouseTypeID: m.HouseTypeID,
		Name:        m.Name,
		MonthlyRate: m.MonthlyRate,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
