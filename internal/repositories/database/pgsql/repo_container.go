package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/griyakita/ipl_ledger_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	paymentRepo := newPgxPaymentRepository(dbPool)
	incomeRepo := newPgxIncomeRepository(dbPool)
	houseRepo := newPgxHouseRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	settingsRepo := newPgxSettingsRepository(dbPool)

	return portsrepo.RepositoryProvider{
		PaymentRepo:  paymentRepo,
		IncomeRepo:   incomeRepo,
		HouseRepo:    houseRepo,
		UserRepo:     userRepo,
		SettingsRepo: settingsRepo,
	}
}
