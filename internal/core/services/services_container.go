package services

import (
	portsrepo "github.com/griyakita/ipl_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/griyakita/ipl_ledger_app/internal/core/ports/services"
	"github.com/griyakita/ipl_ledger_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Settings first since both income derivation and payment submission
	// consult its policies.
	container.Settings = NewSettingsService(repos.SettingsRepo, cfg.SettingsCacheTTL)

	container.Income = NewIncomeService(
		repos.IncomeRepo,
		repos.HouseRepo,
		repos.UserRepo,
		container.Settings,
	)

	container.Payment = NewPaymentService(
		repos.PaymentRepo,
		repos.HouseRepo,
		repos.UserRepo,
		container.Income,
		container.Settings,
	)

	container.House = NewHouseService(repos.HouseRepo, repos.UserRepo)
	container.User = NewUserService(repos.UserRepo)
	container.TokenService = NewTokenService(cfg)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}

// NewReconcileRunner wires the offline backfill sweep against the same
// repositories and derivation logic the API uses.
func NewReconcileRunner(cfg *config.Config, repos portsrepo.RepositoryProvider) portssvc.ReconcileSvcFacade {
	settings := NewSettingsService(repos.SettingsRepo, cfg.SettingsCacheTTL)
	income := NewIncomeService(repos.IncomeRepo, repos.HouseRepo, repos.UserRepo, settings)
	return NewReconcileService(repos.PaymentRepo, repos.IncomeRepo, income)
}
