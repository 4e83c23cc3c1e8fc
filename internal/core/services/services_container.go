package services

import (
	portsrepo "github.com/SscSPs/bank_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_app/internal/core/ports/services"
	"github.com/SscSPs/bank_app/internal/platform/config"
	"github.com/SscSPs/bank_app/internal/utils"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// analytics may be nil.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, analytics utils.AnalyticsSink) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The notifier is shared by the engine (publisher) and the stream handler (subscriber).
	container.Notifier = NewChangeNotifier()

	container.Account = NewAccountService(
		repos.AccountRepo,
		WithCredentialHasher(utils.NewBcryptHasher(cfg.BcryptCost)),
		WithAccountStoreTimeout(cfg.StoreTimeout),
	)

	engineOpts := []EngineOption{
		WithNotifier(container.Notifier),
		WithEngineStoreTimeout(cfg.StoreTimeout),
	}
	if analytics != nil {
		engineOpts = append(engineOpts, WithAnalytics(analytics))
	}
	container.Engine = NewTransactionEngine(repos.UnitOfWork, engineOpts...)

	container.Projector = NewViewProjector(repos.AccountRepo, repos.LedgerRepo, cfg.StoreTimeout)
	container.TokenService = NewTokenService(cfg)
	container.Health = NewHealthService(repos.Health, cfg.StoreTimeout)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade = (*accountService)(nil)
	_ portssvc.TokenSvcFacade   = (*tokenService)(nil)
	_ portssvc.HealthSvc        = (*healthService)(nil)
)
