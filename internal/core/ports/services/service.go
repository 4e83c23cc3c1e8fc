package services

import (
	"context"
)

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Account      AccountSvcFacade
	Engine       TransactionEngineSvc
	Projector    ViewProjectorSvc
	TokenService TokenSvcFacade
	Notifier     ChangeNotifierSvc
	Health       HealthSvc
}

// HealthSvc reports store reachability.
type HealthSvc interface {
	Ping(ctx context.Context) error
}
