package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/bank_app/internal/apperrors"
	portsrepo "github.com/SscSPs/bank_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_app/internal/core/ports/services"
)

type healthService struct {
	BaseService
	checker portsrepo.HealthChecker
}

// NewHealthService reports whether the configured store answers within the store timeout.
func NewHealthService(checker portsrepo.HealthChecker, storeTimeout time.Duration) portssvc.HealthSvc {
	return &healthService{BaseService: BaseService{StoreTimeout: storeTimeout}, checker: checker}
}

func (s *healthService) Ping(ctx context.Context) error {
	if s.checker == nil {
		return nil
	}
	ctx, cancel := s.WithTimeout(ctx)
	defer cancel()

	err := s.checker.Ping(ctx)
	if err == nil {
		return nil
	}
	s.LogError(ctx, err, "Store health check failed")
	if errors.Is(err, apperrors.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err)
}
