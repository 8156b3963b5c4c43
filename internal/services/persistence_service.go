package services

import (
	"context"
	"errors"
	"fmt"

	"exptracker/internal/core"
	applog "exptracker/internal/log"
	"exptracker/internal/persist"
)

// Publisher announces a completed save.
type Publisher interface {
	PublishStoreSaved(ctx context.Context, count int, total float64) error
	Close() error
}

// Closer is implemented by gateways holding resources such as a database.
type Closer interface {
	Close() error
}

// PersistenceService saves through the local gateway first and then
// publishes a store-saved notification. Publishing never fails a save.
type PersistenceService struct {
	gateway   persist.Gateway
	publisher Publisher
	logger    *applog.Logger
}

var _ persist.Gateway = (*PersistenceService)(nil)

func NewPersistenceService(gateway persist.Gateway, publisher Publisher, logger *applog.Logger) *PersistenceService {
	if logger == nil {
		logger = applog.Discard()
	}
	return &PersistenceService{
		gateway:   gateway,
		publisher: publisher,
		logger:    logger.WithComponent(applog.ComponentPersist),
	}
}

// Save implements persist.Gateway
func (s *PersistenceService) Save(ctx context.Context, expenses []core.Expense) error {
	if err := s.gateway.Save(ctx, expenses); err != nil {
		return fmt.Errorf("save expenses: %w", err)
	}

	if err := s.publishStoreSaved(ctx, len(expenses), core.Total(expenses)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish store saved message",
			applog.FieldOperation, applog.OpPublish,
			applog.FieldError, err)
	}
	return nil
}

// Load implements persist.Gateway
func (s *PersistenceService) Load(ctx context.Context) persist.LoadResult {
	return s.gateway.Load(ctx)
}

func (s *PersistenceService) publishStoreSaved(ctx context.Context, count int, total float64) error {
	if s.publisher == nil {
		s.logger.WarnContext(ctx, "AMQP client not available, skipping store saved message")
		return nil
	}
	return s.publisher.PublishStoreSaved(ctx, count, total)
}

// Close closes both the gateway (when it holds resources) and the publisher
func (s *PersistenceService) Close() error {
	var errs []error

	if c, ok := s.gateway.(Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("gateway: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close persistence service: %w", err)
	}
	return nil
}
