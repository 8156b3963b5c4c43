package backend

import (
	"context"
	"fmt"

	"exptracker/internal/amqp"
	applog "exptracker/internal/log"
	"exptracker/internal/persist"
	"exptracker/internal/persist/file"
	"exptracker/internal/services"
	"exptracker/internal/storage"
)

// DialFunc connects a store-saved publisher
type DialFunc func(ctx context.Context, url, exchange, queue string, logger *applog.Logger) (services.Publisher, error)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
	dial   DialFunc
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) *DefaultFactory {
	if logger == nil {
		logger = applog.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
		dial:   dialAMQP,
	}
}

// WithDialer replaces the AMQP dialer; used by tests
func (f *DefaultFactory) WithDialer(dial DialFunc) *DefaultFactory {
	f.dial = dial
	return f
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		gateway persist.Gateway
		closer  CleanupFunc
	)
	switch config.Type {
	case FileBackend:
		gateway = file.New(config.DataFile, f.logger)
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		gateway, closer = repo, repo.Close
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	f.logger.InfoContext(ctx, "Initialized persistence backend",
		applog.FieldBackend, config.Type,
		applog.FieldDataPath, config.DataLocation())

	if config.AMQPURL == "" {
		return &BackendResult{Gateway: gateway, Cleanup: closer}, nil
	}

	publisher, err := f.dial(ctx, config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without notifications",
			applog.FieldError, err)
		return &BackendResult{Gateway: gateway, Cleanup: closer}, nil
	}

	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)

	service := services.NewPersistenceService(gateway, publisher, f.logger)
	return &BackendResult{
		Gateway: service,
		Cleanup: service.Close,
	}, nil
}

func dialAMQP(ctx context.Context, url, exchange, queue string, logger *applog.Logger) (services.Publisher, error) {
	client, err := amqp.NewClient(ctx, url, exchange, queue, logger)
	if err != nil {
		return nil, err
	}
	return client, nil
}
