package resilient

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"kgraph-backend/application/ports"
	"kgraph-backend/domain/core/entities"
)

// BreakerConfig holds configuration for the knowledge store circuit breaker
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// FailureThreshold is the failure ratio that trips the breaker
	FailureThreshold float64
	// MinRequests is the minimum sample size before the ratio is evaluated
	MinRequests uint32
}

// DefaultBreakerConfig returns a default configuration for the breaker
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// KnowledgeStore decorates another knowledge store with a circuit breaker,
// shedding load when the backing store is failing. The graph core itself
// never retries; resilience policy lives in this decorator.
type KnowledgeStore struct {
	inner   ports.KnowledgeStore
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewKnowledgeStore wraps a knowledge store with a circuit breaker
func NewKnowledgeStore(inner ports.KnowledgeStore, config BreakerConfig, logger *zap.Logger) *KnowledgeStore {
	if logger == nil {
		logger = zap.NewNop()
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Knowledge store circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &KnowledgeStore{
		inner:   inner,
		breaker: breaker,
		logger:  logger,
	}
}

// Query forwards to the wrapped store through the circuit breaker
func (s *KnowledgeStore) Query(ctx context.Context, query ports.KnowledgeQuery) ([]entities.Knowledge, error) {
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.inner.Query(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	return result.([]entities.Knowledge), nil
}

// State returns the breaker's current state, for health reporting
func (s *KnowledgeStore) State() gobreaker.State {
	return s.breaker.State()
}
