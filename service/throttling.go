package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/log"
	"post-analysis-service/domain"
)

type CounterRepo interface {
	Get(ctx context.Context, key string) (int, error)
	Increment(ctx context.Context, key string) (int, error)
	Decrement(ctx context.Context, key string) error
}

type Throttling struct {
	counters    CounterRepo
	maxRequests int
	delay       time.Duration
	logger      log.Logger
}

func NewThrottling(counters CounterRepo, maxRequests int, delay time.Duration, logger log.Logger) Throttling {
	return Throttling{
		counters:    counters,
		maxRequests: maxRequests,
		delay:       delay,
		logger:      logger,
	}
}

// Admit decides whether a client request may proceed.
// Each admission is counted and decays on its own timer,
// whatever happens to the request afterwards.
func (s Throttling) Admit(ctx context.Context, clientKey string) (*domain.RateLimitResult, error) {
	count, err := s.counters.Get(ctx, clientKey)
	if err != nil {
		return nil, errors.WithMessage(err, "counters get")
	}
	if count >= s.maxRequests {
		return &domain.RateLimitResult{Allow: false}, nil
	}

	_, err = s.counters.Increment(ctx, clientKey)
	if err != nil {
		return nil, errors.WithMessage(err, "counters increment")
	}

	time.AfterFunc(s.delay, func() {
		ctx := context.Background()
		err := s.counters.Decrement(ctx, clientKey)
		if err != nil {
			s.logger.Error(ctx, errors.WithMessage(err, "decrement counter"), log.String("clientKey", clientKey))
		}
	})

	return &domain.RateLimitResult{Allow: true}, nil
}
