package middleware

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"post-analysis-service/domain"
	"post-analysis-service/httperrors"
	"post-analysis-service/request"
)

type Throttler interface {
	Admit(ctx context.Context, clientKey string) (*domain.RateLimitResult, error)
}

func Throttling(throttler Throttler) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx *request.Context) error {
			clientIp := ctx.ClientIp()

			result, err := throttler.Admit(ctx.Context(), clientIp)
			if err != nil {
				return errors.WithMessage(err, "throttling: admit")
			}
			if !result.Allow {
				return httperrors.New(
					http.StatusTooManyRequests,
					"Too many requests",
					errors.Errorf("throttling: rate limit has been reached for client '%s'", clientIp),
				)
			}

			return next.Handle(ctx)
		})
	}
}
