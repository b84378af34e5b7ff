package middleware

import (
	"net/http"
	"time"

	"github.com/txix-open/isp-kit/log"
	"post-analysis-service/request"
)

type writerWrapper struct {
	http.ResponseWriter

	statusCode int
}

func (w *writerWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *writerWrapper) StatusCode() int {
	if w.statusCode == 0 {
		return http.StatusOK
	}
	return w.statusCode
}

func Logger(logger log.Logger, enableRequestLogging bool) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx *request.Context) error {
			if !enableRequestLogging {
				return next.Handle(ctx)
			}

			now := time.Now()
			writer := &writerWrapper{ResponseWriter: ctx.ResponseWriter()}
			ctx.SetResponseWriter(writer)

			logger.Debug(
				ctx.Context(),
				"http request",
				log.String("method", ctx.Request().Method),
				log.String("endpoint", ctx.Endpoint()),
			)

			err := next.Handle(ctx)

			logger.Debug(
				ctx.Context(),
				"http response",
				log.Int("statusCode", writer.StatusCode()),
				log.Int64("elapsedTimeMs", time.Since(now).Milliseconds()),
			)

			return err
		})
	}
}
