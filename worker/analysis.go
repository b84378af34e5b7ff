package worker

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/txix-open/grmq/consumer"
	"github.com/txix-open/isp-kit/grmqx/handler"
	"github.com/txix-open/isp-kit/json"
	"post-analysis-service/domain"
	"post-analysis-service/entity"
	"post-analysis-service/service"
)

const requeueTimeout = 1 * time.Second

type PostRepo interface {
	Insert(ctx context.Context, post entity.Post) error
}

type Analysis struct {
	repo PostRepo
}

func NewAnalysis(repo PostRepo) Analysis {
	return Analysis{
		repo: repo,
	}
}

func (w Analysis) Handle(ctx context.Context, delivery *consumer.Delivery) handler.Result {
	return w.Process(ctx, delivery.Source().Body)
}

// Process runs a single message body to a terminal state.
// Transient failures requeue, unrecoverable ones go to the dead letter queue,
// a message is never silently dropped.
func (w Analysis) Process(ctx context.Context, body []byte) handler.Result {
	submission := domain.Submission{}
	err := json.Unmarshal(body, &submission)
	if err != nil {
		// a malformed payload can never become valid, requeueing it would loop forever
		return handler.MoveToDlq(errors.WithMessage(err, "json unmarshal submission"))
	}

	wordCount, averageWordLength := service.Analyze(submission.Text)

	err = w.repo.Insert(ctx, entity.Post{
		Id:                submission.Id,
		Text:              submission.Text,
		WordCount:         wordCount,
		AverageWordLength: averageWordLength,
	})
	switch {
	case errors.Is(err, domain.ErrPostAlreadyExists):
		// redelivery of an already persisted submission, the row stays untouched
		return handler.MoveToDlq(errors.WithMessage(err, "insert post"))
	case err != nil:
		return handler.Requeue(requeueTimeout, errors.WithMessage(err, "insert post"))
	}

	return handler.Ack()
}
