package service

import (
	"context"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/txix-open/isp-kit/json"
	"post-analysis-service/domain"
	"post-analysis-service/entity"
)

type SubmissionPublisher interface {
	Publish(ctx context.Context, msg *amqp.Publishing) error
}

type PostCacheRepo interface {
	Get(ctx context.Context, id string) (*entity.Post, error)
	Set(ctx context.Context, post entity.Post) error
}

type PostRepo interface {
	GetById(ctx context.Context, id string) (*entity.Post, error)
}

type Post struct {
	publisher SubmissionPublisher
	cache     PostCacheRepo
	repo      PostRepo
}

func NewPost(publisher SubmissionPublisher, cache PostCacheRepo, repo PostRepo) Post {
	return Post{
		publisher: publisher,
		cache:     cache,
		repo:      repo,
	}
}

// Enqueue publishes the submission for deferred analysis.
// The message is persistent, delivery mode is set by the publisher middleware.
func (s Post) Enqueue(ctx context.Context, req domain.CreatePostRequest) error {
	body, err := json.Marshal(domain.Submission{
		Id:   req.Id,
		Text: req.Text,
	})
	if err != nil {
		return errors.WithMessage(err, "json marshal submission")
	}

	err = s.publisher.Publish(ctx, &amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return errors.WithMessage(err, "publish submission")
	}

	return nil
}

// Get reads an analysis result through the cache.
// A miss falls back to the store and populates the cache,
// absent ids are never cached.
func (s Post) Get(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.cache.Get(ctx, id)
	if errors.Is(err, domain.ErrPostCacheMiss) {
		post, err = s.repo.GetById(ctx, id)
		if err != nil {
			return nil, errors.WithMessage(err, "post repo get by id")
		}
		err = s.cache.Set(ctx, *post)
		if err != nil {
			return nil, errors.WithMessage(err, "post cache set")
		}
		return s.toDomain(post), nil
	}
	if err != nil {
		return nil, errors.WithMessage(err, "post cache get")
	}

	return s.toDomain(post), nil
}

func (s Post) toDomain(post *entity.Post) *domain.Post {
	return &domain.Post{
		Id:                post.Id,
		Text:              post.Text,
		WordCount:         post.WordCount,
		AverageWordLength: post.AverageWordLength,
	}
}
