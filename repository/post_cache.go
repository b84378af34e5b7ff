package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/json"
	"post-analysis-service/cache"
	"post-analysis-service/domain"
	"post-analysis-service/entity"
)

type PostCache struct {
	cache    *cache.Cache
	lifeTime time.Duration
}

func NewPostCache(lifeTime time.Duration) PostCache {
	return PostCache{
		cache:    cache.New(),
		lifeTime: lifeTime,
	}
}

func (r PostCache) Get(ctx context.Context, id string) (*entity.Post, error) {
	data, ok := r.cache.Get(id)
	if !ok {
		return nil, domain.ErrPostCacheMiss
	}

	post := entity.Post{}
	err := json.Unmarshal(data, &post)
	if err != nil {
		return nil, errors.WithMessage(err, "json unmarshal post")
	}

	return &post, nil
}

func (r PostCache) Set(ctx context.Context, post entity.Post) error {
	data, err := json.Marshal(post)
	if err != nil {
		return errors.WithMessage(err, "json marshal post")
	}

	r.cache.Set(post.Id, data, r.lifeTime)

	return nil
}
