package domain

import (
	"github.com/pkg/errors"
)

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrPostAlreadyExists = errors.New("post already exists")
	ErrPostCacheMiss     = errors.New("post not found in cache")
)
