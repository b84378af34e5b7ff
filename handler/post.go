package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/json"
	"post-analysis-service/domain"
	"post-analysis-service/httperrors"
	"post-analysis-service/request"
)

type PostService interface {
	Enqueue(ctx context.Context, req domain.CreatePostRequest) error
	Get(ctx context.Context, id string) (*domain.Post, error)
}

type Post struct {
	service PostService
}

func NewPost(service PostService) Post {
	return Post{
		service: service,
	}
}

func (h Post) Create(ctx *request.Context) error {
	req := domain.CreatePostRequest{}
	err := json.NewDecoder(ctx.Request().Body).Decode(&req)
	if err != nil {
		return httperrors.New(
			http.StatusBadRequest,
			"invalid request body",
			errors.WithMessage(err, "decode create post request"),
		)
	}
	if req.Id == "" || req.Text == "" {
		return httperrors.New(
			http.StatusBadRequest,
			"id and text are required",
			errors.New("empty id or text in create post request"),
		)
	}

	err = h.service.Enqueue(ctx.Context(), req)
	if err != nil {
		return httperrors.New(
			http.StatusInternalServerError,
			"Failed to create post",
			errors.WithMessage(err, "enqueue post"),
		)
	}

	return writeJson(ctx.ResponseWriter(), http.StatusCreated, domain.CreatePostResponse{
		Message: "Post enqueued successfully",
	})
}

func (h Post) GetById(ctx *request.Context) error {
	id := mux.Vars(ctx.Request())["id"]

	post, err := h.service.Get(ctx.Context(), id)
	switch {
	case errors.Is(err, domain.ErrPostNotFound):
		return httperrors.New(
			http.StatusNotFound,
			"Post not found",
			errors.WithMessagef(err, "get post '%s'", id),
		)
	case err != nil:
		return errors.WithMessagef(err, "get post '%s'", id)
	}

	return writeJson(ctx.ResponseWriter(), http.StatusOK, domain.GetPostResponse{
		Post: *post,
	})
}

func writeJson(w http.ResponseWriter, statusCode int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(body)
}
