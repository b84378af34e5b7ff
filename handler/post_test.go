package handler_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/txix-open/isp-kit/json"
	"github.com/txix-open/isp-kit/log"
	"post-analysis-service/domain"
	"post-analysis-service/handler"
	"post-analysis-service/middleware"
)

type postServiceStub struct {
	posts      map[string]domain.Post
	enqueued   []domain.CreatePostRequest
	enqueueErr error
}

func (s *postServiceStub) Enqueue(ctx context.Context, req domain.CreatePostRequest) error {
	if s.enqueueErr != nil {
		return s.enqueueErr
	}
	s.enqueued = append(s.enqueued, req)
	return nil
}

func (s *postServiceStub) Get(ctx context.Context, id string) (*domain.Post, error) {
	post, ok := s.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return &post, nil
}

type throttlerStub struct {
	allow bool
}

func (s throttlerStub) Admit(ctx context.Context, clientKey string) (*domain.RateLimitResult, error) {
	return &domain.RateLimitResult{Allow: s.allow}, nil
}

func testServer(t *testing.T, service handler.PostService, throttler middleware.Throttler) *httptest.Server {
	logger, err := log.New(log.WithLevel(log.DebugLevel))
	require.NoError(t, err)

	postHandler := handler.NewPost(service)
	entrypoint := func(controller middleware.Handler) http.Handler {
		chain := middleware.Chain(
			controller,
			middleware.RequestId(),
			middleware.Logger(logger, true),
			middleware.ErrorHandler(logger),
			middleware.Throttling(throttler),
		)
		return middleware.Entrypoint(1*1024*1024, chain, logger)
	}

	router := mux.NewRouter()
	router.Handle("/api/posts", entrypoint(middleware.HandlerFunc(postHandler.Create))).
		Methods(http.MethodPost)
	router.Handle("/api/posts/{id}", entrypoint(middleware.HandlerFunc(postHandler.GetById))).
		Methods(http.MethodGet)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJson(t *testing.T, url string, body any) *http.Response {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestCreatePost(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	service := &postServiceStub{}
	srv := testServer(t, service, throttlerStub{allow: true})

	id := uuid.New().String()
	resp := postJson(t, srv.URL+"/api/posts", domain.CreatePostRequest{Id: id, Text: "the quick brown fox"})
	require.EqualValues(http.StatusCreated, resp.StatusCode)

	result := domain.CreatePostResponse{}
	err := json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(err)
	require.NotEmpty(result.Message)

	require.Len(service.enqueued, 1)
	require.EqualValues(domain.CreatePostRequest{Id: id, Text: "the quick brown fox"}, service.enqueued[0])
}

func TestCreatePostEmptyBody(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	service := &postServiceStub{}
	srv := testServer(t, service, throttlerStub{allow: true})

	resp := postJson(t, srv.URL+"/api/posts", domain.CreatePostRequest{})
	require.EqualValues(http.StatusBadRequest, resp.StatusCode)
	require.Empty(service.enqueued)
}

func TestCreatePostPublishError(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	service := &postServiceStub{enqueueErr: errors.New("broker is down")}
	srv := testServer(t, service, throttlerStub{allow: true})

	resp := postJson(t, srv.URL+"/api/posts", domain.CreatePostRequest{Id: "p1", Text: "text"})
	require.EqualValues(http.StatusInternalServerError, resp.StatusCode)
}

func TestCreatePostThrottled(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	service := &postServiceStub{}
	srv := testServer(t, service, throttlerStub{allow: false})

	resp := postJson(t, srv.URL+"/api/posts", domain.CreatePostRequest{Id: "p1", Text: "text"})
	require.EqualValues(http.StatusTooManyRequests, resp.StatusCode)

	result := map[string]string{}
	err := json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(err)
	require.EqualValues("Too many requests", result["error"])
	require.Empty(service.enqueued)
}

func TestGetPost(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	service := &postServiceStub{posts: map[string]domain.Post{
		"p1": {Id: "p1", Text: "the quick brown fox", WordCount: 4, AverageWordLength: 4},
	}}
	srv := testServer(t, service, throttlerStub{allow: true})

	resp, err := http.Get(srv.URL + "/api/posts/p1")
	require.NoError(err)
	defer func() { _ = resp.Body.Close() }()
	require.EqualValues(http.StatusOK, resp.StatusCode)

	result := domain.GetPostResponse{}
	err = json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(err)
	require.EqualValues(domain.Post{
		Id:                "p1",
		Text:              "the quick brown fox",
		WordCount:         4,
		AverageWordLength: 4,
	}, result.Post)
}

func TestGetPostNotFound(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	service := &postServiceStub{}
	srv := testServer(t, service, throttlerStub{allow: true})

	resp, err := http.Get(srv.URL + "/api/posts/missing")
	require.NoError(err)
	defer func() { _ = resp.Body.Close() }()
	require.EqualValues(http.StatusNotFound, resp.StatusCode)
}
