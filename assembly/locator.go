package assembly

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	grmqpub "github.com/txix-open/grmq/publisher"
	"github.com/txix-open/grmq/topology"
	"github.com/txix-open/isp-kit/db"
	"github.com/txix-open/isp-kit/grmqx"
	rmqhandler "github.com/txix-open/isp-kit/grmqx/handler"
	"github.com/txix-open/isp-kit/log"

	"post-analysis-service/conf"
	"post-analysis-service/counter"
	"post-analysis-service/handler"
	"post-analysis-service/middleware"
	"post-analysis-service/repository"
	"post-analysis-service/service"
	"post-analysis-service/worker"
)

var (
	_ service.SubmissionPublisher = (*grmqpub.Publisher)(nil)
)

type Config struct {
	HttpHandler http.Handler
	RmqConfig   grmqx.Config
}

type Locator struct {
	logger log.Logger
	db     db.DB
}

func NewLocator(logger log.Logger, db db.DB) Locator {
	return Locator{
		logger: logger,
		db:     db,
	}
}

func (l Locator) Config(cfg conf.Remote, redisCli redis.UniversalClient) Config {
	queue := cfg.Rmq.QueueOrDefault()

	publisher := cfg.Rmq.PublisherConfig().DefaultPublisher(grmqx.PublisherLog(l.logger, false))

	postRepo := repository.NewPost(l.db)
	postCache := repository.NewPostCache(cfg.Caching.PostTtl())
	postService := service.NewPost(publisher, postCache, postRepo)

	var counters service.CounterRepo
	if redisCli != nil {
		counters = repository.NewRedisCounters(redisCli, cfg.Throttling.Window())
	} else {
		counters = repository.NewMemoryCounters(counter.NewStore(cfg.Throttling.Window()))
	}
	throttlingService := service.NewThrottling(
		counters,
		cfg.Throttling.MaxRequestsOrDefault(),
		cfg.Throttling.Delay(),
		l.logger,
	)

	postHandler := handler.NewPost(postService)
	entrypoint := func(controller middleware.Handler) http.Handler {
		chain := middleware.Chain(
			controller,
			middleware.RequestId(),
			middleware.Logger(l.logger, cfg.Logging.RequestLogEnable),
			middleware.ErrorHandler(l.logger),
			middleware.Throttling(throttlingService),
		)
		return middleware.Entrypoint(cfg.Http.MaxRequestBodySize(), chain, l.logger)
	}

	router := mux.NewRouter()
	router.Handle("/api/posts", entrypoint(middleware.HandlerFunc(postHandler.Create))).
		Methods(http.MethodPost)
	router.Handle("/api/posts/{id}", entrypoint(middleware.HandlerFunc(postHandler.GetById))).
		Methods(http.MethodGet)

	analysisWorker := worker.NewAnalysis(postRepo)
	consumer := cfg.Rmq.ConsumerConfig().DefaultConsumer(
		rmqhandler.NewSync(l.logger, analysisWorker),
		grmqx.ConsumerLog(l.logger, false),
	)
	rmqConfig := grmqx.NewConfig(
		cfg.Rmq.Client.Url(),
		grmqx.WithPublishers(publisher),
		grmqx.WithConsumers(consumer),
		grmqx.WithDeclarations(topology.New(
			topology.WithQueue(queue, topology.WithDLQ(true)),
		)),
	)

	return Config{
		HttpHandler: router,
		RmqConfig:   rmqConfig,
	}
}
