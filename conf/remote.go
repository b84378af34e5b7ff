package conf

import (
	"time"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/dbx"
	"github.com/txix-open/isp-kit/grmqx"
	"github.com/txix-open/isp-kit/log"
)

const (
	defaultQueue              = "postAnalysisQueue"
	defaultWindowMs           = 60000
	defaultMaxRequests        = 100
	defaultDelayMs            = 1000
	defaultPostCacheTtlInSec  = 60
	defaultMaxRequestBodySize = 64
)

type Remote struct {
	Http       Http       `schema:"HTTP settings"`
	Logging    Logging    `schema:"Logging settings"`
	Database   dbx.Config `schema:"Database settings"`
	Rmq        Rmq        `schema:"RabbitMQ settings"`
	Throttling Throttling `schema:"Throttling settings"`
	Caching    Caching    `schema:"Caching settings"`
	Redis      *Redis     `schema:"Redis settings,optional, throttling counters are kept in memory when not set"`
}

type Http struct {
	MaxRequestBodySizeInMb int64 `schema:"Max request body size,in megabytes, 64 when empty"`
}

func (h Http) MaxRequestBodySize() int64 {
	sizeInMb := h.MaxRequestBodySizeInMb
	if sizeInMb <= 0 {
		sizeInMb = defaultMaxRequestBodySize
	}
	return sizeInMb * 1024 * 1024
}

type Logging struct {
	LogLevel         log.Level `schema:"Log level"`
	RequestLogEnable bool      `schema:"Enable request logging,requests are logged at debug level"`
}

type Rmq struct {
	Client grmqx.Connection `schema:"Connection settings"`
	Queue  string           `schema:"Queue name,postAnalysisQueue is used when empty"`
}

func (r Rmq) QueueOrDefault() string {
	if r.Queue == "" {
		return defaultQueue
	}
	return r.Queue
}

func (r Rmq) PublisherConfig() grmqx.Publisher {
	return grmqx.Publisher{
		RoutingKey: r.QueueOrDefault(),
	}
}

func (r Rmq) ConsumerConfig() grmqx.Consumer {
	return grmqx.Consumer{
		Queue:         r.QueueOrDefault(),
		Dlq:           true,
		PrefetchCount: 1,
		Concurrency:   1,
	}
}

type Throttling struct {
	WindowMs    int `schema:"Counter lifetime,in milliseconds, 60000 when empty"`
	MaxRequests int `schema:"Max live admissions per client,100 when empty"`
	DelayMs     int `schema:"Admission decay delay,in milliseconds, 1000 when empty"`
}

func (t Throttling) Window() time.Duration {
	windowMs := t.WindowMs
	if windowMs <= 0 {
		windowMs = defaultWindowMs
	}
	return time.Duration(windowMs) * time.Millisecond
}

func (t Throttling) MaxRequestsOrDefault() int {
	if t.MaxRequests <= 0 {
		return defaultMaxRequests
	}
	return t.MaxRequests
}

func (t Throttling) Delay() time.Duration {
	delayMs := t.DelayMs
	if delayMs <= 0 {
		delayMs = defaultDelayMs
	}
	return time.Duration(delayMs) * time.Millisecond
}

type Caching struct {
	PostTtlInSec int `schema:"Post cache lifetime,in seconds, 60 when empty"`
}

func (c Caching) PostTtl() time.Duration {
	ttlInSec := c.PostTtlInSec
	if ttlInSec <= 0 {
		ttlInSec = defaultPostCacheTtlInSec
	}
	return time.Duration(ttlInSec) * time.Second
}

type Redis struct {
	Address  string         `schema:"Address,required if sentinel is not set"`
	Username string         `schema:"Username"`
	Password string         `schema:"Password"`
	Sentinel *RedisSentinel `schema:"Sentinel settings,required if address is not set"`
}

type RedisSentinel struct {
	Addresses  []string `validate:"required" schema:"Cluster node addresses"`
	MasterName string   `validate:"required" schema:"Master name"`
	Username   string   `schema:"Sentinel username"`
	Password   string   `schema:"Sentinel password"`
}

func (r Remote) Validate() error {
	if r.Redis != nil && r.Redis.Sentinel == nil && r.Redis.Address == "" {
		return errors.New("invalid redis config. sentinel or address are required")
	}
	if r.Throttling.WindowMs < 0 || r.Throttling.MaxRequests < 0 || r.Throttling.DelayMs < 0 {
		return errors.New("throttling settings must not be negative")
	}
	return nil
}
