package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/txix-open/isp-kit/log"
	"post-analysis-service/counter"
	"post-analysis-service/repository"
	"post-analysis-service/service"
)

func TestAdmitUpToLimit(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	counters := repository.NewMemoryCounters(counter.NewStore(1 * time.Hour))
	throttling := service.NewThrottling(counters, 3, 1*time.Hour, testLogger(t))

	for range 3 {
		result, err := throttling.Admit(context.Background(), "client")
		require.NoError(err)
		require.True(result.Allow)
	}

	result, err := throttling.Admit(context.Background(), "client")
	require.NoError(err)
	require.False(result.Allow)
}

func TestAdmitIsolatesClients(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	counters := repository.NewMemoryCounters(counter.NewStore(1 * time.Hour))
	throttling := service.NewThrottling(counters, 1, 1*time.Hour, testLogger(t))

	result, err := throttling.Admit(context.Background(), "client1")
	require.NoError(err)
	require.True(result.Allow)

	result, err = throttling.Admit(context.Background(), "client1")
	require.NoError(err)
	require.False(result.Allow)

	result, err = throttling.Admit(context.Background(), "client2")
	require.NoError(err)
	require.True(result.Allow)
}

func TestAdmissionDecaysAfterDelay(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	counters := repository.NewMemoryCounters(counter.NewStore(1 * time.Hour))
	throttling := service.NewThrottling(counters, 1, 200*time.Millisecond, testLogger(t))

	result, err := throttling.Admit(context.Background(), "client")
	require.NoError(err)
	require.True(result.Allow)

	result, err = throttling.Admit(context.Background(), "client")
	require.NoError(err)
	require.False(result.Allow)

	time.Sleep(500 * time.Millisecond)

	result, err = throttling.Admit(context.Background(), "client")
	require.NoError(err)
	require.True(result.Allow)
}

func TestCounterReturnsToPriorValue(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	counters := repository.NewMemoryCounters(counter.NewStore(1 * time.Hour))
	throttling := service.NewThrottling(counters, 10, 200*time.Millisecond, testLogger(t))

	_, err := throttling.Admit(context.Background(), "client")
	require.NoError(err)

	count, err := counters.Get(context.Background(), "client")
	require.NoError(err)
	require.EqualValues(1, count)

	time.Sleep(500 * time.Millisecond)

	count, err = counters.Get(context.Background(), "client")
	require.NoError(err)
	require.EqualValues(0, count)
}

func testLogger(t *testing.T) log.Logger {
	logger, err := log.New(log.WithLevel(log.DebugLevel))
	require.NoError(t, err)
	return logger
}
