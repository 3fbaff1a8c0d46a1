package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"consultancy-workers/internal/common/config"
	"consultancy-workers/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func fastClient(maxRetries int) *Client {
	return &Client{config: &ClientConfig{
		RetryConfig: &RetryConfig{
			MaxRetries: maxRetries,
			BaseDelay:  time.Millisecond,
			MaxDelay:   2 * time.Millisecond,
		},
	}}
}

func TestExecuteWithRetry_RetriesTransientErrors(t *testing.T) {
	c := fastClient(3)
	calls := 0

	result, err := c.ExecuteWithRetry(context.Background(), func(context.Context) (interface{}, error) {
		calls++
		if calls < 3 {
			return nil, status.Error(codes.Unavailable, "gateway down")
		}
		return "ok", nil
	}, "topology")

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestExecuteWithRetry_StopsOnPermanentError(t *testing.T) {
	c := fastClient(3)
	calls := 0

	_, err := c.ExecuteWithRetry(context.Background(), func(context.Context) (interface{}, error) {
		calls++
		return nil, status.Error(codes.NotFound, "no such job")
	}, "complete")

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, codes.NotFound, status.Code(errors.Unwrap(err)))
}

func TestExecuteWithRetry_GivesUpAfterMaxRetries(t *testing.T) {
	c := fastClient(2)
	calls := 0

	_, err := c.ExecuteWithRetry(context.Background(), func(context.Context) (interface{}, error) {
		calls++
		return nil, status.Error(codes.DeadlineExceeded, "slow")
	}, "topology")

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestExecuteWithRetry_HonoursCancellation(t *testing.T) {
	c := &Client{config: &ClientConfig{
		RetryConfig: &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ExecuteWithRetry(ctx, func(context.Context) (interface{}, error) {
		return nil, status.Error(codes.Unavailable, "down")
	}, "topology")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryableZeebeError(t *testing.T) {
	assert.True(t, isRetryableZeebeError(status.Error(codes.Unavailable, "")))
	assert.True(t, isRetryableZeebeError(status.Error(codes.ResourceExhausted, "")))
	assert.False(t, isRetryableZeebeError(status.Error(codes.InvalidArgument, "")))
	assert.False(t, isRetryableZeebeError(errors.New("plain")))
}

func TestConfigFromApp(t *testing.T) {
	cc := ConfigFromApp(config.CamundaConfig{
		BrokerAddress:          "zeebe:26500",
		UsePlaintextConnection: true,
		Timeout:                1500,
		RequestTimeout:         250,
	})

	assert.Equal(t, "zeebe:26500", cc.GatewayAddress)
	assert.True(t, cc.UsePlaintextConnection)
	assert.Equal(t, 1500*time.Millisecond, cc.ConnectionTimeout)
	assert.Equal(t, 250*time.Millisecond, cc.RequestTimeout)
	assert.Same(t, DefaultRetryConfig, cc.RetryConfig)
}

func TestStartWorker_Disabled(t *testing.T) {
	w := StartWorker(nil, "consultancy-workers", "compute-savings",
		config.WorkerConfig{Enabled: false}, nil, logger.NewNoOpLogger())
	assert.Nil(t, w)
	w.Stop()
}

func TestWorkerName(t *testing.T) {
	a := WorkerName("consultancy-workers", "compute-savings")
	b := WorkerName("consultancy-workers", "compute-savings")

	assert.Regexp(t, `^consultancy-workers-compute-savings-[0-9a-f]{8}$`, a)
	assert.NotEqual(t, a, b)
}
