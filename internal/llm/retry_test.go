package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Content: json.RawMessage(`{"ok":true}`)},
	)
	resp, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(resp.Content))
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	down := MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
	mock := NewMockProvider(down, down, down, down)

	_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, 3, mock.CallCount())
}

func TestRetry_ZeroAttemptsStillCallsOnce(t *testing.T) {
	mock := NewMockText("hi")
	cfg := fastRetry()
	cfg.MaxAttempts = 0

	resp, err := WithRetry(mock, cfg).Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Text())
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	bad := MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage("not json"), Err: errors.New("parse")}}
	mock := NewMockProvider(bad, bad, bad)

	_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
	var inv *ErrInvalidResponse
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetry_MaxTokensNotRetried(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrMaxTokensExceeded{Content: json.RawMessage(`{}`)}})

	_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_ContextErrorsNotRetried(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: context.Canceled})

	_, err := WithRetry(mock, fastRetry()).Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_BackoffHonorsRetryAfter(t *testing.T) {
	r := &RetryProvider{config: fastRetry()}
	wait := r.backoff(0, &ErrRateLimit{RetryAfter: 3 * time.Second})
	assert.Equal(t, 3*time.Second, wait)

	wait = r.backoff(10, errors.New("x"))
	assert.LessOrEqual(t, wait, time.Duration(float64(5*time.Millisecond)*1.2))
}
