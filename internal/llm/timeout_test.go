package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deadlineProvider reports whether the incoming context carried a deadline.
type deadlineProvider struct {
	hadDeadline bool
}

func (d *deadlineProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	_, d.hadDeadline = ctx.Deadline()
	<-ctx.Done()
	return nil, ctx.Err()
}

func (d *deadlineProvider) ModelID() string { return "deadline" }

func TestWithTimeout_BoundsCall(t *testing.T) {
	inner := &deadlineProvider{}
	p := WithTimeout(inner, 20*time.Millisecond)

	start := time.Now()
	_, err := p.Generate(context.Background(), Request{})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, inner.hadDeadline)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, "deadline", p.ModelID())
}

func TestWithTimeout_NonPositiveIsPassthrough(t *testing.T) {
	mock := NewMockText(`{"ok":true}`)
	assert.Same(t, mock, WithTimeout(mock, 0).(*MockProvider))
}
