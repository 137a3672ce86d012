package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	l := Logger()
	assert.NotNil(t, l)
}

func TestWithRequestID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctx = WithRequestID(ctx, "test-request-123")

	val := ctx.Value(requestIDKey)
	assert.Equal(t, "test-request-123", val)
}

func TestWithMailbox(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctx = WithMailbox(ctx, "mufg")

	val := ctx.Value(mailboxKey)
	assert.Equal(t, "mufg", val)
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		setupCtx func() context.Context
	}{
		{
			name:     "empty context",
			setupCtx: context.Background,
		},
		{
			name: "with request ID",
			setupCtx: func() context.Context {
				return WithRequestID(context.Background(), "req-123")
			},
		},
		{
			name: "with mailbox",
			setupCtx: func() context.Context {
				return WithMailbox(context.Background(), "inbox")
			},
		},
		{
			name: "with both",
			setupCtx: func() context.Context {
				ctx := WithRequestID(context.Background(), "req-123")
				return WithMailbox(ctx, "inbox")
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.NotNil(t, FromContext(tt.setupCtx()))
		})
	}
}
