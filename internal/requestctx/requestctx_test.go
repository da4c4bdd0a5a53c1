package requestctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestField(t *testing.T) {
	f := Field(WithRequestID(context.Background(), "req-1"))
	assert.Equal(t, zap.String("requestId", "req-1"), f)
	assert.Equal(t, zapcore.SkipType, Field(context.Background()).Type)
}
