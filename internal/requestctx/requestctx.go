// Package requestctx carries the request id below the transport layer so
// domain services can tag their log lines with it.
package requestctx

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(ctxKey{}).(string); ok {
		return value
	}
	return ""
}

// Field is the zap field for the request id; zap.Skip when there is none.
func Field(ctx context.Context) zap.Field {
	if id := GetRequestID(ctx); id != "" {
		return zap.String("requestId", id)
	}
	return zap.Skip()
}
