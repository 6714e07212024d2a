// Package llm provides chat.Generator implementations backed by hosted
// model providers.
package llm

import (
	"context"
	"time"
)

// Options carries the sampling and request parameters shared by the
// provider clients. Zero values fall back to provider defaults.
type Options struct {
	Model            string
	MaxTokens        int
	Temperature      float32
	PresencePenalty  float32
	FrequencyPenalty float32
	Timeout          time.Duration
}

// withTimeout derives a deadline-bound context when a timeout is set.
// The returned cancel func is always safe to call.
func (o Options) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, o.Timeout)
}
