package annotator

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/aretw0/tenor/pkg/core"
)

type rateLimited struct {
	inner   core.Annotator
	limiter *rate.Limiter
}

// RateLimit caps calls to a at perSecond with the given burst. It keeps the
// concurrency guarantee of a and only delays calls, never drops them.
// A non-positive perSecond returns a unchanged.
func RateLimit(a core.Annotator, perSecond float64, burst int) core.Annotator {
	if perSecond <= 0 {
		return a
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimited{inner: a, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (r *rateLimited) Annotate(ctx context.Context, paragraph string) ([]core.SentenceResult, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.Annotate(ctx, paragraph)
}
