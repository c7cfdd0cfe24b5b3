// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/review-engine/pkg/types"
)

// Politeness paces outbound requests so scraped and rate-limited sources
// tolerate us: a shared token bucket bounds sustained request rate, a
// jittered delay breaks up request timing, and the User-Agent rotates
// through a fixed browser pool. One Politeness is shared by all workers of
// an engine run. Per prd001-aggregation R4.
type Politeness struct {
	limiter *rate.Limiter
	min     time.Duration
	max     time.Duration

	mu     sync.Mutex
	agents []string
	next   int
	rng    *rand.Rand
}

// NewPoliteness builds the pacing layer from search configuration. Zero
// values fall back to defaults: 2 req/s, the stock browser pool, no jitter
// when the delay range is empty.
func NewPoliteness(cfg types.SearchConfig) *Politeness {
	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 2
	}
	agents := cfg.UserAgents
	if len(agents) == 0 {
		agents = types.DefaultUserAgents
	}
	return &Politeness{
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		min:     cfg.DelayMin,
		max:     cfg.DelayMax,
		agents:  agents,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Wait blocks until the rate limiter grants a slot and the jittered delay
// has elapsed, or the context is cancelled.
func (p *Politeness) Wait(ctx context.Context) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	return sleepCtx(ctx, p.delay())
}

// UserAgent returns the next identity string from the rotation pool.
func (p *Politeness) UserAgent() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ua := p.agents[p.next%len(p.agents)]
	p.next++
	return ua
}

// delay draws the jittered inter-request delay from [min, max).
func (p *Politeness) delay() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.max <= p.min {
		return p.min
	}
	return p.min + time.Duration(p.rng.Int63n(int64(p.max-p.min)))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
