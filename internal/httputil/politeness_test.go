// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/review-engine/pkg/types"
)

func fastSearchConfig() types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			UserAgents: []string{"agent-a", "agent-b", "agent-c"},
		},
		DelayMin:      0,
		DelayMax:      time.Millisecond,
		RatePerSecond: 1000,
	}
}

func TestPolitenessUserAgentRotation(t *testing.T) {
	p := NewPoliteness(fastSearchConfig())

	got := []string{p.UserAgent(), p.UserAgent(), p.UserAgent(), p.UserAgent()}
	want := []string{"agent-a", "agent-b", "agent-c", "agent-a"}
	assert.Equal(t, want, got)
}

func TestPolitenessDefaultPool(t *testing.T) {
	p := NewPoliteness(types.SearchConfig{})

	seen := make(map[string]bool)
	for i := 0; i < len(types.DefaultUserAgents); i++ {
		seen[p.UserAgent()] = true
	}
	assert.Len(t, seen, len(types.DefaultUserAgents))
}

func TestPolitenessWaitRespectsDelayRange(t *testing.T) {
	cfg := fastSearchConfig()
	cfg.DelayMin = 20 * time.Millisecond
	cfg.DelayMax = 30 * time.Millisecond
	p := NewPoliteness(cfg)

	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestPolitenessWaitCancellation(t *testing.T) {
	cfg := fastSearchConfig()
	cfg.DelayMin = 5 * time.Second
	cfg.DelayMax = 10 * time.Second
	p := NewPoliteness(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := p.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
