package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchEndpoint_Defaults(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name      string
		path      string
		method    string
		wantLimit int
		wantNil   bool
	}{
		{"ai suggestions", "/api/ai/cv-suggestions", "POST", 20, false},
		{"create job", "/api/jobs", "POST", 100, false},
		{"update job", "/api/jobs/5f0c8a4e-7c1b-4f6e-9a53-2d7c1f0b9e11", "PUT", 100, false},
		{"delete job", "/api/jobs/5f0c8a4e-7c1b-4f6e-9a53-2d7c1f0b9e11", "DELETE", 100, false},
		{"health is unlimited", "/health", "GET", 0, false},
		{"list jobs uses default", "/api/jobs", "GET", 0, true},
		{"dashboard uses default", "/", "GET", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, match)
				return
			}
			require.NotNil(t, match)
			assert.Equal(t, tt.wantLimit, match.Limit)
		})
	}
}

func TestMatchEndpoint_ExactBeatsPrefix(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/api/jobs/", Method: "PUT", Limit: 1},
		{Path: "/api/jobs/special", Method: "PUT", Limit: 2},
	}

	assert.Equal(t, 2, MatchEndpoint("/api/jobs/special", "PUT", configs).Limit)
	assert.Equal(t, 1, MatchEndpoint("/api/jobs/other", "PUT", configs).Limit)
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(true, []string{" 10.0.0.1 ", ""}, ParseList("192.168.1.1, 192.168.1.2,"))

	assert.True(t, cfg.Enabled)
	assert.Equal(t, DefaultLimit, cfg.DefaultLimit)
	assert.Equal(t, time.Minute, cfg.DefaultWindow)
	assert.Equal(t, map[string]bool{"10.0.0.1": true}, cfg.Whitelist)
	assert.Equal(t, map[string]bool{"192.168.1.1": true, "192.168.1.2": true}, cfg.Blacklist)
	assert.NotEmpty(t, cfg.EndpointConfigs)
}

func TestParseList(t *testing.T) {
	assert.Nil(t, ParseList(""))
	assert.Equal(t, []string{"a", "b"}, ParseList(" a ,, b ,"))
}

func TestLimiter_AISuggestionsBurst(t *testing.T) {
	limiter := NewLimiter(NewConfig(true, nil, nil))
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("10.0.0.9", "/api/ai/cv-suggestions", "POST")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 20, info.Limit)
	}

	allowed, info := limiter.Allow("10.0.0.9", "/api/ai/cv-suggestions", "POST")
	assert.False(t, allowed)
	assert.Greater(t, info.RetryAfter, time.Duration(0))

	// Another client has its own bucket.
	allowed, _ = limiter.Allow("10.0.0.10", "/api/ai/cv-suggestions", "POST")
	assert.True(t, allowed)
}

func TestLimiter_StopIsIdempotent(t *testing.T) {
	limiter := NewLimiter(nil)
	limiter.Stop()
	assert.NotPanics(t, limiter.Stop)
}

func TestLimiter_StopEndsJanitor(t *testing.T) {
	config := NewConfig(true, nil, nil)
	config.CleanupInterval = time.Millisecond
	limiter := NewLimiter(config)

	limiter.Stop()

	select {
	case <-limiter.done:
	default:
		t.Fatal("janitor still running after Stop")
	}
}

func TestLimiter_DisabledHasNoJanitor(t *testing.T) {
	limiter := NewLimiter(NewConfig(false, nil, nil))

	select {
	case <-limiter.done:
	default:
		t.Fatal("disabled limiter started a janitor")
	}
	assert.NotPanics(t, limiter.Stop)
}
