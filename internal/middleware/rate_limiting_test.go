package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/2beens/localblog/internal/telemetry/metrics"
)

type fakeLimiter struct {
	keys    []string
	allowed int
	err     error
}

func (l *fakeLimiter) Allow(_ context.Context, key string, _ redis_rate.Limit) (*redis_rate.Result, error) {
	l.keys = append(l.keys, key)
	if l.err != nil {
		return nil, l.err
	}
	return &redis_rate.Result{
		Allowed:    l.allowed,
		RetryAfter: 1500 * time.Millisecond,
	}, nil
}

func TestRateLimit(t *testing.T) {
	testCases := map[string]struct {
		limiter          *fakeLimiter
		expectedStatus   int
		expectNextCalled bool
		expectLimited    float64
		expectRetryAfter string
	}{
		"allowed": {
			limiter:          &fakeLimiter{allowed: 1},
			expectedStatus:   http.StatusOK,
			expectNextCalled: true,
		},
		"limited": {
			limiter:          &fakeLimiter{allowed: 0},
			expectedStatus:   http.StatusTooManyRequests,
			expectLimited:    1,
			expectRetryAfter: "2",
		},
		"limiter error": {
			limiter:        &fakeLimiter{err: errors.New("redis down")},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			metricsManager := metrics.NewTestManager()

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
			})
			handler := RateLimit(tc.limiter, "auth", 10, metricsManager)(next)

			req := httptest.NewRequest("POST", "/auth/login", nil)
			req.RemoteAddr = "203.0.113.7:5555"
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectNextCalled, nextCalled)
			assert.Equal(t, []string{"auth:203.0.113.7"}, tc.limiter.keys)
			assert.Equal(t, tc.expectLimited, testutil.ToFloat64(metricsManager.CounterRateLimitedRequests))
			assert.Equal(t, tc.expectRetryAfter, rr.Header().Get("Retry-After"))
		})
	}
}
