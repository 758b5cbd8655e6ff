package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/localblog/internal/errpage"
	"github.com/2beens/localblog/internal/telemetry/metrics"
	"github.com/2beens/localblog/pkg"
)

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RateLimit limits requests per client IP under the given router name.
func RateLimit(
	rateLimiter RequestRateLimiter,
	routerName string,
	allowedPerMin int,
	metricsManager *metrics.Manager,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			key := routerName
			if ip, err := pkg.ReadUserIP(r); err == nil && ip != "" {
				key = routerName + ":" + ip
			}

			res, err := rateLimiter.Allow(r.Context(), key, redis_rate.PerMinute(allowedPerMin))
			if err != nil {
				log.Errorf("rate limit [%s]: %s", key, err)
				errpage.RespondStatus(w, http.StatusInternalServerError, "")
				return
			}

			if res.Allowed > 0 {
				next.ServeHTTP(w, r)
				return
			}

			if metricsManager != nil {
				metricsManager.CounterRateLimitedRequests.Inc()
			}
			log.Debugf("rate limited [%s], retry after %s", key, res.RetryAfter)

			retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			errpage.RespondStatus(w, http.StatusTooManyRequests, "")
		})
	}
}
