package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/localblog/internal/errpage"
	"github.com/2beens/localblog/internal/telemetry/metrics"
)

// PanicRecovery turns a handler panic into the generic 500 error response.
func PanicRecovery(metricsManager *metrics.Manager, debugMode bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(respWriter http.ResponseWriter, req *http.Request) {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf("http: panic serving %s: %v\n%s", req.URL.Path, r, debug.Stack())
					if metricsManager != nil {
						metricsManager.CounterHandleRequestPanic.Inc()
					}
					errpage.Write(respWriter, errpage.Classify(fmt.Errorf("panic: %v", r), debugMode))
				}
			}()

			// handler call
			next.ServeHTTP(respWriter, req)
		})
	}
}
