package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/yoga-admission/internal/service"
)

const unmatchedRoute = "unmatched"

// Metrics records one observation per request under its route template.
// Requests to skipPaths (typically the scrape endpoint) are not observed.
func Metrics(metricsSvc *service.MetricsService, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		route := c.FullPath()
		if _, ok := skip[route]; ok {
			c.Next()
			return
		}

		start := time.Now()
		defer func() {
			if route == "" {
				route = unmatchedRoute
			}
			metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
		}()
		c.Next()
	}
}
