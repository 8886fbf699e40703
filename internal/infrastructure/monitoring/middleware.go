package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// unmatchedRoute labels requests that hit no registered route.
const unmatchedRoute = "unmatched"

func nonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

// Middleware records one HTTP observation per request. Requests are labelled
// by route template rather than raw URL.
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		began := time.Now()
		received := nonNegative(c.Request.ContentLength)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metrics.RecordHTTPRequest(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
			time.Since(began),
			received,
			nonNegative(int64(c.Writer.Size())),
		)
	}
}

// Timer times a single tool call.
type Timer struct {
	began   time.Time
	metrics *Metrics
	service string
	tool    string
}

func NewTimer(metrics *Metrics, service, tool string) *Timer {
	return &Timer{began: time.Now(), metrics: metrics, service: service, tool: tool}
}

// Stop records the elapsed time under status.
func (t *Timer) Stop(status string) {
	t.metrics.RecordServiceCall(t.service, t.tool, status, time.Since(t.began))
}
