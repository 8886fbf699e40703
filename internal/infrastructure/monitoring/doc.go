// Package monitoring holds the Prometheus collectors for confine.
//
// Three families are tracked: HTTP traffic (via Middleware), registry tool
// calls (via Timer) and filesystem operations, which also count every
// request refused for resolving outside its root. A nil *Metrics is a valid
// no-op recorder, so library callers can skip instrumentation entirely.
//
//	m := monitoring.NewMetrics(reg)
//	router.Use(monitoring.Middleware(m))
//	t := monitoring.NewTimer(m, "filesystem", "filesystem.list")
//	defer t.Stop("success")
package monitoring
