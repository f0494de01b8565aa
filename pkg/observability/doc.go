/*
Package observability turns flow lifecycle events into logs and Prometheus metrics.

Both are exposed as domain.LifecycleHooks and can be combined with Merge:

	m := observability.NewMetrics(prometheus.NewRegistry())
	hooks := m.Hooks().Merge(observability.LoggingHooks(logger))
	ctrl := flow.NewController(seq, list, flow.WithLifecycleHooks(hooks))
*/
package observability
