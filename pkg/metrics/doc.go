// Package metrics exposes Prometheus collectors for form validation.
//
// A *Metrics is a validator.Observer, so it can be passed straight to
// validator.New:
//
//	m := metrics.New(metrics.WithRegistry(reg))
//	v, err := validator.New(doc, cfg, validator.WithObserver(m))
//
// The live host also reports its events, patches, sessions and WebSocket
// errors through the same value. Expose the registry with promhttp.
package metrics
