package timing

import (
	"context"

	servertiming "github.com/mitchellh/go-server-timing"
)

// Metric is a running Server-Timing entry. The zero value is a no-op so
// callers never need to check whether timing is enabled.
type Metric struct {
	metric *servertiming.Metric
}

func (m *Metric) Stop() {
	if m != nil && m.metric != nil {
		m.metric.Stop()
	}
}

// Start begins a metric on the request's timing header, if one is attached.
func Start(ctx context.Context, name, desc string) *Metric {
	t := servertiming.FromContext(ctx)
	if t == nil {
		return &Metric{}
	}
	return &Metric{metric: t.NewMetric(name).WithDesc(desc).Start()}
}
