package cache

import "sync/atomic"

type MetricsList struct {
	Hits          iMetric
	Misses        iMetric
	Stores        iMetric
	Revalidations iMetric
}

func newMetricsList() *MetricsList {
	return &MetricsList{
		Hits:          new(metric),
		Misses:        new(metric),
		Stores:        new(metric),
		Revalidations: new(metric),
	}
}

type iMetric interface {
	Inc()
	Count() int64
}

type metric int64

func (m *metric) Inc() {
	atomic.AddInt64((*int64)(m), 1)
}

func (m *metric) Count() int64 {
	return atomic.LoadInt64((*int64)(m))
}
