package telemetry

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	counterMetricMap   = map[string]prometheus.Counter{}
	counterMetricMutex = sync.Mutex{}

	gaugeMetricMap   = map[string]prometheus.Gauge{}
	gaugeMetricMutex = sync.Mutex{}

	panicMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobtrail_panics_recovered_total",
	}, []string{"entity"})
)

func LogPanic(entity string) {
	panicMetric.WithLabelValues(entity).Inc()
}

func getKey(metric string, labels map[string]string) string {
	metricKey := metric
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		metricKey += "/" + key + ":" + labels[key]
	}
	return metricKey
}

// NewCounter returns the counter registered for the metric and label set, creating it on first use
func NewCounter(metric string, labels map[string]string) prometheus.Counter {
	metricKey := getKey(metric, labels)

	counterMetricMutex.Lock()
	defer counterMetricMutex.Unlock()

	if existingMetric, ok := counterMetricMap[metricKey]; ok {
		return existingMetric
	}
	newMetric := promauto.NewCounter(prometheus.CounterOpts{Name: metric, ConstLabels: labels})
	counterMetricMap[metricKey] = newMetric
	return newMetric
}

func NewGauge(metric string, labels map[string]string) prometheus.Gauge {
	metricKey := getKey(metric, labels)

	gaugeMetricMutex.Lock()
	defer gaugeMetricMutex.Unlock()

	if existingMetric, ok := gaugeMetricMap[metricKey]; ok {
		return existingMetric
	}
	newMetric := promauto.NewGauge(prometheus.GaugeOpts{Name: metric, ConstLabels: labels})
	gaugeMetricMap[metricKey] = newMetric
	return newMetric
}
