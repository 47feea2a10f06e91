package prometheusmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func preloadLabelValues(m *Metrics) {
	var (
		cacheResultValues = cacheResultsAsString()
		fetchStatusValues = fetchStatusesAsString()
		outcomeValues     = outcomesAsString()
	)

	preloadLabelValuesForCounter(m.resolutions, map[string][]string{
		outcomeLabel: outcomeValues,
	})

	preloadLabelValuesForHistogram(m.wrapperFetchTimer, map[string][]string{
		statusLabel: fetchStatusValues,
	})

	preloadLabelValuesForCounter(m.documentCacheResult, map[string][]string{
		cacheResultLabel: cacheResultValues,
	})
}

func preloadLabelValuesForCounter(counter *prometheus.CounterVec, labelsWithValues map[string][]string) {
	registerLabelPermutations(labelsWithValues, func(labels prometheus.Labels) {
		counter.With(labels)
	})
}

func preloadLabelValuesForHistogram(histogram *prometheus.HistogramVec, labelsWithValues map[string][]string) {
	registerLabelPermutations(labelsWithValues, func(labels prometheus.Labels) {
		histogram.With(labels)
	})
}

func registerLabelPermutations(labelsWithValues map[string][]string, register func(prometheus.Labels)) {
	if len(labelsWithValues) == 0 {
		return
	}

	keys := make([]string, 0, len(labelsWithValues))
	values := make([][]string, 0, len(labelsWithValues))
	for k, v := range labelsWithValues {
		keys = append(keys, k)
		values = append(values, v)
	}

	labelsPermutations := generateLabelPermutations(keys, values, []prometheus.Labels{})

	for _, labels := range labelsPermutations {
		register(labels)
	}
}

func generateLabelPermutations(keys []string, values [][]string, labels []prometheus.Labels) []prometheus.Labels {
	if len(keys) == 0 {
		return labels
	}

	key := keys[0]
	var results []prometheus.Labels
	for _, value := range values[0] {
		if len(labels) == 0 {
			results = append(results, prometheus.Labels{key: value})
			continue
		}
		for _, l := range labels {
			next := prometheus.Labels{key: value}
			for k, v := range l {
				next[k] = v
			}
			results = append(results, next)
		}
	}
	return generateLabelPermutations(keys[1:], values[1:], results)
}
