package prometheusmetrics

import (
	"github.com/prebid/prebid-vast/metrics"
)

func outcomesAsString() []string {
	values := metrics.ResolutionOutcomes()
	valuesAsString := make([]string, len(values))
	for i, v := range values {
		valuesAsString[i] = string(v)
	}
	return valuesAsString
}

func fetchStatusesAsString() []string {
	values := metrics.FetchStatuses()
	valuesAsString := make([]string, len(values))
	for i, v := range values {
		valuesAsString[i] = string(v)
	}
	return valuesAsString
}

func cacheResultsAsString() []string {
	values := metrics.CacheResults()
	valuesAsString := make([]string, len(values))
	for i, v := range values {
		valuesAsString[i] = string(v)
	}
	return valuesAsString
}
