package resolver

import (
	"github.com/prebid/prebid-vast/metrics"
)

// Outcome is how a resolution ended. Every outcome other than OutcomeInLine means no ad.
type Outcome int

const (
	OutcomeInLine Outcome = iota
	OutcomeNoAd
	OutcomeDepthExceeded
	OutcomeCycle
	OutcomeFetchFailed
	OutcomeCanceled
)

var outcomeNames = map[Outcome]string{
	OutcomeInLine:        "InLine",
	OutcomeNoAd:          "NoAd",
	OutcomeDepthExceeded: "DepthExceeded",
	OutcomeCycle:         "Cycle",
	OutcomeFetchFailed:   "FetchFailed",
	OutcomeCanceled:      "Canceled",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "Unknown"
}

// IsNoAd reports whether the player should fall back to content.
func (o Outcome) IsNoAd() bool {
	return o != OutcomeInLine
}

func (o Outcome) metricsOutcome() metrics.ResolutionOutcome {
	switch o {
	case OutcomeInLine:
		return metrics.OutcomeInLine
	case OutcomeDepthExceeded:
		return metrics.OutcomeDepthExceeded
	case OutcomeCycle:
		return metrics.OutcomeCycle
	case OutcomeFetchFailed:
		return metrics.OutcomeFetchFailed
	case OutcomeCanceled:
		return metrics.OutcomeCanceled
	}
	return metrics.OutcomeNoAd
}
