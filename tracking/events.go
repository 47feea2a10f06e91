package tracking

// Lifecycle events fired outside <TrackingEvents>.
const (
	EventImpression = "impression"
	EventError      = "error"
	EventClick      = "click"
	// EventOther labels any event name outside Events.
	EventOther = "other"
)

// Events lists the tracking event names of VAST 4.x <Tracking event="...">
// plus the lifecycle events above. Metrics are labelled only with these names.
var Events = []string{
	EventImpression,
	EventError,
	EventClick,
	"creativeView",
	"loaded",
	"start",
	"firstQuartile",
	"midpoint",
	"thirdQuartile",
	"complete",
	"progress",
	"mute",
	"unmute",
	"pause",
	"resume",
	"rewind",
	"skip",
	"closeLinear",
	"close",
	"playerExpand",
	"playerCollapse",
	"fullscreen",
	"exitFullscreen",
	"expand",
	"collapse",
	"minimize",
	"acceptInvitation",
	"acceptInvitationLinear",
	"adExpand",
	"adCollapse",
	"overlayViewDuration",
	"otherAdInteraction",
	"notUsed",
	"interactiveStart",
}

var knownEvents = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Events))
	for _, e := range Events {
		m[e] = struct{}{}
	}
	return m
}()

// metricEvent bounds the label cardinality of tracker metrics.
func metricEvent(event string) string {
	if _, ok := knownEvents[event]; ok {
		return event
	}
	return EventOther
}
