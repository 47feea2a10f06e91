package vast

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prebid/prebid-vast/errortypes"
	"github.com/prebid/prebid-vast/vast/xmltree"
)

// Creative is one entry of an ad's <Creatives>. The concrete type is one of
// *Linear, *NonLinearAds or *CompanionAds.
type Creative interface {
	Common() CreativeCommon
	isCreative()
}

// CreativeCommon holds what every creative kind carries.
type CreativeCommon struct {
	ID             string
	AdID           string
	Sequence       int
	APIFramework   string
	TrackingEvents TrackingEvents
}

// TrackingEvents maps a tracking event name (start, complete, skip...) to its URLs in document order.
type TrackingEvents map[string][]string

// Add appends url to the event. Empty URLs are ignored.
func (te *TrackingEvents) Add(event, url string) {
	if url == "" {
		return
	}
	if *te == nil {
		*te = make(TrackingEvents)
	}
	(*te)[event] = append((*te)[event], url)
}

// Merge appends every URL of other after the URLs already held for the same event.
func (te *TrackingEvents) Merge(other TrackingEvents) {
	for event, urls := range other {
		for _, url := range urls {
			te.Add(event, url)
		}
	}
}

// Linear is a video creative played in the content stream.
type Linear struct {
	CreativeCommon
	Duration      time.Duration
	RawDuration   string
	SkipOffset    Offset
	MediaFiles    []MediaFile
	ClickThrough  string
	ClickTracking []string
	AdParameters  string
}

func (*Linear) isCreative() {}

func (l *Linear) Common() CreativeCommon {
	return l.CreativeCommon
}

// MediaFile is one rendition of a linear creative. Selection among renditions is left to the player.
type MediaFile struct {
	ID           string
	URL          string
	Type         string
	Delivery     string
	Codec        string
	APIFramework string
	Bitrate      int
	Width        int
	Height       int
}

// NonLinearAds is an overlay creative shown on top of the content.
type NonLinearAds struct {
	CreativeCommon
	NonLinears []NonLinear
}

func (*NonLinearAds) isCreative() {}

func (n *NonLinearAds) Common() CreativeCommon {
	return n.CreativeCommon
}

type NonLinear struct {
	ID                   string
	Width                int
	Height               int
	MinSuggestedDuration string
	Resource             Resource
	ClickThrough         string
	ClickTracking        []string
}

// CompanionAds is a set of display units shown around the player.
type CompanionAds struct {
	CreativeCommon
	Required   string
	Companions []Companion
}

func (*CompanionAds) isCreative() {}

func (c *CompanionAds) Common() CreativeCommon {
	return c.CreativeCommon
}

type Companion struct {
	ID             string
	Width          int
	Height         int
	Resource       Resource
	ClickThrough   string
	ClickTracking  []string
	TrackingEvents TrackingEvents
}

type ResourceKind string

const (
	ResourceStatic ResourceKind = "static"
	ResourceIFrame ResourceKind = "iframe"
	ResourceHTML   ResourceKind = "html"
)

// Resource is the payload of a non-linear or companion unit.
type Resource struct {
	Kind         ResourceKind
	CreativeType string
	Value        string
}

// ParseCreatives builds the creatives found under a <Creatives> element.
// It never fails as a whole: a creative that cannot be understood is skipped
// and reported in the returned warnings.
func ParseCreatives(creatives xmltree.Node) ([]Creative, []error) {
	if creatives == nil {
		return nil, nil
	}

	var (
		parsed   []Creative
		warnings []error
	)
	for i, node := range creatives.Children("Creative") {
		c, err := parseCreative(node)
		if err != nil {
			warnings = append(warnings, &errortypes.InvalidCreative{
				Message: fmt.Sprintf("creative %d skipped: %s", i, err.Error()),
			})
			continue
		}
		parsed = append(parsed, c)
	}
	return parsed, warnings
}

func parseCreative(node xmltree.Node) (Creative, error) {
	common := CreativeCommon{
		ID:           attr(node, "id"),
		AdID:         attr(node, "adId"),
		Sequence:     attrInt(node, "sequence"),
		APIFramework: attr(node, "apiFramework"),
	}

	for _, child := range node.Elements() {
		switch strings.ToLower(child.Name()) {
		case "linear":
			return parseLinear(child, common)
		case "nonlinearads":
			return parseNonLinearAds(child, common), nil
		case "companionads":
			return parseCompanionAds(child, common), nil
		}
	}
	return nil, fmt.Errorf("no Linear, NonLinearAds or CompanionAds element")
}

func parseLinear(node xmltree.Node, common CreativeCommon) (*Linear, error) {
	linear := &Linear{
		CreativeCommon: common,
		RawDuration:    xmltree.ChildValue(node, "Duration"),
		AdParameters:   xmltree.ChildValue(node, "AdParameters"),
	}

	if linear.RawDuration != "" {
		d, err := ParseDuration(linear.RawDuration)
		if err != nil {
			return nil, err
		}
		linear.Duration = d
	}

	// an unreadable skipoffset only makes the ad unskippable
	if raw, ok := node.Attr("skipoffset"); ok {
		if o, err := ParseOffset(raw); err == nil {
			linear.SkipOffset = o
		}
	}

	linear.TrackingEvents = parseTrackingEvents(node.Child("TrackingEvents"))

	for _, mf := range xmltree.Children(node.Child("MediaFiles"), "MediaFile") {
		url := mf.KeyValue()
		if url == "" {
			continue
		}
		linear.MediaFiles = append(linear.MediaFiles, MediaFile{
			ID:           attr(mf, "id"),
			URL:          url,
			Type:         attr(mf, "type"),
			Delivery:     attr(mf, "delivery"),
			Codec:        attr(mf, "codec"),
			APIFramework: attr(mf, "apiFramework"),
			Bitrate:      attrInt(mf, "bitrate"),
			Width:        attrInt(mf, "width"),
			Height:       attrInt(mf, "height"),
		})
	}

	if clicks := node.Child("VideoClicks"); clicks != nil {
		linear.ClickThrough = xmltree.ChildValue(clicks, "ClickThrough")
		linear.ClickTracking = xmltree.ChildValues(clicks, "ClickTracking")
	}

	return linear, nil
}

func parseNonLinearAds(node xmltree.Node, common CreativeCommon) *NonLinearAds {
	ads := &NonLinearAds{CreativeCommon: common}
	ads.TrackingEvents = parseTrackingEvents(node.Child("TrackingEvents"))

	for _, nl := range node.Children("NonLinear") {
		ads.NonLinears = append(ads.NonLinears, NonLinear{
			ID:                   attr(nl, "id"),
			Width:                attrInt(nl, "width"),
			Height:               attrInt(nl, "height"),
			MinSuggestedDuration: attr(nl, "minSuggestedDuration"),
			Resource:             parseResource(nl),
			ClickThrough:         xmltree.ChildValue(nl, "NonLinearClickThrough"),
			ClickTracking:        xmltree.ChildValues(nl, "NonLinearClickTracking"),
		})
	}
	return ads
}

func parseCompanionAds(node xmltree.Node, common CreativeCommon) *CompanionAds {
	ads := &CompanionAds{
		CreativeCommon: common,
		Required:       attr(node, "required"),
	}

	for _, c := range node.Children("Companion") {
		ads.Companions = append(ads.Companions, Companion{
			ID:             attr(c, "id"),
			Width:          attrInt(c, "width"),
			Height:         attrInt(c, "height"),
			Resource:       parseResource(c),
			ClickThrough:   xmltree.ChildValue(c, "CompanionClickThrough"),
			ClickTracking:  xmltree.ChildValues(c, "CompanionClickTracking"),
			TrackingEvents: parseTrackingEvents(c.Child("TrackingEvents")),
		})
	}
	return ads
}

func parseResource(node xmltree.Node) Resource {
	if r := node.Child("StaticResource"); r != nil {
		return Resource{Kind: ResourceStatic, CreativeType: attr(r, "creativeType"), Value: r.KeyValue()}
	}
	if r := node.Child("IFrameResource"); r != nil {
		return Resource{Kind: ResourceIFrame, Value: r.KeyValue()}
	}
	if r := node.Child("HTMLResource"); r != nil {
		return Resource{Kind: ResourceHTML, Value: r.KeyValue()}
	}
	return Resource{}
}

func parseTrackingEvents(node xmltree.Node) TrackingEvents {
	var events TrackingEvents
	for _, tracking := range xmltree.Children(node, "Tracking") {
		event, ok := tracking.Attr("event")
		if !ok || event == "" {
			continue
		}
		events.Add(event, tracking.KeyValue())
	}
	return events
}

func attr(n xmltree.Node, name string) string {
	v, _ := xmltree.Attr(n, name)
	return strings.TrimSpace(v)
}

func attrInt(n xmltree.Node, name string) int {
	v, err := strconv.Atoi(attr(n, name))
	if err != nil {
		return 0
	}
	return v
}
