package vast

import (
	"strings"

	"github.com/prebid/prebid-vast/errortypes"
	"github.com/prebid/prebid-vast/vast/xmltree"
	"github.com/xorcare/pointer"
)

// Ad is a single <Ad> of a VAST document. The concrete type is *InLineAd or *WrapperAd.
type Ad interface {
	Common() AdCommon
	isAd()
}

// AdCommon holds the fields shared by inline and wrapper ads.
type AdCommon struct {
	ID              string
	Sequence        int
	AdSystem        string
	AdSystemVersion string
	Impressions     []string
	Errors          []string
	Extensions      []Extension
}

// Extension is an <Extension> element carried through untouched.
type Extension struct {
	Type string
	Raw  string
}

// InLineAd carries playable creatives.
type InLineAd struct {
	AdCommon
	AdTitle     string
	Description string
	Advertiser  string
	Creatives   []Creative
}

func (*InLineAd) isAd() {}

func (a *InLineAd) Common() AdCommon {
	return a.AdCommon
}

// Playable reports whether the ad has at least one creative.
func (a *InLineAd) Playable() bool {
	return len(a.Creatives) > 0
}

// Linears returns the linear creatives in document order.
func (a *InLineAd) Linears() []*Linear {
	var linears []*Linear
	for _, c := range a.Creatives {
		if l, ok := c.(*Linear); ok {
			linears = append(linears, l)
		}
	}
	return linears
}

// WrapperAd redirects to another VAST document through AdTagURI.
type WrapperAd struct {
	AdCommon
	AdTagURI                 string
	FollowAdditionalWrappers bool
	AllowMultipleAds         *bool
	FallbackOnNoAd           *bool
	// Creatives of a wrapper only carry tracking.
	Creatives []Creative
}

func (*WrapperAd) isAd() {}

func (a *WrapperAd) Common() AdCommon {
	return a.AdCommon
}

// ParseAd builds the ad described by an <Ad> element.
// A <Wrapper> child takes precedence over an <InLine> one.
func ParseAd(ad xmltree.Node) (Ad, error) {
	parsed, _, err := parseAd(ad)
	return parsed, err
}

// parseAd also returns the warnings of creatives that were skipped.
func parseAd(ad xmltree.Node) (Ad, []error, error) {
	if wrapper := xmltree.Child(ad, "Wrapper"); wrapper != nil {
		return parseWrapper(ad, wrapper)
	}
	if inline := xmltree.Child(ad, "InLine"); inline != nil {
		return parseInLine(ad, inline)
	}
	return nil, nil, &errortypes.UnknownAdType{
		Message: "ad " + quoteID(attr(ad, "id")) + " has neither an InLine nor a Wrapper element",
	}
}

func parseCommon(ad, body xmltree.Node) (AdCommon, error) {
	common := AdCommon{
		ID:       attr(ad, "id"),
		Sequence: attrInt(ad, "sequence"),
	}

	adSystem := body.Child("AdSystem")
	common.AdSystem = xmltree.KeyValue(adSystem)
	if common.AdSystem == "" {
		return AdCommon{}, &errortypes.MissingAdSystem{
			Message: "ad " + quoteID(common.ID) + " has no AdSystem",
		}
	}
	common.AdSystemVersion = attr(adSystem, "version")

	common.Impressions = xmltree.ChildValues(body, "Impression")
	common.Errors = xmltree.ChildValues(body, "Error")
	common.Extensions = parseExtensions(body.Child("Extensions"))
	return common, nil
}

func parseInLine(ad, inline xmltree.Node) (Ad, []error, error) {
	common, err := parseCommon(ad, inline)
	if err != nil {
		return nil, nil, err
	}
	creatives, warnings := ParseCreatives(inline.Child("Creatives"))
	return &InLineAd{
		AdCommon:    common,
		AdTitle:     xmltree.ChildValue(inline, "AdTitle"),
		Description: xmltree.ChildValue(inline, "Description"),
		Advertiser:  xmltree.ChildValue(inline, "Advertiser"),
		Creatives:   creatives,
	}, warnings, nil
}

func parseWrapper(ad, wrapper xmltree.Node) (Ad, []error, error) {
	common, err := parseCommon(ad, wrapper)
	if err != nil {
		return nil, nil, err
	}

	uri := xmltree.ChildValue(wrapper, "VASTAdTagURI")
	if uri == "" {
		return nil, nil, &errortypes.MissingAdTagURI{
			Message: "wrapper ad " + quoteID(common.ID) + " has no VASTAdTagURI",
		}
	}

	follow := true
	if v := parseBool(wrapper, "followAdditionalWrappers"); v != nil {
		follow = *v
	}

	creatives, warnings := ParseCreatives(wrapper.Child("Creatives"))
	return &WrapperAd{
		AdCommon:                 common,
		AdTagURI:                 uri,
		FollowAdditionalWrappers: follow,
		AllowMultipleAds:         parseBool(wrapper, "allowMultipleAds"),
		FallbackOnNoAd:           parseBool(wrapper, "fallbackOnNoAd"),
		Creatives:                creatives,
	}, warnings, nil
}

func parseExtensions(node xmltree.Node) []Extension {
	var extensions []Extension
	for _, ext := range xmltree.Children(node, "Extension") {
		extensions = append(extensions, Extension{
			Type: attr(ext, "type"),
			Raw:  ext.Raw(),
		})
	}
	return extensions
}

// parseBool reads an optional boolean attribute. Anything other than true/1/false/0 counts as absent.
func parseBool(n xmltree.Node, name string) *bool {
	v, ok := xmltree.Attr(n, name)
	if !ok {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1":
		return pointer.Bool(true)
	case "false", "0":
		return pointer.Bool(false)
	}
	return nil
}

func quoteID(id string) string {
	if id == "" {
		return "(no id)"
	}
	return `"` + id + `"`
}
