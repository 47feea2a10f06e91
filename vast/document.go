package vast

import (
	"fmt"
	"strings"

	"github.com/blang/semver"
	"github.com/prebid/prebid-vast/errortypes"
	"github.com/prebid/prebid-vast/vast/xmltree"
)

// Document is a parsed <VAST> response.
type Document struct {
	Version string
	// Ads in document order. Ads that failed to parse are not included.
	Ads []Ad
	// Errors are the root level <Error> URLs of a no-ad response.
	Errors []string
	// ParseErrors explains every ad or creative that was dropped, plus version warnings.
	ParseErrors []error
}

// FirstAd returns the first ad of the document, or nil if there is none.
func (d *Document) FirstAd() Ad {
	if d == nil || len(d.Ads) == 0 {
		return nil
	}
	return d.Ads[0]
}

// ParseDocument builds a Document from the root element of a VAST response.
// Malformed ads are dropped and recorded in ParseErrors; only a root which is
// not <VAST> fails the whole document.
func ParseDocument(root xmltree.Node) (*Document, error) {
	if root == nil || !strings.EqualFold(root.Name(), "VAST") {
		name := "nothing"
		if root != nil {
			name = "<" + root.Name() + ">"
		}
		return nil, &errortypes.MalformedResponse{
			Message: fmt.Sprintf("expected a <VAST> root element, found %s", name),
		}
	}

	doc := &Document{
		Version: attr(root, "version"),
		Errors:  xmltree.ChildValues(root, "Error"),
	}
	if err := checkVersion(doc.Version); err != nil {
		doc.ParseErrors = append(doc.ParseErrors, err)
	}

	for _, node := range root.Children("Ad") {
		ad, warnings, err := parseAd(node)
		doc.ParseErrors = append(doc.ParseErrors, warnings...)
		if err != nil {
			doc.ParseErrors = append(doc.ParseErrors, err)
			continue
		}
		doc.Ads = append(doc.Ads, ad)
	}
	return doc, nil
}

func checkVersion(version string) error {
	if version == "" {
		return nil
	}
	v, err := semver.ParseTolerant(version)
	if err != nil {
		return &errortypes.UnsupportedVersion{
			Message: fmt.Sprintf("unreadable VAST version %q: %v", version, err),
		}
	}
	if v.Major < 2 || v.Major > 4 {
		return &errortypes.UnsupportedVersion{
			Message: fmt.Sprintf("unsupported VAST version %q", version),
		}
	}
	return nil
}
