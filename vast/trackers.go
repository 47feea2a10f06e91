package vast

// Trackers is the tracking bundle gathered along a wrapper chain, root first.
// URLs are never de-duplicated: a tracker repeated at two hops fires twice.
type Trackers struct {
	Impressions    []string
	Errors         []string
	Extensions     []Extension
	TrackingEvents TrackingEvents
	ClickTracking  []string
}

// Append folds one hop into the bundle.
func (t *Trackers) Append(ad Ad) {
	if ad == nil {
		return
	}
	common := ad.Common()
	t.Impressions = append(t.Impressions, common.Impressions...)
	t.Errors = append(t.Errors, common.Errors...)
	t.Extensions = append(t.Extensions, common.Extensions...)

	switch a := ad.(type) {
	case *InLineAd:
		t.appendCreatives(a.Creatives)
	case *WrapperAd:
		t.appendCreatives(a.Creatives)
	}
}

func (t *Trackers) appendCreatives(creatives []Creative) {
	for _, c := range creatives {
		t.TrackingEvents.Merge(c.Common().TrackingEvents)

		switch cr := c.(type) {
		case *Linear:
			t.ClickTracking = append(t.ClickTracking, cr.ClickTracking...)
		case *NonLinearAds:
			for _, nl := range cr.NonLinears {
				t.ClickTracking = append(t.ClickTracking, nl.ClickTracking...)
			}
		case *CompanionAds:
			for _, comp := range cr.Companions {
				t.TrackingEvents.Merge(comp.TrackingEvents)
				t.ClickTracking = append(t.ClickTracking, comp.ClickTracking...)
			}
		}
	}
}
