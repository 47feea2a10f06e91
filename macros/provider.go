package macros

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/prebid/prebid-vast/util/randomutil"
)

// VAST 4 macro names, written as [NAME] in tracking URLs.
const (
	MacroKeyErrorCode       = "ERRORCODE"
	MacroKeyCacheBusting    = "CACHEBUSTING"
	MacroKeyTimestamp       = "TIMESTAMP"
	MacroKeyAssetURI        = "ASSETURI"
	MacroKeyContentPlayhead = "CONTENTPLAYHEAD"
	MacroKeyAdPlayhead      = "ADPLAYHEAD"
	MacroKeyMediaPlayhead   = "MEDIAPLAYHEAD"
	MacroKeyReason          = "REASON"
	MacroKeyBreakPosition   = "BREAKPOSITION"
	MacroKeyAdServingID     = "ADSERVINGID"
	MacroKeyDeviceUA        = "DEVICEUA"
	MacroKeyPageURL         = "PAGEURL"
	MacroKeyDomain          = "DOMAIN"
	MacroKeyLmtTracking     = "LIMITADTRACKING"
	MacroKeyConsent         = "GDPRCONSENT"
)

// timestampLayout is ISO 8601 with milliseconds, as VAST 4 expects for [TIMESTAMP].
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// MacroContext carries the values known when a tracker fires.
type MacroContext struct {
	ErrorCode       int
	AssetURI        string
	ContentPlayhead string
	AdPlayhead      string
	MediaPlayhead   string
	Reason          string
	BreakPosition   string
	AdServingID     string
	DeviceUA        string
	PageURL         string
	Domain          string
	LimitAdTracking string
	GDPRConsent     string
	// Custom macros, keyed by name. Names are upper-cased.
	Custom map[string]string

	Clock  clock.Clock
	Random randomutil.RandomGenerator
}

type Provider interface {
	// GetMacro returns the URL-escaped macro value for the given macro key, or "" if unknown
	GetMacro(key string) string
}

type macroProvider struct {
	// macros map stores macros key values
	macros map[string]string
}

// NewProvider returns a Provider for ctx. CACHEBUSTING and TIMESTAMP are fixed when it is built,
// so every URL of one event carries the same values.
func NewProvider(ctx MacroContext) Provider {
	if ctx.Clock == nil {
		ctx.Clock = clock.New()
	}
	if ctx.Random == nil {
		ctx.Random = randomutil.RandomNumberGenerator{}
	}

	macroProvider := &macroProvider{macros: map[string]string{}}
	for key, value := range ctx.Custom {
		macroProvider.macros[strings.ToUpper(key)] = value
	}
	macroProvider.populateContextMacros(ctx)
	return macroProvider
}

func (b *macroProvider) populateContextMacros(ctx MacroContext) {
	b.macros[MacroKeyTimestamp] = ctx.Clock.Now().UTC().Format(timestampLayout)
	b.macros[MacroKeyCacheBusting] = cacheBuster(ctx.Random)
	if ctx.ErrorCode > 0 {
		b.macros[MacroKeyErrorCode] = strconv.Itoa(ctx.ErrorCode)
	}

	for key, value := range map[string]string{
		MacroKeyAssetURI:        ctx.AssetURI,
		MacroKeyContentPlayhead: ctx.ContentPlayhead,
		MacroKeyAdPlayhead:      ctx.AdPlayhead,
		MacroKeyMediaPlayhead:   ctx.MediaPlayhead,
		MacroKeyReason:          ctx.Reason,
		MacroKeyBreakPosition:   ctx.BreakPosition,
		MacroKeyAdServingID:     ctx.AdServingID,
		MacroKeyDeviceUA:        ctx.DeviceUA,
		MacroKeyPageURL:         ctx.PageURL,
		MacroKeyDomain:          ctx.Domain,
		MacroKeyLmtTracking:     ctx.LimitAdTracking,
		MacroKeyConsent:         ctx.GDPRConsent,
	} {
		if value != "" {
			b.macros[key] = value
		}
	}
}

func (b *macroProvider) GetMacro(key string) string {
	return url.QueryEscape(b.macros[key])
}

// cacheBuster returns a random 8 digit number.
func cacheBuster(r randomutil.RandomGenerator) string {
	n := r.GenerateInt63() % 90000000
	if n < 0 {
		n = -n
	}
	return strconv.FormatInt(10000000+n, 10)
}

type errorCodeProvider struct {
	Provider
	code string
}

func (p errorCodeProvider) GetMacro(key string) string {
	if key == MacroKeyErrorCode {
		return p.code
	}
	return p.Provider.GetMacro(key)
}

// WithErrorCode derives a Provider which reports code for [ERRORCODE]. A code of 0 clears it.
func WithErrorCode(p Provider, code int) Provider {
	if code <= 0 {
		return errorCodeProvider{Provider: p}
	}
	return errorCodeProvider{Provider: p, code: strconv.Itoa(code)}
}
