package vast

import (
	"testing"

	"github.com/prebid/prebid-vast/errortypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument(mustParse(t, `<VAST version="3.0">
  <Ad id="broken"><Wrapper><AdSystem>S</AdSystem></Wrapper></Ad>
  <Ad id="first"><InLine><AdSystem>A</AdSystem><Creatives><Creative><Linear><Duration>bad</Duration></Linear></Creative></Creatives></InLine></Ad>
  <Ad id="second"><Wrapper><AdSystem>B</AdSystem><VASTAdTagURI>http://b</VASTAdTagURI></Wrapper></Ad>
</VAST>`))
	require.NoError(t, err)

	assert.Equal(t, "3.0", doc.Version)
	require.Len(t, doc.Ads, 2, "malformed ads are skipped, the rest kept in order")
	assert.Equal(t, "first", doc.FirstAd().Common().ID)
	assert.Equal(t, "second", doc.Ads[1].Common().ID)

	require.Len(t, doc.ParseErrors, 2)
	assert.IsType(t, &errortypes.MissingAdTagURI{}, doc.ParseErrors[0])
	assert.IsType(t, &errortypes.InvalidCreative{}, doc.ParseErrors[1])
	assert.False(t, errortypes.ContainsFatalError(doc.ParseErrors))
}

func TestParseDocumentNoAd(t *testing.T) {
	doc, err := ParseDocument(mustParse(t, `<VAST version="4.2"><Error><![CDATA[http://err/noad?c=[ERRORCODE]]]></Error></VAST>`))
	require.NoError(t, err)

	assert.Nil(t, doc.FirstAd())
	assert.Empty(t, doc.ParseErrors)
	assert.Equal(t, []string{"http://err/noad?c=[ERRORCODE]"}, doc.Errors)
}

func TestParseDocumentVersion(t *testing.T) {
	testCases := []struct {
		version     string
		expectWarns int
	}{
		{version: "", expectWarns: 0},
		{version: "2.0", expectWarns: 0},
		{version: "4.1", expectWarns: 0},
		{version: "4", expectWarns: 0},
		{version: "1.0", expectWarns: 1},
		{version: "5.0", expectWarns: 1},
		{version: "four", expectWarns: 1},
	}

	for _, tc := range testCases {
		t.Run("version-"+tc.version, func(t *testing.T) {
			doc, err := ParseDocument(mustParse(t, `<VAST version="`+tc.version+`"/>`))
			require.NoError(t, err)
			require.Len(t, doc.ParseErrors, tc.expectWarns)
			for _, w := range doc.ParseErrors {
				assert.IsType(t, &errortypes.UnsupportedVersion{}, w)
			}
		})
	}
}

func TestParseDocumentRootMustBeVAST(t *testing.T) {
	_, err := ParseDocument(mustParse(t, `<VMAP/>`))
	var malformed *errortypes.MalformedResponse
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, errortypes.XMLParseErrorCode, errortypes.ReadCode(err))

	_, err = ParseDocument(nil)
	assert.ErrorAs(t, err, &malformed)
}

func TestFirstAdNilDocument(t *testing.T) {
	var doc *Document
	assert.Nil(t, doc.FirstAd())
}
