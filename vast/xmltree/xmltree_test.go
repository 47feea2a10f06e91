package xmltree

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `<VAST version="4.0">
  <Ad id="a1" sequence="1">
    <Wrapper followAdditionalWrappers="false">
      <AdSystem version="2.1"> SysA </AdSystem>
      <VastAdTagUri><![CDATA[ http://a.example/vast ]]></VastAdTagUri>
      <Impression>http://imp/1</Impression>
      <Impression></Impression>
      <Impression><![CDATA[http://imp/2]]></Impression>
    </Wrapper>
  </Ad>
</VAST>`

func TestParse(t *testing.T) {
	root, err := ParseString(sample)
	require.NoError(t, err)

	assert.Equal(t, "VAST", root.Name())
	version, ok := root.Attr("version")
	assert.True(t, ok)
	assert.Equal(t, "4.0", version)

	ad := root.Child("ad")
	require.NotNil(t, ad)
	id, _ := ad.Attr("ID")
	assert.Equal(t, "a1", id)

	wrapper := ad.Child("Wrapper")
	require.NotNil(t, wrapper)
	assert.Equal(t, "SysA", ChildValue(wrapper, "AdSystem"))
	assert.Equal(t, "http://a.example/vast", ChildValue(wrapper, "VASTAdTagURI"), "name lookup ignores case")
	assert.Equal(t, []string{"http://imp/1", "http://imp/2"}, ChildValues(wrapper, "Impression"))
	assert.Len(t, wrapper.Children("Impression"), 3)
	assert.Len(t, wrapper.Elements(), 5)

	follow, ok := wrapper.Attr("FollowAdditionalWrappers")
	assert.True(t, ok)
	assert.Equal(t, "false", follow)

	_, ok = wrapper.Attr("allowMultipleAds")
	assert.False(t, ok)
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "broken", input: "<VAST><Ad></VAST>"},
		{name: "empty", input: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.input))
			assert.Error(t, err)
		})
	}
}

func TestNilNodeHelpers(t *testing.T) {
	assert.Equal(t, "", KeyValue(nil))
	assert.Equal(t, "", ChildValue(nil, "AdSystem"))
	assert.Nil(t, Child(nil, "Ad"))
	assert.Nil(t, Children(nil, "Ad"))
	assert.Nil(t, ChildValues(nil, "Impression"))
	assert.Nil(t, FromElement(nil))
	_, ok := Attr(nil, "id")
	assert.False(t, ok)
}

func TestMissingChild(t *testing.T) {
	root, err := ParseString("<VAST/>")
	require.NoError(t, err)

	assert.Nil(t, root.Child("Ad"))
	assert.Empty(t, root.Children("Ad"))
	assert.Empty(t, root.Elements())
	assert.Equal(t, "", root.KeyValue())
}

func TestRaw(t *testing.T) {
	root, err := ParseString(`<Extensions><Extension type="waterfall"><Ord>1</Ord></Extension></Extensions>`)
	require.NoError(t, err)

	ext := root.Child("Extension")
	require.NotNil(t, ext)
	assert.Equal(t, `<Extension type="waterfall"><Ord>1</Ord></Extension>`, ext.Raw())
}

func TestFromElement(t *testing.T) {
	doc := etree.NewDocument()
	ad := doc.CreateElement("Ad")
	ad.CreateAttr("id", "x")
	ad.CreateElement("InLine").CreateElement("AdSystem").SetText("Sys")

	n := FromElement(ad)
	assert.Equal(t, "Ad", n.Name())
	assert.Equal(t, "Sys", ChildValue(n.Child("InLine"), "AdSystem"))
}
