package atom

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"<x>&", "&lt;x&gt;&amp;"},
		{`it's "quoted"`, "it&apos;s &quot;quoted&quot;"},
		{"&amp;", "&amp;amp;"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EscapeText(tt.in), "EscapeText(%q)", tt.in)
	}
}

func TestServiceBase(t *testing.T) {
	assert.Equal(t, "/p/p.svc/", ServiceBase("/p/p.svc/Assets/"))
	assert.Equal(t, "/svc/", ServiceBase("/svc/Assets"))
	assert.Equal(t, DefaultBase, ServiceBase("/Assets/"))
	assert.Equal(t, DefaultBase, ServiceBase(""))
}

func TestEntry_Render_Text(t *testing.T) {
	e := &Entry{
		Updated:  "2013-01-02T03:04:05Z",
		RecordID: "XX-91c8071a-1201-4f99-bc9d-f8d53a947dc1",
		Client:   "XX",
		Target:   "A~b",
		Type:     "TEXT",
		Data:     "<x>&",
	}

	out, err := e.Render()
	require.NoError(t, err)
	s := string(out)

	assert.True(t, strings.HasPrefix(s, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`))
	assert.Contains(t, s, `xml:base="/p/p.svc/"`)
	assert.Contains(t, s, `xmlns="`+NsAtom+`"`)
	assert.Contains(t, s, "<updated>2013-01-02T03:04:05Z</updated>")
	assert.Contains(t, s, "<d:AssetID>--</d:AssetID>")
	assert.Contains(t, s, "<d:AssetData>&lt;x&gt;&amp;</d:AssetData>")
	assert.Contains(t, s, "<d:AssetType>TEXT</d:AssetType>")
	assert.Contains(t, s, "<d:AssetMeta></d:AssetMeta>")
	assert.Contains(t, s, "<d:AssetRecordID>XX-91c8071a-1201-4f99-bc9d-f8d53a947dc1</d:AssetRecordID>")
	assert.Contains(t, s, "<d:Target>A~b</d:Target>")
	assert.Contains(t, s, "<d:Client>XX</d:Client>")
	assert.Contains(t, s, "<d:Status>APPROVED</d:Status>")

	// Must be well-formed.
	var v struct{}
	require.NoError(t, xml.Unmarshal(out, &v))
}

func TestEntry_Render_URLVerbatim(t *testing.T) {
	e := &Entry{
		RecordID: "XX-1",
		Client:   "XX",
		Target:   "XX~avatar",
		Type:     "IMAGE",
		Data:     "http://www.gravatar.com/avatar/98363013aa1237798130bc0fd2c4159d.png",
	}

	out, err := e.Render()
	require.NoError(t, err)
	assert.Contains(t, string(out),
		"<d:AssetData>http://www.gravatar.com/avatar/98363013aa1237798130bc0fd2c4159d.png</d:AssetData>")
}

func TestEntry_Render_RoundTrip(t *testing.T) {
	e := &Entry{
		Updated:  "now",
		RecordID: "XX-1",
		Client:   "XX",
		Target:   "XX~bio",
		Type:     "TEXT",
		Data:     `Tom & "Jerry"`,
	}

	out, err := e.Render()
	require.NoError(t, err)

	props, err := ParseProperties(out)
	require.NoError(t, err)
	assert.Equal(t, `Tom & "Jerry"`, props[PropAssetData])
	assert.Equal(t, "XX~bio", props[PropTarget])
	assert.Equal(t, "--", props[PropAssetID])
	assert.Equal(t, "", props[PropAssetMeta])
	assert.Len(t, props, 8)
}

func TestEntry_Render_Incomplete(t *testing.T) {
	_, err := (&Entry{Type: "TEXT"}).Render()
	assert.Error(t, err)

	_, err = (&Entry{RecordID: "XX-1"}).Render()
	assert.Error(t, err)
}
