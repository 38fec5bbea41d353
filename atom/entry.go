package atom

import (
	"errors"
	"path"
	"strings"
)

// DefaultBase is the xml:base of an entry when none is derived.
const DefaultBase = "/p/p.svc/"

// escaper replaces the five reserved XML characters with named entities.
// strings.Replacer makes a single pass, so "&" produced by one replacement is
// never escaped again.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
)

// EscapeText escapes & < > ' and " as named entities.
func EscapeText(s string) string {
	return escaper.Replace(s)
}

// ServiceBase returns the xml:base for entries posted to pathname: the
// collection's parent with a trailing slash ("/p/p.svc/Assets/" gives "/p/p.svc/").
func ServiceBase(pathname string) string {
	trimmed := strings.TrimSuffix(pathname, "/")
	if trimmed == "" {
		return DefaultBase
	}
	dir := path.Dir(trimmed)
	if dir == "/" || dir == "." {
		return DefaultBase
	}
	return dir + "/"
}

// Entry is one asset ready to be rendered as an Atom entry.
type Entry struct {
	// Base is the xml:base attribute. Empty means DefaultBase.
	Base string

	// Updated is the batch timestamp, already formatted.
	Updated string

	// RecordID groups every entry of one publish call.
	RecordID string

	// Client is the client ID.
	Client string

	// Target is the slot the asset is published to.
	Target string

	// Type is the wire type name (TEXT, IMAGE or VIDEO).
	Type string

	// Data is the asset value. Text values are escaped on render; URL values
	// are written as given.
	Data string
}

// Render serializes the entry.
func (e *Entry) Render() ([]byte, error) {
	if e.RecordID == "" {
		return nil, errors.New("atom: entry has no record ID")
	}
	if e.Type == "" {
		return nil, errors.New("atom: entry has no type")
	}

	base := e.Base
	if base == "" {
		base = DefaultBase
	}

	data := e.Data
	if e.Type == "TEXT" {
		data = EscapeText(data)
	}

	var b strings.Builder
	b.Grow(1024 + len(data))
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<entry xml:base="` + EscapeText(base) + `" xmlns:d="` + NsData + `" xmlns:m="` + NsMetadata + `" xmlns="` + NsAtom + `">
  <id></id>
  <title type="text"></title>
  <updated>` + EscapeText(e.Updated) + `</updated>
  <author><name /></author>
  <category term="` + CategoryAsset + `" scheme="` + NsScheme + `" />
  <content type="application/xml">
    <m:properties>
`)
	writeProp(&b, PropAssetID, AssetIDPlaceholder)
	writeProp(&b, PropAssetData, data)
	writeProp(&b, PropAssetType, e.Type)
	writeProp(&b, PropAssetMeta, "")
	writeProp(&b, PropAssetRecordID, EscapeText(e.RecordID))
	writeProp(&b, PropTarget, EscapeText(e.Target))
	writeProp(&b, PropClient, EscapeText(e.Client))
	writeProp(&b, PropStatus, StatusApproved)
	b.WriteString(`    </m:properties>
  </content>
</entry>
`)

	return []byte(b.String()), nil
}

// writeProp writes one already-escaped d: property.
func writeProp(b *strings.Builder, name, value string) {
	b.WriteString("      <d:")
	b.WriteString(name)
	b.WriteString(">")
	b.WriteString(value)
	b.WriteString("</d:")
	b.WriteString(name)
	b.WriteString(">\n")
}
