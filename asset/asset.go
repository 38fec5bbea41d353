// Package asset defines publishable assets and the rules they must satisfy
// before an entry is built for them.
package asset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Type is the kind of content an asset carries.
type Type string

const (
	// TypeText is opaque text. It is XML-escaped when rendered.
	TypeText Type = "text"
	// TypeImage is an http(s) URL pointing at an image.
	TypeImage Type = "image"
	// TypeVideo is an http(s) URL pointing at a video.
	TypeVideo Type = "video"
)

// ParseType normalizes s and returns the matching Type.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeText, TypeImage, TypeVideo:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAssetType, s)
	}
}

// Wire returns the upper-cased name used in the AssetType element.
func (t Type) Wire() string {
	return strings.ToUpper(string(t))
}

// Asset is one unit of content targeted at a named slot.
type Asset struct {
	// Target is the caller-chosen slot identifier (e.g. "XX~username").
	Target string `json:"target"`

	// Type is one of text, image or video. Matching is case-insensitive.
	Type Type `json:"type"`

	// Value is the text, or the URL for image and video assets.
	Value string `json:"value"`
}

// keys is the exact field set an asset must carry, sorted.
var keys = []string{"target", "type", "value"}

// UnmarshalJSON decodes an asset, rejecting objects whose key set is not
// exactly target, type and value.
func (a *Asset) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode asset: %w", err)
	}
	if err := checkKeys(mapKeys(raw)); err != nil {
		return err
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		var s string
		dec := json.NewDecoder(bytes.NewReader(v))
		if err := dec.Decode(&s); err != nil {
			return fmt.Errorf("decode asset field %q: %w", k, err)
		}
		fields[k] = s
	}
	*a = Asset{Target: fields["target"], Type: Type(fields["type"]), Value: fields["value"]}
	return nil
}

// FromMap builds an asset from a loosely-typed map, applying the same key
// check as UnmarshalJSON.
func FromMap(m map[string]string) (Asset, error) {
	if err := checkKeys(mapKeys(m)); err != nil {
		return Asset{}, err
	}
	return Asset{Target: m["target"], Type: Type(m["type"]), Value: m["value"]}, nil
}

func mapKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func checkKeys(got []string) error {
	if len(got) != len(keys) {
		return fmt.Errorf("%w: got %v", ErrInvalidAssetKeys, got)
	}
	for i := range keys {
		if got[i] != keys[i] {
			return fmt.Errorf("%w: got %v", ErrInvalidAssetKeys, got)
		}
	}
	return nil
}
