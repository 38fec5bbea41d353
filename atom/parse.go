package atom

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Properties is the flat property set decoded from a response entry.
// Keys are element local names (AssetID, AssetData, ...); values are raw text.
// No schema is enforced: whatever the server sent is kept.
type Properties map[string]string

// normalizer removes the line breaks and indentation the service pads its
// responses with. Double spaces inside values are removed too.
var normalizer = strings.NewReplacer("\n", "", "\r", "", "  ", "")

// ParseProperties decodes the m:properties block of a response entry.
// A well-formed body without a properties block yields an empty set.
func ParseProperties(body []byte) (Properties, error) {
	dec := xml.NewDecoder(strings.NewReader(normalizer.Replace(string(body))))
	props := make(Properties)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return props, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse properties: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || !isProperties(start.Name) {
			continue
		}

		if err := readProperties(dec, props); err != nil {
			return nil, fmt.Errorf("parse properties: %w", err)
		}
		return props, nil
	}
}

// isProperties matches m:properties whether or not the prefix was declared.
func isProperties(n xml.Name) bool {
	return n.Local == "properties" && (n.Space == NsMetadata || n.Space == "m")
}

// readProperties consumes tokens up to the end of the properties element,
// storing each immediate child's text content.
func readProperties(dec *xml.Decoder, props Properties) error {
	var (
		depth int
		key   string
		text  bytes.Buffer
	)

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return io.ErrUnexpectedEOF
			}
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				key = t.Name.Local
				text.Reset()
			}
		case xml.CharData:
			if depth >= 1 {
				text.Write(t)
			}
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			if depth == 1 {
				props[key] = text.String()
			}
			depth--
		}
	}
}

// ServiceError is the OData error document returned with 4xx responses.
type ServiceError struct {
	XMLName xml.Name `xml:"error"`
	Code    string   `xml:"code"`
	Message string   `xml:"message"`
}

// ParseError extracts the message from an OData error body.
// Returns "" if the body is not an error document.
func ParseError(body []byte) string {
	if !bytes.Contains(body, []byte("error")) {
		return ""
	}

	var se ServiceError
	if err := xml.Unmarshal(body, &se); err != nil {
		return ""
	}
	return strings.TrimSpace(se.Message)
}
