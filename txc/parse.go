package txc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// ErrUnknownStopVariant reports a document whose StopPoints container
// holds neither supported stop-declaration shape.
var ErrUnknownStopVariant = errors.New("no StopPoint or AnnotatedStopPointRef elements")

// Variant is the stop-declaration shape of a document.
type Variant int

const (
	VariantUnknown Variant = iota
	// VariantInlineStops marks inline StopPoint definitions.
	VariantInlineStops
	// VariantStopRefs marks AnnotatedStopPointRef references.
	VariantStopRefs
)

func (v Variant) String() string {
	switch v {
	case VariantInlineStops:
		return "inline-stops"
	case VariantStopRefs:
		return "stop-refs"
	}
	return "unknown"
}

// Variant inspects the stop container and reports which extraction
// strategy applies. Inline definitions win when both shapes appear.
func (d *Document) Variant() Variant {
	switch {
	case len(d.StopPoints.Inline) > 0:
		return VariantInlineStops
	case len(d.StopPoints.Refs) > 0:
		return VariantStopRefs
	}
	return VariantUnknown
}

// Parse reads a single TransXChange document. Latin-1 style encodings
// declared by the document are transcoded; everything else is read as
// UTF-8.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse TransXChange document: %w", err)
	}
	return &doc, nil
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
		return input, nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	}
	return nil, fmt.Errorf("unsupported document encoding %q", charset)
}
