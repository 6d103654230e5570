package bingads

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// DecodeDocument parses an XML document into plain Go values: maps for
// elements with children, slices for repeated sibling elements, scalars for
// leaves. Namespace prefixes are dropped from key names. This is the typed
// decode boundary: nothing downstream ever sees wire XML.
func DecodeDocument(r io.Reader) (map[string]any, error) {
	d := xml.NewDecoder(r)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("document contains no elements")
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse response document: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		value, err := decodeElement(d, start)
		if err != nil {
			return nil, fmt.Errorf("failed to decode response document: %w", err)
		}
		return map[string]any{start.Name.Local: value}, nil
	}
}

func decodeElement(d *xml.Decoder, start xml.StartElement) (any, error) {
	for _, a := range start.Attr {
		if a.Name.Local == "nil" && a.Value == "true" {
			if err := d.Skip(); err != nil {
				return nil, err
			}
			return nil, nil
		}
	}

	var children map[string]any
	var text strings.Builder

	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeElement(d, t)
			if err != nil {
				return nil, err
			}
			if children == nil {
				children = make(map[string]any)
			}
			addChild(children, t.Name.Local, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if children != nil {
				return children, nil
			}
			return coerceScalar(strings.TrimSpace(text.String())), nil
		}
	}
}

// addChild inserts a child value, promoting repeated sibling names to a
// slice. Single-or-list normalization for response collections happens
// later via AsList.
func addChild(m map[string]any, name string, v any) {
	existing, ok := m[name]
	if !ok {
		m[name] = v
		return
	}
	if list, ok := existing.([]any); ok {
		m[name] = append(list, v)
		return
	}
	m[name] = []any{existing, v}
}

var (
	intPattern   = regexp.MustCompile(`^-?\d+$`)
	floatPattern = regexp.MustCompile(`^-?\d+\.\d+$`)
)

// coerceScalar converts a leaf's text into the matching Go scalar. The wire
// format is untyped text; booleans and numbers are recognized by literal
// shape, everything else stays a string.
func coerceScalar(s string) any {
	switch s {
	case "":
		return ""
	case "true":
		return true
	case "false":
		return false
	}
	if intPattern.MatchString(s) {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	}
	if floatPattern.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// Field walks nested maps by key and returns nil as soon as any step is
// missing or not an object.
func Field(v any, path ...string) any {
	for _, key := range path {
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v, ok = m[key]
		if !ok {
			return nil
		}
	}
	return v
}

// AsList normalizes a single-object-or-list response collection. A nil
// value yields an empty list: a missing collection means zero entities,
// never an error.
func AsList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}

// AsObject returns the value as a decoded object, or false when it is
// anything else.
func AsObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// IDString renders a decoded identifier for use in a request body.
func IDString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
