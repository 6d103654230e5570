// Package schema derives JSON Schema fragments from WSDL type descriptors.
//
// Derivation runs in two phases: Infer produces per-type fragments whose
// cross-type references are left as bare placeholder names, and BuildTypeMap
// substitutes those placeholders by name lookup once every type of a service
// has been inferred. Name-keyed indirection stands in for pointer cycles:
// the remote type system lets types reference each other before either is
// fully defined.
package schema

import (
	"bytes"
	"encoding/json"

	"github.com/elliotchance/orderedmap/v2"
)

// Fragment is a JSON Schema fragment for one remote type.
// Property order follows the WSDL element declaration order, which is why
// Properties is an ordered map rather than a plain Go map.
type Fragment struct {
	Types      []string
	Format     string
	Enum       []string
	Items      *Fragment
	Properties *orderedmap.OrderedMap[string, Property]
}

// Property is either a resolved schema fragment or an unresolved reference
// to another named type, pending substitution from the type map.
type Property struct {
	Ref      string    // referenced type name, set while unresolved
	Fragment *Fragment // resolved schema, nil while unresolved
}

// Resolved reports whether the property carries a schema fragment.
func (p Property) Resolved() bool {
	return p.Fragment != nil
}

// MarshalJSON emits the resolved fragment, or the bare reference name when
// the property never resolved. Leaving the name in place matches the
// upstream tap: an unresolved reference is a documented gap, not a failure.
func (p Property) MarshalJSON() ([]byte, error) {
	if p.Fragment != nil {
		return json.Marshal(p.Fragment)
	}
	return json.Marshal(p.Ref)
}

// NewObjectFragment returns an empty object fragment with ordered properties.
// Discovered objects are strict contracts: additionalProperties is always
// false so schema drift on the remote service surfaces immediately.
func NewObjectFragment() *Fragment {
	return &Fragment{
		Types:      []string{"object"},
		Properties: orderedmap.NewOrderedMap[string, Property](),
	}
}

// MarshalJSON serializes the fragment with properties in declaration order.
func (f *Fragment) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeField := func(key string, value interface{}) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	if err := writeField("type", f.Types); err != nil {
		return nil, err
	}
	if f.Format != "" {
		if err := writeField("format", f.Format); err != nil {
			return nil, err
		}
	}
	if f.Enum != nil {
		if err := writeField("enum", f.Enum); err != nil {
			return nil, err
		}
	}
	if f.Items != nil {
		if err := writeField("items", f.Items); err != nil {
			return nil, err
		}
	}
	if f.Properties != nil {
		if err := writeField("additionalProperties", false); err != nil {
			return nil, err
		}
		buf.WriteString(`,"properties":{`)
		first := true
		for el := f.Properties.Front(); el != nil; el = el.Next() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			k, err := json.Marshal(el.Key)
			if err != nil {
				return nil, err
			}
			v, err := json.Marshal(el.Value)
			if err != nil {
				return nil, err
			}
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
		buf.WriteByte('}')
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
