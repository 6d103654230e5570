package wsdl

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// document mirrors the subset of a WSDL definitions element we care about:
// the embedded XSD schema sections under wsdl:types.
type document struct {
	Attrs []xml.Attr `xml:",any,attr"`
	Types struct {
		Schemas []schemaSection `xml:"schema"`
	} `xml:"types"`
}

type schemaSection struct {
	TargetNamespace string        `xml:"targetNamespace,attr"`
	Attrs           []xml.Attr    `xml:",any,attr"`
	ComplexTypes    []complexType `xml:"complexType"`
	SimpleTypes     []simpleType  `xml:"simpleType"`
}

type complexType struct {
	Name      string       `xml:"name,attr"`
	Sequence  []elementDef `xml:"sequence>element"`
	Extension *extension   `xml:"complexContent>extension"`
}

type extension struct {
	Base     string       `xml:"base,attr"`
	Sequence []elementDef `xml:"sequence>element"`
}

type simpleType struct {
	Name        string       `xml:"name,attr"`
	Restriction *restriction `xml:"restriction"`
}

type restriction struct {
	Enumerations []enumeration `xml:"enumeration"`
}

type enumeration struct {
	Value string `xml:"value,attr"`
}

type elementDef struct {
	Name     string      `xml:"name,attr"`
	Type     string      `xml:"type,attr"`
	Ref      string      `xml:"ref,attr"`
	Nillable string      `xml:"nillable,attr"`
	Inline   *simpleType `xml:"simpleType"`
}

// Fetch downloads and parses the WSDL document for a service endpoint.
// The type metadata itself is served unauthenticated.
func Fetch(ctx context.Context, client *http.Client, endpoint, userAgent string) ([]Type, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?wsdl", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build WSDL request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch WSDL from %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("non-200 (%d) response fetching WSDL from %s", resp.StatusCode, endpoint)
	}

	return Parse(resp.Body)
}

// Parse reads type descriptors out of a WSDL document.
func Parse(r io.Reader) ([]Type, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse WSDL document: %w", err)
	}

	rootNS := namespacesFromAttrs(doc.Attrs, nil)

	var types []Type
	for _, s := range doc.Types.Schemas {
		ns := namespacesFromAttrs(s.Attrs, rootNS)
		for _, st := range s.SimpleTypes {
			types = append(types, Type{
				Name:      st.Name,
				Namespace: s.TargetNamespace,
				Kind:      KindSimple,
				Enum:      enumValues(&st),
			})
		}
		for _, ct := range s.ComplexTypes {
			types = append(types, Type{
				Name:      ct.Name,
				Namespace: s.TargetNamespace,
				Kind:      KindComplex,
				Elements:  convertElements(&ct, ns, s.TargetNamespace),
			})
		}
	}
	return types, nil
}

// namespacesFromAttrs builds a prefix-to-namespace map from xmlns
// declarations, layered over any declarations inherited from the parent.
func namespacesFromAttrs(attrs []xml.Attr, parent map[string]string) map[string]string {
	ns := make(map[string]string, len(attrs)+len(parent))
	for k, v := range parent {
		ns[k] = v
	}
	for _, a := range attrs {
		switch {
		case a.Name.Space == "xmlns":
			ns[a.Name.Local] = a.Value
		case a.Name.Local == "xmlns":
			ns[""] = a.Value
		}
	}
	return ns
}

func enumValues(st *simpleType) []string {
	if st.Restriction == nil {
		return nil
	}
	values := make([]string, 0, len(st.Restriction.Enumerations))
	for _, e := range st.Restriction.Enumerations {
		values = append(values, e.Value)
	}
	return values
}

// convertElements flattens a complex type's child elements. Types declared
// through complexContent/extension contribute only their own sequence; base
// type members are separate descriptors and are not inlined here.
func convertElements(ct *complexType, ns map[string]string, targetNS string) []Element {
	defs := ct.Sequence
	if len(defs) == 0 && ct.Extension != nil {
		defs = ct.Extension.Sequence
	}

	elements := make([]Element, 0, len(defs))
	for _, d := range defs {
		el := Element{
			Name:     d.Name,
			Nillable: d.Nillable == "true",
		}
		switch {
		case d.Ref != "":
			el.Ref = localName(d.Ref)
		case d.Inline != nil:
			el.Enum = enumValues(d.Inline)
		case d.Type != "":
			el.TypeName = localName(d.Type)
			el.TypeNamespace = resolvePrefix(d.Type, ns, targetNS)
		}
		elements = append(elements, el)
	}
	return elements
}

func localName(qname string) string {
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		return qname[i+1:]
	}
	return qname
}

func resolvePrefix(qname string, ns map[string]string, targetNS string) string {
	prefix := ""
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		prefix = qname[:i]
	}
	if resolved, ok := ns[prefix]; ok {
		return resolved
	}
	// Unprefixed names with no default xmlns refer to the declaring schema.
	return targetNS
}
