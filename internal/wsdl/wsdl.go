// Package wsdl reads a SOAP service's type metadata from its WSDL document
// and exposes it as flat type descriptors, one per declared XSD type.
package wsdl

// XSDNamespace is the namespace of built-in XML Schema primitives.
const XSDNamespace = "http://www.w3.org/2001/XMLSchema"

// Kind distinguishes enumeration types from object types.
type Kind int

const (
	KindSimple  Kind = iota // simpleType: an enumeration
	KindComplex             // complexType: an object with child elements
)

// Type is one raw type descriptor read from a WSDL schema section.
// Descriptors are read once per discovery run and are immutable.
type Type struct {
	Name      string
	Namespace string // targetNamespace of the declaring schema
	Kind      Kind
	Enum      []string  // enumeration literals, simple types only
	Elements  []Element // child elements in declaration order, complex types only
}

// Element is one child element of a complex type. Exactly one of the
// following is populated: a primitive or named type (TypeName plus
// TypeNamespace), a reference to another declared element (Ref), or an
// inline enumeration (Enum).
type Element struct {
	Name          string
	Nillable      bool
	TypeName      string
	TypeNamespace string
	Ref           string
	Enum          []string
}
