package schema

import (
	"strings"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/tap-bingads/internal/wsdl"
)

// serviceNamespacePrefix filters a service's own types from the foreign and
// base-library namespaces (SOAP envelope types, WCF serialization arrays)
// also present in its WSDL.
const serviceNamespacePrefix = "https://bingads.microsoft.com"

// TypeMap is the name-keyed arena of derived fragments for one service's
// namespace. Type names are only unique per service, so a TypeMap is never
// shared across services.
type TypeMap struct {
	types *orderedmap.OrderedMap[string, *Fragment]
}

// BuildTypeMap derives the full name-to-schema map for a service in two
// passes. Pass one infers every type in the service's own namespaces,
// leaving cross-type references as placeholder names. Pass two substitutes
// each placeholder with the mapped fragment of that name, where present.
//
// Substitution is a single pass by name: a reference whose target is outside
// the filtered namespace set stays a bare string in the output. That is a
// known incompleteness inherited from the source tap, reported as a warning
// by the caller rather than an error.
func BuildTypeMap(types []wsdl.Type) *TypeMap {
	tm := &TypeMap{types: orderedmap.NewOrderedMap[string, *Fragment]()}

	for _, t := range types {
		if !strings.HasPrefix(t.Namespace, serviceNamespacePrefix) {
			continue
		}
		tm.types.Set(t.Name, Infer(t))
	}

	for el := tm.types.Front(); el != nil; el = el.Next() {
		tm.fillNestedTypes(el.Value)
	}

	return tm
}

// fillNestedTypes replaces placeholder properties with the mapped fragment
// of the referenced name. Substituted fragments are shared, not copied, so
// the arena preserves the name-based indirection without pointer cycles in
// the build itself.
func (tm *TypeMap) fillNestedTypes(frag *Fragment) {
	if frag.Properties == nil {
		return
	}
	for el := frag.Properties.Front(); el != nil; el = el.Next() {
		if el.Value.Resolved() {
			continue
		}
		if resolved, ok := tm.types.Get(el.Value.Ref); ok {
			frag.Properties.Set(el.Key, Property{Fragment: resolved})
		}
	}
}

// Get returns the fragment derived for the named type.
func (tm *TypeMap) Get(name string) (*Fragment, bool) {
	return tm.types.Get(name)
}

// Len returns the number of mapped types.
func (tm *TypeMap) Len() int {
	return tm.types.Len()
}

// UnresolvedRef identifies a placeholder reference that survived the
// substitution pass.
type UnresolvedRef struct {
	Type     string
	Property string
	Target   string
}

// UnresolvedRefs lists every placeholder left after the substitution pass.
func (tm *TypeMap) UnresolvedRefs() []UnresolvedRef {
	var refs []UnresolvedRef
	for el := tm.types.Front(); el != nil; el = el.Next() {
		if el.Value.Properties == nil {
			continue
		}
		for p := el.Value.Properties.Front(); p != nil; p = p.Next() {
			if !p.Value.Resolved() {
				refs = append(refs, UnresolvedRef{Type: el.Key, Property: p.Key, Target: p.Value.Ref})
			}
		}
	}
	return refs
}
