package schema

import (
	"regexp"

	"github.com/dbsmedya/tap-bingads/internal/wsdl"
)

// arrayTypePattern matches the Bing Ads naming convention for arrays of
// primitives, e.g. ArrayOflong or ArrayOfstring. The lowercase token is an
// external contract of the service's type naming scheme, not an XML Schema
// rule: ArrayOfCampaign is a reference to a complex type, not an array of
// scalars.
var arrayTypePattern = regexp.MustCompile(`^ArrayOf([a-z]+)$`)

// Infer converts one WSDL type descriptor into a JSON Schema fragment.
// Cross-type references are left as unresolved placeholders carrying the
// referenced type's name; BuildTypeMap substitutes them later.
func Infer(t wsdl.Type) *Fragment {
	if t.Kind == wsdl.KindSimple {
		return enumFragment(t.Enum, false)
	}

	frag := NewObjectFragment()
	for _, el := range t.Elements {
		switch {
		case len(el.Enum) > 0:
			// Inline enumeration declared on the element itself.
			frag.Properties.Set(el.Name, Property{Fragment: enumFragment(el.Enum, el.Nillable)})

		case el.Ref != "":
			// The element reuses another named type instead of declaring a
			// shape. Record the name; it is not a schema yet.
			frag.Properties.Set(el.Ref, Property{Ref: el.Ref})

		case el.TypeNamespace != "" && el.TypeNamespace != wsdl.XSDNamespace:
			if m := arrayTypePattern.FindStringSubmatch(el.TypeName); m != nil {
				frag.Properties.Set(el.Name, Property{Fragment: &Fragment{
					Types: []string{"array"},
					Items: MapScalar(m[1]),
				}})
			} else {
				// Names another complex type; resolved in the second pass.
				frag.Properties.Set(el.Name, Property{Ref: el.TypeName})
			}

		default:
			s := MapScalar(el.TypeName)
			if el.Nillable {
				s.Types = append([]string{"null"}, s.Types...)
			}
			frag.Properties.Set(el.Name, Property{Fragment: s})
		}
	}
	return frag
}

func enumFragment(values []string, nillable bool) *Fragment {
	types := []string{"string"}
	if nillable {
		types = append([]string{"null"}, types...)
	}
	return &Fragment{Types: types, Enum: values}
}
