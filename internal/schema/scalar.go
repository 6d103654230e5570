package schema

// MapScalar maps a primitive XML Schema type name to a JSON Schema fragment.
// Unknown names fall back to string rather than failing: the mapping is
// lossy but never fatal, and it must stay deterministic because Infer
// invokes it for every primitive element and array item.
func MapScalar(remoteType string) *Fragment {
	switch remoteType {
	case "boolean":
		return &Fragment{Types: []string{"boolean"}}
	case "decimal", "float", "double":
		return &Fragment{Types: []string{"number"}}
	case "long", "int", "short", "byte", "unsignedLong", "unsignedInt", "unsignedShort", "unsignedByte", "integer":
		return &Fragment{Types: []string{"integer"}}
	case "dateTime", "date":
		return &Fragment{Types: []string{"string"}, Format: "date-time"}
	default:
		return &Fragment{Types: []string{"string"}}
	}
}
