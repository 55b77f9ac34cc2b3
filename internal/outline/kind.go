package outline

// Kind classifies an outline element.
type Kind uint8

const (
	KindVariable Kind = iota
	KindFunction
	KindAggregate
	KindImpl
	KindInterface
	KindEnum
	KindEnumVariant
	KindExternCrate
	KindModule
	KindImport
	KindTypeAlias
)

var kindTags = [...]string{
	KindVariable:    "Var",
	KindFunction:    "Function",
	KindAggregate:   "Struct",
	KindImpl:        "Impl",
	KindInterface:   "Trait",
	KindEnum:        "Enum",
	KindEnumVariant: "EnumVariant",
	KindExternCrate: "ExternCrate",
	KindModule:      "Mod",
	KindImport:      "Use",
	KindTypeAlias:   "TypeAlias",
}

// String returns the wire tag of k.
func (k Kind) String() string {
	if int(k) < len(kindTags) {
		return kindTags[k]
	}
	return "Unknown"
}

// ParseKind maps a wire tag back to its Kind.
func ParseKind(tag string) (Kind, bool) {
	for k, t := range kindTags {
		if t == tag {
			return Kind(k), true
		}
	}
	return 0, false
}

// Kinds returns every Kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kindTags))
	for i := range kindTags {
		out[i] = Kind(i)
	}
	return out
}
