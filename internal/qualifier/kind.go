package qualifier

// Kind is the category of a qualifier.
type Kind uint8

const (
	KindVisibility Kind = iota
	KindPurity
	KindAsynchrony
	KindSafety
	KindCallingConvention

	kindCount
)

// Kinds lists every kind in canonical declaration order.
var Kinds = [kindCount]Kind{
	KindVisibility,
	KindPurity,
	KindAsynchrony,
	KindSafety,
	KindCallingConvention,
}

var kindNames = [kindCount]string{
	KindVisibility:        "visibility",
	KindPurity:            "const",
	KindAsynchrony:        "async",
	KindSafety:            "unsafe",
	KindCallingConvention: "abi",
}

func (k Kind) String() string {
	if k >= kindCount {
		return "invalid"
	}
	return kindNames[k]
}
