package qualifier

import "fnqual/internal/source"

// Qualifier is one parsed qualifier. Vis is meaningful only for
// KindVisibility, Abi only for KindCallingConvention.
type Qualifier struct {
	Kind Kind
	Span source.Span
	Vis  Visibility
	Abi  Abi
}

func (q Qualifier) String() string {
	switch q.Kind {
	case KindVisibility:
		return q.Vis.String()
	case KindCallingConvention:
		return q.Abi.String()
	default:
		return q.Kind.String()
	}
}

// Equal compares kinds and payloads; spans are ignored.
func (q Qualifier) Equal(other Qualifier) bool {
	if q.Kind != other.Kind {
		return false
	}
	switch q.Kind {
	case KindVisibility:
		return q.Vis.Equal(other.Vis)
	case KindCallingConvention:
		return q.Abi.Equal(other.Abi)
	default:
		return true
	}
}
