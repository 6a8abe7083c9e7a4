package qualifier

import (
	"strings"

	"fnqual/internal/source"
)

// Scope is the reach of a visibility qualifier.
type Scope uint8

const (
	ScopePublic Scope = iota // pub
	ScopeCrate               // pub(crate)
	ScopeSuper               // pub(super)
	ScopeSelf                // pub(self)
	ScopeInPath              // pub(in a::b)
)

// Visibility is a parsed `pub` production.
type Visibility struct {
	Scope Scope
	// Path holds the segments of pub(in ...); nil for other scopes.
	Path []string
	Span source.Span
}

func (v Visibility) String() string {
	switch v.Scope {
	case ScopeCrate:
		return "pub(crate)"
	case ScopeSuper:
		return "pub(super)"
	case ScopeSelf:
		return "pub(self)"
	case ScopeInPath:
		return "pub(in " + strings.Join(v.Path, "::") + ")"
	default:
		return "pub"
	}
}

// Equal compares scope and path, ignoring spans.
func (v Visibility) Equal(other Visibility) bool {
	if v.Scope != other.Scope || len(v.Path) != len(other.Path) {
		return false
	}
	for i := range v.Path {
		if v.Path[i] != other.Path[i] {
			return false
		}
	}
	return true
}
