package qualifier

import "fnqual/internal/source"

// Form tells the two specification shapes apart.
type Form uint8

const (
	FormSingle Form = iota
	FormMultiple
)

func (f Form) String() string {
	if f == FormMultiple {
		return "multiple"
	}
	return "single"
}

// Spec is a parsed qualifier specification.
type Spec struct {
	Form Form
	// Single is set for FormSingle.
	Single Qualifier
	// Set is set for FormMultiple.
	Set  Set
	Span source.Span
}

// SingleSpec wraps one qualifier.
func SingleSpec(q Qualifier) Spec {
	return Spec{Form: FormSingle, Single: q, Span: q.Span}
}

// MultipleSpec wraps a set.
func MultipleSpec(set Set, span source.Span) Spec {
	return Spec{Form: FormMultiple, Set: set, Span: span}
}

func (s Spec) String() string {
	if s.Form == FormMultiple {
		return s.Set.String()
	}
	return s.Single.String()
}

// Equal compares forms and contents, ignoring spans.
func (s Spec) Equal(other Spec) bool {
	if s.Form != other.Form {
		return false
	}
	if s.Form == FormMultiple {
		return s.Set.Equal(other.Set)
	}
	return s.Single.Equal(other.Single)
}
