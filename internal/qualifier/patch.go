package qualifier

// Target is a declaration whose qualifier fields can be overwritten. ok ==
// false clears the field.
type Target interface {
	SetVisibility(v Visibility, ok bool)
	SetPurity(ok bool)
	SetAsynchrony(ok bool)
	SetSafety(ok bool)
	SetCallingConvention(a Abi, ok bool)
}

// Patch is a per-kind list of field overwrites. Kinds without an overwrite
// are left as they are on the target.
type Patch struct {
	fields [kindCount]fieldPatch
}

type fieldPatch struct {
	overwrite bool
	value     Qualifier
	present   bool
}

// Overwrite schedules field k to be set to q (present) or cleared.
func (p *Patch) Overwrite(k Kind, q Qualifier, present bool) {
	p.fields[k] = fieldPatch{overwrite: true, value: q, present: present}
}

// Touches reports whether k is overwritten.
func (p Patch) Touches(k Kind) bool {
	return p.fields[k].overwrite
}

// Value returns the scheduled value for k; ok is false when the field is
// cleared or left alone.
func (p Patch) Value(k Kind) (Qualifier, bool) {
	f := p.fields[k]
	return f.value, f.overwrite && f.present
}

// Patch turns the specification into field overwrites.
//
// A single qualifier overwrites its own field only. A list overwrites every
// field, clearing the kinds it does not name, so `[pub]` also drops const,
// async, unsafe and extern from the target.
func (s Spec) Patch() Patch {
	var p Patch
	switch s.Form {
	case FormSingle:
		p.Overwrite(s.Single.Kind, s.Single, true)
	case FormMultiple:
		for _, k := range Kinds {
			q, ok := s.Set.Get(k)
			p.Overwrite(k, q, ok)
		}
	}
	return p
}

var setters = [kindCount]func(t Target, q Qualifier, ok bool){
	KindVisibility:        func(t Target, q Qualifier, ok bool) { t.SetVisibility(q.Vis, ok) },
	KindPurity:            func(t Target, _ Qualifier, ok bool) { t.SetPurity(ok) },
	KindAsynchrony:        func(t Target, _ Qualifier, ok bool) { t.SetAsynchrony(ok) },
	KindSafety:            func(t Target, _ Qualifier, ok bool) { t.SetSafety(ok) },
	KindCallingConvention: func(t Target, q Qualifier, ok bool) { t.SetCallingConvention(q.Abi, ok) },
}

// Apply writes the overwrites of p into t.
func Apply(p Patch, t Target) {
	for _, k := range Kinds {
		f := p.fields[k]
		if !f.overwrite {
			continue
		}
		setters[k](t, f.value, f.present)
	}
}

// ApplySpec is Apply(spec.Patch(), t).
func ApplySpec(spec Spec, t Target) {
	Apply(spec.Patch(), t)
}
