package qualifier

import (
	"errors"

	"fnqual/internal/diag"
	"fnqual/internal/lexer"
	"fnqual/internal/source"
	"fnqual/internal/token"
	"fnqual/internal/tokstream"
)

// countingReporter forwards to an inner reporter and remembers whether an
// error went through.
type countingReporter struct {
	inner  diag.Reporter
	errors int
}

func (r *countingReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	if sev >= diag.SevError {
		r.errors++
	}
	if r.inner != nil {
		r.inner.Report(code, sev, primary, msg, notes, fixes)
	}
}

// ParseSpecFile lexes file and parses its whole content as a specification.
// Problems are reported to r; ok is false when anything was reported.
func ParseSpecFile(file *source.File, r diag.Reporter) (Spec, bool) {
	cr := &countingReporter{inner: r}
	toks := lexer.Tokenize(file, lexer.Options{Reporter: cr})
	if cr.errors > 0 {
		return Spec{}, false
	}
	spec, err := ParseTokens(toks)
	if err != nil {
		ReportError(r, err)
		return Spec{}, false
	}
	return spec, true
}

// ParseSpecText registers text in fs under name and parses it like
// ParseSpecFile.
func ParseSpecText(fs *source.FileSet, name, text string, r diag.Reporter) (Spec, bool) {
	return ParseSpecFile(fs.Get(fs.AddVirtual(name, []byte(text))), r)
}

// ParseTokens builds a stream over toks and parses a specification from it.
// Unbalanced delimiters are reported as a malformed list.
func ParseTokens(toks []token.Token) (Spec, error) {
	s, err := tokstream.Build(toks)
	if err != nil {
		return Spec{}, delimError(err)
	}
	return ParseSpec(s)
}

func delimError(err error) error {
	var de *tokstream.DelimError
	if !errors.As(err, &de) {
		return err
	}
	e := errorf(ReasonMalformedList, de.Span, "%s", de.Error())
	if de.Kind == tokstream.DelimMismatched {
		e.Notes = append(e.Notes, noteAt(de.OpenSpan, "unclosed delimiter opened here"))
	}
	return e
}

// ReportError sends err to r, as a positioned diagnostic when err is an
// *Error.
func ReportError(r diag.Reporter, err error) {
	if err == nil {
		return
	}
	var qe *Error
	if errors.As(err, &qe) {
		diag.Emit(r, qe.Diagnostic())
		return
	}
	diag.Emit(r, diag.NewError(diag.UnknownCode, source.NoSpan, err.Error()))
}
