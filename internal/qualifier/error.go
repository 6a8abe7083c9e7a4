package qualifier

import (
	"fmt"

	"fnqual/internal/diag"
	"fnqual/internal/source"
)

// Reason classifies a specification error.
type Reason uint8

const (
	// ReasonUnrecognized: the lookahead is none of the qualifier keywords.
	ReasonUnrecognized Reason = iota + 1
	// ReasonDuplicate: a list names one kind twice.
	ReasonDuplicate
	// ReasonMalformedList: missing comma, unterminated bracket, stray tokens.
	ReasonMalformedList
	// ReasonMalformedPayload: bad visibility scope or ABI literal.
	ReasonMalformedPayload
)

var reasonCodes = map[Reason]diag.Code{
	ReasonUnrecognized:     diag.QualUnrecognized,
	ReasonDuplicate:        diag.QualDuplicate,
	ReasonMalformedList:    diag.QualMalformedList,
	ReasonMalformedPayload: diag.QualMalformedPayload,
}

func (r Reason) String() string {
	switch r {
	case ReasonUnrecognized:
		return "UnrecognizedQualifier"
	case ReasonDuplicate:
		return "DuplicateQualifier"
	case ReasonMalformedList:
		return "MalformedBracketList"
	case ReasonMalformedPayload:
		return "MalformedQualifierPayload"
	default:
		return "Unknown"
	}
}

// Error is a positioned specification error.
type Error struct {
	Reason Reason
	// Kind is the duplicated kind for ReasonDuplicate.
	Kind  Kind
	Span  source.Span
	Msg   string
	Notes []diag.Note
	Fixes []diag.Fix
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Msg)
}

// Code maps the reason to its diagnostic code.
func (e *Error) Code() diag.Code {
	if c, ok := reasonCodes[e.Reason]; ok {
		return c
	}
	return diag.UnknownCode
}

// Diagnostic converts e into an error diagnostic.
func (e *Error) Diagnostic() diag.Diagnostic {
	d := diag.NewError(e.Code(), e.Span, e.Msg)
	d.Notes = append(d.Notes, e.Notes...)
	d.Fixes = append(d.Fixes, e.Fixes...)
	return d
}

func errorf(reason Reason, sp source.Span, format string, args ...any) *Error {
	return &Error{Reason: reason, Span: sp, Msg: fmt.Sprintf(format, args...)}
}
