package source

import (
	"fmt"
)

// NoFile marks a span that points at no file (I/O failures, internal errors).
const NoFile FileID = ^FileID(0)

// NoSpan is the primary span of diagnostics without a source location.
var NoSpan = Span{File: NoFile}

// Span is a half-open byte range inside one file.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
// Spans from different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// ExtendRight stretches s up to the start of next, swallowing whatever
// trivia sits between them. Used by fixes that delete a token together
// with the separator that follows it.
func (s Span) ExtendRight(next Span) Span {
	if s.File != next.File || next.Start < s.End {
		return s
	}
	s.End = next.Start
	return s
}

// Contains reports whether other lies fully inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && other.Start >= s.Start && other.End <= s.End
}

// AtStart collapses the span to an empty span at its start.
func (s Span) AtStart() Span {
	return Span{File: s.File, Start: s.Start, End: s.Start}
}

// AtEnd collapses the span to an empty span at its end.
func (s Span) AtEnd() Span {
	return Span{File: s.File, Start: s.End, End: s.End}
}
