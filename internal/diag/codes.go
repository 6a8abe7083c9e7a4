package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadEscape                Code = 1005

	// Синтаксические
	SynUnexpectedToken      Code = 2001
	SynUnclosedDelimiter    Code = 2002
	SynUnmatchedCloser      Code = 2003
	SynExpectFn             Code = 2004
	SynExpectIdentifier     Code = 2005
	SynExpectParams         Code = 2006
	SynExpectBody           Code = 2007
	SynDuplicateModifier    Code = 2008
	SynExpectAnnotationArgs Code = 2010
	SynAnnotationNoTarget   Code = 2011
	SynTrailingTokens       Code = 2012

	// Qualifier specification
	QualUnrecognized     Code = 3001
	QualDuplicate        Code = 3002
	QualMalformedList    Code = 3003
	QualMalformedPayload Code = 3004

	// IO
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002
	IOCacheError     Code = 4003

	// Project
	ProjInvalidConfig Code = 5001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number",
	LexBadEscape:                "Invalid escape sequence",
	SynUnexpectedToken:          "Unexpected token",
	SynUnclosedDelimiter:        "Unclosed delimiter",
	SynUnmatchedCloser:          "Unmatched closing delimiter",
	SynExpectFn:                 "Expected 'fn'",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectParams:             "Expected parameter list",
	SynExpectBody:               "Expected function body or ';'",
	SynDuplicateModifier:        "Duplicate declaration modifier",
	SynExpectAnnotationArgs:     "Expected annotation arguments",
	SynAnnotationNoTarget:       "Annotation without a declaration",
	SynTrailingTokens:           "Unexpected trailing tokens",
	QualUnrecognized:            "Unrecognized qualifier",
	QualDuplicate:               "Duplicate qualifier",
	QualMalformedList:           "Malformed qualifier list",
	QualMalformedPayload:        "Malformed qualifier payload",
	IOLoadFileError:             "Failed to load file",
	IOWriteFileError:            "Failed to write file",
	IOCacheError:                "Expansion cache error",
	ProjInvalidConfig:           "Invalid project configuration",
}

// ID returns the stable textual identifier, e.g. "QUAL3002".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("QUAL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
