package tokstream

import (
	"fmt"

	"fnqual/internal/source"
	"fnqual/internal/token"
)

// DelimErrorKind classifies a delimiter-balance failure.
type DelimErrorKind uint8

const (
	// DelimUnclosed is an opener without a closer.
	DelimUnclosed DelimErrorKind = iota + 1
	// DelimUnmatched is a closer without an opener.
	DelimUnmatched
	// DelimMismatched is a closer of the wrong shape, e.g. "(]".
	DelimMismatched
)

// DelimError reports unbalanced delimiters found by Build.
type DelimError struct {
	Kind DelimErrorKind
	// Span points at the offending delimiter: the unclosed opener, the
	// unmatched closer, or the wrong closer.
	Span source.Span
	// Open is the opener involved; Invalid for DelimUnmatched.
	Open     token.Kind
	OpenSpan source.Span
}

func (e *DelimError) Error() string {
	switch e.Kind {
	case DelimUnclosed:
		return fmt.Sprintf("unclosed delimiter %s", delimText(e.Open))
	case DelimUnmatched:
		return "unexpected closing delimiter"
	case DelimMismatched:
		closer, _ := e.Open.Closer()
		return fmt.Sprintf("mismatched closing delimiter, expected %s", delimText(closer))
	default:
		return "unbalanced delimiters"
	}
}

func delimText(k token.Kind) string {
	switch k {
	case token.LParen:
		return "'('"
	case token.RParen:
		return "')'"
	case token.LBracket:
		return "'['"
	case token.RBracket:
		return "']'"
	case token.LBrace:
		return "'{'"
	case token.RBrace:
		return "'}'"
	default:
		return k.String()
	}
}

// Build matches delimiters and returns the root stream. tokens must end with
// an EOF token, as produced by lexer.Tokenize. The first balance error aborts
// the build.
func Build(tokens []token.Token) (*Stream, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		tokens = append(tokens, token.Token{Kind: token.EOF})
	}
	eof := tokens[len(tokens)-1]
	body := tokens[:len(tokens)-1]

	match := make([]int, len(body))
	stack := make([]int, 0, 8)
	for i, tok := range body {
		match[i] = -1
		if _, ok := tok.Kind.Closer(); ok {
			stack = append(stack, i)
			continue
		}
		if !tok.Kind.IsCloser() {
			continue
		}
		if len(stack) == 0 {
			return nil, &DelimError{Kind: DelimUnmatched, Span: tok.Span}
		}
		open := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		want, _ := body[open].Kind.Closer()
		if want != tok.Kind {
			return nil, &DelimError{
				Kind:     DelimMismatched,
				Span:     tok.Span,
				Open:     body[open].Kind,
				OpenSpan: body[open].Span,
			}
		}
		match[open] = i
		match[i] = open
	}
	if len(stack) > 0 {
		open := stack[len(stack)-1]
		return nil, &DelimError{
			Kind:     DelimUnclosed,
			Span:     body[open].Span,
			Open:     body[open].Kind,
			OpenSpan: body[open].Span,
		}
	}

	return &Stream{
		toks:  body,
		match: match,
		pos:   0,
		end:   len(body),
		eof:   eof,
	}, nil
}
