package qualifier

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"fnqual/internal/source"
)

// Abi is a parsed `extern "name"` production.
type Abi struct {
	// Name is the decoded literal; empty when HasName is false.
	Name    string
	HasName bool
	// Raw is the literal as written, quotes and escapes included.
	Raw  string
	Span source.Span
}

func (a Abi) String() string {
	if !a.HasName {
		return "extern"
	}
	raw := a.Raw
	if raw == "" {
		raw = strconv.Quote(a.Name)
	}
	return "extern " + raw
}

// Equal compares the decoded name, ignoring spelling and spans: extern "C"
// and extern "\x43" are the same ABI.
func (a Abi) Equal(other Abi) bool {
	return a.HasName == other.HasName && a.Name == other.Name
}

// escapeError points at the offending escape, as a byte offset into the
// literal text.
type escapeError struct {
	off int
	msg string
}

func (e *escapeError) Error() string { return e.msg }

// decodeString decodes a double-quoted literal: \n \r \t \\ \0 \' \" \xHH
// (ASCII only), \u{H..} and a backslash-newline continuation that also
// swallows leading whitespace of the next line.
func decodeString(lit string) (string, error) {
	if strings.HasPrefix(lit, "r") {
		return decodeRawString(lit)
	}
	if len(lit) < 2 || lit[0] != '"' || lit[len(lit)-1] != '"' {
		return "", &escapeError{off: 0, msg: "expected a string literal"}
	}
	body := lit[1 : len(lit)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		start := i
		i++
		if i >= len(body) {
			return "", &escapeError{off: start + 1, msg: "unterminated escape"}
		}
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
			i++
		case 'r':
			b.WriteByte('\r')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case '\\', '\'', '"':
			b.WriteByte(body[i])
			i++
		case '0':
			b.WriteByte(0)
			i++
		case 'x':
			if i+3 > len(body) {
				return "", &escapeError{off: start + 1, msg: "numeric escape is too short"}
			}
			v, err := strconv.ParseUint(body[i+1:i+3], 16, 8)
			if err != nil {
				return "", &escapeError{off: start + 1, msg: fmt.Sprintf("invalid hex escape %q", body[start:i+3])}
			}
			if v > 0x7F {
				return "", &escapeError{off: start + 1, msg: "out of range hex escape, must be at most \\x7F"}
			}
			b.WriteByte(byte(v))
			i += 3
		case 'u':
			end := strings.IndexByte(body[i:], '}')
			if i+1 >= len(body) || body[i+1] != '{' || end < 0 {
				return "", &escapeError{off: start + 1, msg: "incorrect unicode escape, expected \\u{...}"}
			}
			digits := strings.ReplaceAll(body[i+2:i+end], "_", "")
			if digits == "" || len(digits) > 6 {
				return "", &escapeError{off: start + 1, msg: "unicode escape must have 1 to 6 hex digits"}
			}
			v, err := strconv.ParseUint(digits, 16, 32)
			if err != nil || !utf8.ValidRune(rune(v)) {
				return "", &escapeError{off: start + 1, msg: fmt.Sprintf("invalid unicode escape %q", body[start:i+end+1])}
			}
			b.WriteRune(rune(v))
			i += end + 1
		case '\n':
			i++
			for i < len(body) && (body[i] == ' ' || body[i] == '\t' || body[i] == '\n' || body[i] == '\r') {
				i++
			}
		default:
			r, _ := utf8.DecodeRuneInString(body[i:])
			return "", &escapeError{off: start + 1, msg: fmt.Sprintf("unknown character escape \\%c", r)}
		}
	}
	return b.String(), nil
}

// decodeRawString strips r, the hashes and the quotes of r#"..."#; the body
// is taken as is.
func decodeRawString(lit string) (string, error) {
	body := lit[1:]
	hashes := len(body) - len(strings.TrimLeft(body, "#"))
	if len(body) < 2*hashes+2 {
		return "", &escapeError{off: 0, msg: "expected a raw string literal"}
	}
	body = body[hashes : len(body)-hashes]
	if body[0] != '"' || body[len(body)-1] != '"' {
		return "", &escapeError{off: 0, msg: "expected a raw string literal"}
	}
	return body[1 : len(body)-1], nil
}
