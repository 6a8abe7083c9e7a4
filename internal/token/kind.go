package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// KwFn represents the 'fn' keyword.
	KwFn // fn
	// KwPub represents the 'pub' keyword.
	KwPub // pub
	// KwConst represents the 'const' keyword.
	KwConst // const
	// KwAsync represents the 'async' keyword.
	KwAsync // async
	// KwUnsafe represents the 'unsafe' keyword.
	KwUnsafe // unsafe
	// KwExtern represents the 'extern' keyword.
	KwExtern // extern
	// KwIn represents the 'in' keyword.
	KwIn // in
	// KwCrate represents the 'crate' keyword.
	KwCrate // crate
	// KwSuper represents the 'super' keyword.
	KwSuper // super
	// KwSelf represents the 'self' keyword.
	KwSelf // self

	// IntLit represents the integer literal token.
	IntLit
	// FloatLit represents the float literal token.
	FloatLit
	// StringLit represents the string literal token.
	StringLit
	// CharLit represents the character literal token.
	CharLit

	Plus         // +
	Minus        // -
	Star         // *
	Slash        // /
	Percent      // %
	Assign       // =
	EqEq         // ==
	Bang         // !
	BangEq       // !=
	Lt           // <
	LtEq         // <=
	Gt           // >
	GtEq         // >=
	Amp          // &
	Pipe         // |
	Caret        // ^
	AndAnd       // &&
	OrOr         // ||
	Question     // ?
	Colon        // :
	ColonColon   // ::
	Semicolon    // ;
	Comma        // ,
	Dot          // .
	DotDot       // ..
	Arrow        // ->
	FatArrow     // =>
	LParen       // (
	RParen       // )
	LBrace       // {
	RBrace       // }
	LBracket     // [
	RBracket     // ]
	At           // @
	Hash         // #
	Underscore   // _
	Apostrophe   // ' (lifetime / label prefix)
	DotDotEq     // ..=
	DotDotDot    // ...
	kindSentinel // must stay last
)

var kindNames = [...]string{
	Invalid: "Invalid", EOF: "EOF", Ident: "Ident",
	KwFn: "KwFn", KwPub: "KwPub", KwConst: "KwConst", KwAsync: "KwAsync",
	KwUnsafe: "KwUnsafe", KwExtern: "KwExtern", KwIn: "KwIn", KwCrate: "KwCrate",
	KwSuper: "KwSuper", KwSelf: "KwSelf",
	IntLit: "IntLit", FloatLit: "FloatLit", StringLit: "StringLit", CharLit: "CharLit",
	Plus: "Plus", Minus: "Minus", Star: "Star", Slash: "Slash", Percent: "Percent",
	Assign: "Assign", EqEq: "EqEq", Bang: "Bang", BangEq: "BangEq",
	Lt: "Lt", LtEq: "LtEq", Gt: "Gt", GtEq: "GtEq",
	Amp: "Amp", Pipe: "Pipe", Caret: "Caret", AndAnd: "AndAnd", OrOr: "OrOr",
	Question: "Question", Colon: "Colon", ColonColon: "ColonColon",
	Semicolon: "Semicolon", Comma: "Comma", Dot: "Dot", DotDot: "DotDot",
	Arrow: "Arrow", FatArrow: "FatArrow",
	LParen: "LParen", RParen: "RParen", LBrace: "LBrace", RBrace: "RBrace",
	LBracket: "LBracket", RBracket: "RBracket",
	At: "At", Hash: "Hash", Underscore: "Underscore", Apostrophe: "Apostrophe",
	DotDotEq: "DotDotEq", DotDotDot: "DotDotDot",
}

func (k Kind) String() string {
	if k < kindSentinel {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Closer returns the matching closing delimiter for an opening one.
func (k Kind) Closer() (Kind, bool) {
	switch k {
	case LParen:
		return RParen, true
	case LBracket:
		return RBracket, true
	case LBrace:
		return RBrace, true
	default:
		return Invalid, false
	}
}

// IsCloser reports whether k closes a delimited group.
func (k Kind) IsCloser() bool {
	return k == RParen || k == RBracket || k == RBrace
}
