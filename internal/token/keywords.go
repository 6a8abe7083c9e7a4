package token

var keywords = map[string]Kind{
	"fn":     KwFn,
	"pub":    KwPub,
	"const":  KwConst,
	"async":  KwAsync,
	"unsafe": KwUnsafe,
	"extern": KwExtern,
	"in":     KwIn,
	"crate":  KwCrate,
	"super":  KwSuper,
	"self":   KwSelf,
}

// LookupKeyword returns the keyword kind for ident.
// Keywords are case-sensitive: only the lowercase spelling is recognized.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
