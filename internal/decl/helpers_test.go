package decl_test

import (
	"testing"

	"fnqual/internal/lexer"
	"fnqual/internal/qualifier"
	"fnqual/internal/source"
	"fnqual/internal/tokstream"
)

func mustStream(t *testing.T, file *source.File) *tokstream.Stream {
	t.Helper()
	s, err := tokstream.Build(lexer.Tokenize(file, lexer.Options{}))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return s
}

func mustSpec(t *testing.T, text string) qualifier.Spec {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("spec.fq", []byte(text)))
	spec, err := qualifier.ParseTokens(lexer.Tokenize(file, lexer.Options{}))
	if err != nil {
		t.Fatalf("spec %q: %v", text, err)
	}
	return spec
}
