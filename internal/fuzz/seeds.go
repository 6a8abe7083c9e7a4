package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
)

var fileSeeds = []string{
	"",
	"fn main() {}\n",
	"@qualifiers(pub)\nfn f() {}\n",
	"@qualifiers([pub(crate), const, unsafe, extern \"C\"])\nasync fn f(x: u8) -> u8 { x }\n",
	"@qualifiers(pub)\n@qualifiers([async])\nconst fn f();\n",
	"@qualifiers(pub)\nfn outer() {\n    @qualifiers(async)\n    fn inner() {}\n}\n",
	"@qualifiers([pub, pub])\nfn a() {}\n",
	"@qualifiers(extern \"\\u{43}\")\nfn b() {}\n",
	"@qualifiers(pub(in crate::a::b))\n#[inline]\nfn g<T: Clone>(t: T) -> T where T: Copy { t }\n",
	"@qualifiers(\nfn broken(",
}

var specSeeds = []string{
	"pub",
	"pub(crate)",
	"pub(self)",
	"pub(super)",
	"pub(in crate::x)",
	"const",
	"async",
	"unsafe",
	"extern",
	`extern "C"`,
	`extern "sys\ntem"`,
	"[]",
	"[pub, const,]",
	"[pub async]",
	"[pub, pub]",
	"pub, async",
	"static",
	"[",
}

func addFileSeeds(f *testing.F) {
	for _, s := range fileSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addSpecSeeds(f *testing.F) {
	for _, s := range specSeeds {
		f.Add([]byte(s))
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.fq файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".fq" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
