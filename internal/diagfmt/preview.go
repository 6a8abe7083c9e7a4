package diagfmt

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"fnqual/internal/diag"
	"fnqual/internal/fix"
	"fnqual/internal/source"
)

var errNoPreview = errors.New("fix has no edits to preview")

// fixPreview holds the whole lines a fix touches, before and after all of
// its edits are applied together. A bracket-wrapping fix carries two
// insertions on one line; previewing them one at a time would show a list
// with only one bracket.
type fixPreview struct {
	before []string
	after  []string
}

func buildFixPreview(fs *source.FileSet, f diag.Fix) (fixPreview, error) {
	if len(f.Edits) == 0 {
		return fixPreview{}, errNoPreview
	}
	id := f.Edits[0].Span.File
	if fs == nil || !fs.Has(id) {
		return fixPreview{}, fmt.Errorf("file %d not found in FileSet", id)
	}
	lo, hi := f.Edits[0].Span.Start, f.Edits[0].Span.End
	for _, e := range f.Edits[1:] {
		if e.Span.File != id {
			return fixPreview{}, fmt.Errorf("fix %q edits more than one file", f.Title)
		}
		lo = min(lo, e.Span.Start)
		hi = max(hi, e.Span.End)
	}

	content := fs.Get(id).Content
	start, end, err := lineBlock(content, lo, hi)
	if err != nil {
		return fixPreview{}, err
	}
	rebased := make([]diag.TextEdit, len(f.Edits))
	for i, e := range f.Edits {
		e.Span.Start -= start
		e.Span.End -= start
		rebased[i] = e
	}
	block := content[start:end]
	after, err := fix.ApplyEdits(block, rebased)
	if err != nil {
		return fixPreview{}, err
	}
	return fixPreview{
		before: splitPreviewLines(block),
		after:  splitPreviewLines(after),
	}, nil
}

// lineBlock widens [lo, hi) to whole lines; end includes the last newline.
func lineBlock(content []byte, lo, hi uint32) (start, end uint32, err error) {
	if lo > hi || int(hi) > len(content) {
		return 0, 0, fmt.Errorf("edit span %d..%d out of range", lo, hi)
	}
	s := bytes.LastIndexByte(content[:lo], '\n') + 1
	e := len(content)
	if i := bytes.IndexByte(content[hi:], '\n'); i >= 0 {
		e = int(hi) + i + 1
	}
	if start, err = safecast.Conv[uint32](s); err != nil {
		return 0, 0, err
	}
	if end, err = safecast.Conv[uint32](e); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func splitPreviewLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	// завершающий \n не даёт лишней пустой строки
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}
