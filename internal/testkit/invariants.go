package testkit

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"fnqual/internal/expand"
	"fnqual/internal/fix"
	"fnqual/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on an expansion
// of sf:
// 1) every site span and annotation removal span lies within the content
// 2) sites do not overlap unless one nests inside the other's declaration
// 3) failed sites contribute no edits and successful ones at least one
// 4) Output equals the content with the collected edits applied
func CheckSpanInvariants(res *expand.Result, sf *source.File) error {
	if res == nil || sf == nil {
		return fmt.Errorf("nil result or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	inBounds := func(sp source.Span) error {
		if sp.File != sf.ID {
			return fmt.Errorf("span %v points to file %d, want %d", sp, sp.File, sf.ID)
		}
		if sp.Start > sp.End || sp.End > lenContent {
			return fmt.Errorf("span %v outside content of %d bytes", sp, lenContent)
		}
		return nil
	}

	// 1) границы
	edits := 0
	for i := range res.Sites {
		sr := &res.Sites[i]
		if sr.Site == nil || len(sr.Site.Annotations) == 0 {
			return fmt.Errorf("site %d has no annotations", i)
		}
		if err := inBounds(sr.Site.Span()); err != nil {
			return fmt.Errorf("site %d: %w", i, err)
		}
		for _, a := range sr.Site.Annotations {
			if err := inBounds(a.Removal); err != nil {
				return fmt.Errorf("site %d removal: %w", i, err)
			}
			if !a.Removal.Contains(a.Span) {
				return fmt.Errorf("site %d: removal %v does not cover annotation %v", i, a.Removal, a.Span)
			}
		}
		// 3) только успешные сайты дают правки
		switch {
		case !sr.OK() && len(sr.Edits) > 0:
			return fmt.Errorf("failed site %d produced %d edits", i, len(sr.Edits))
		case sr.OK() && len(sr.Edits) == 0:
			return fmt.Errorf("expanded site %d produced no edits", i)
		}
		edits += len(sr.Edits)
	}
	if edits != len(res.Edits) {
		return fmt.Errorf("result holds %d edits, sites hold %d", len(res.Edits), edits)
	}

	// 2) перекрытия
	for i := range res.Sites {
		for j := i + 1; j < len(res.Sites); j++ {
			a, b := res.Sites[i].Site, res.Sites[j].Site
			if overlaps(a.Span(), b.Span()) && !nested(a, b) && !nested(b, a) {
				return fmt.Errorf("sites %d %v and %d %v overlap", i, a.Span(), j, b.Span())
			}
		}
	}

	// 4) Output
	if len(res.Edits) == 0 {
		if !bytes.Equal(res.Output, sf.Content) {
			return fmt.Errorf("no edits but output differs from content")
		}
		return nil
	}
	want, err := fix.ApplyEdits(sf.Content, res.Edits)
	if err != nil {
		return fmt.Errorf("edits do not apply: %w", err)
	}
	if !bytes.Equal(want, res.Output) {
		return fmt.Errorf("output differs from content with edits applied")
	}
	return nil
}

func overlaps(a, b source.Span) bool {
	return a.Start < b.End && b.Start < a.End
}

// nested reports whether inner sits inside outer's declaration body.
func nested(outer, inner *expand.Site) bool {
	return outer.Decl != nil && outer.Decl.Span.Contains(inner.Span())
}
