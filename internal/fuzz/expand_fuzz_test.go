package fuzztests

import (
	"context"
	"testing"
	"time"

	"fnqual/internal/diag"
	"fnqual/internal/expand"
	"fnqual/internal/qualifier"
	"fnqual/internal/source"
	"fnqual/internal/testkit"
)

// expandTimeout is the maximum time allowed for a single input.
// If expansion takes longer, it indicates a potential infinite loop.
const expandTimeout = 5 * time.Second

func FuzzSpecParser(f *testing.F) {
	addSpecSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(input)
		fs := source.NewFileSet()
		bag := diag.NewBag(0)
		spec, ok := qualifier.ParseSpecText(fs, "fuzz", string(input), diag.BagReporter{Bag: bag})
		if ok != (bag.Len() == 0) {
			t.Fatalf("ok=%v with %d diagnostics", ok, bag.Len())
		}
		if !ok {
			return
		}
		// разобранная спецификация печатается и разбирается обратно в то же самое
		again, ok := qualifier.ParseSpecText(fs, "again", spec.String(), diag.BagReporter{Bag: bag})
		if !ok {
			t.Fatalf("%q printed as %q which does not parse: %v", input, spec.String(), bag.Items())
		}
		if !again.Equal(spec) {
			t.Fatalf("round trip %q -> %q changed the spec", input, spec.String())
		}
	})
}

func FuzzExpandFile(f *testing.F) {
	addFileSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(input)

		fs := source.NewFileSet()
		content, flags := source.Normalize(input)
		file := fs.Get(fs.Add("fuzz.fq", content, flags|source.FileVirtual))

		ctx, cancel := context.WithTimeout(context.Background(), expandTimeout)
		defer cancel()

		done := make(chan struct{})
		var (
			res *expand.Result
			err error
		)
		go func() {
			defer close(done)
			res, err = expand.File(ctx, file, expand.Options{Jobs: 2})
		}()
		select {
		case <-done:
		case <-time.After(expandTimeout + time.Second):
			t.Fatalf("expansion did not finish on %d bytes", len(content))
		}
		if err != nil {
			return
		}
		if err := testkit.CheckSpanInvariants(res, file); err != nil {
			t.Fatalf("invariants: %v", err)
		}
	})
}
