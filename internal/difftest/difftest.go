// Package difftest provides a golden-comparison helper for package
// tests (no test in this repository calls it): a readable diff on
// mismatch instead of a bare string inequality, grounded on the teacher's golden_test.go idiom
// (compare generated text against testdata) but wired to
// sergi/go-diff/diffmatchpatch for the rendering the teacher's own
// tests never added.
package difftest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Equal fails t with a readable unified-style diff if got != want. name
// identifies the fixture in the failure message.
func Equal(t *testing.T, name, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	t.Errorf("%s: mismatch (- want, + got):\n%s", name, render(diffs, dmp))
}

func render(diffs []diffmatchpatch.Diff, dmp *diffmatchpatch.DiffMatchPatch) string {
	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			for _, line := range strings.Split(strings.TrimRight(d.Text, "\n"), "\n") {
				fmt.Fprintf(&b, "- %s\n", line)
			}
		case diffmatchpatch.DiffInsert:
			for _, line := range strings.Split(strings.TrimRight(d.Text, "\n"), "\n") {
				fmt.Fprintf(&b, "+ %s\n", line)
			}
		case diffmatchpatch.DiffEqual:
			// Context lines are omitted from the failure message; the
			// +/- lines already localize the mismatch.
		}
	}
	return b.String()
}
