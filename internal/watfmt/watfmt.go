// Package watfmt pretty-prints the text-format dump of a *wasm.Module
// that cmd/ts2wasm's "generate" subcommand writes. It does not encode a
// WebAssembly binary; it only renders the in-memory module shape in a
// human-readable textual form for inspection and golden-file tests.
package watfmt

import "strings"

const (
	commentPrefix = ";; "
	lineLength    = 80
)

// WrapComment wraps docs into one or more lines no longer than lineLength,
// each prefixed by commentPrefix, at the given indent depth.
func WrapComment(docs string, indent int) string {
	if docs == "" {
		return ""
	}
	prefix := strings.Repeat("\t", indent)
	var b strings.Builder
	col := 0
	writePrefix := func() {
		b.WriteString(prefix)
		b.WriteString(commentPrefix)
		col = len(prefix) + len(commentPrefix)
	}
	writePrefix()
	for _, word := range strings.Fields(docs) {
		if col+len(word)+1 > lineLength && col > len(prefix)+len(commentPrefix) {
			b.WriteRune('\n')
			writePrefix()
		} else if col > len(prefix)+len(commentPrefix) {
			b.WriteRune(' ')
			col++
		}
		b.WriteString(word)
		col += len(word)
	}
	b.WriteRune('\n')
	return b.String()
}

// Indent returns s with every line prefixed by depth tab characters.
func Indent(s string, depth int) string {
	if depth <= 0 || s == "" {
		return s
	}
	prefix := strings.Repeat("\t", depth)
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n") + "\n"
}
