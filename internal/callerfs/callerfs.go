// Package callerfs resolves file paths relative to the calling source file,
// for use in tests that need a stable path regardless of the working
// directory the test binary was launched from.
package callerfs

import (
	"path/filepath"
	"runtime"
)

// Path returns an absolute path for the source-file-relative path p,
// resolved against the file that called Path.
func Path(p string) string {
	if !filepath.IsLocal(p) {
		return p
	}
	_, file, _, ok := runtime.Caller(1)
	if !ok {
		return p
	}
	return filepath.Join(filepath.Dir(file), p)
}
