package difftest

import (
	"fmt"

	"golang.org/x/tools/txtar"
)

// Archive is one parsed txtar scenario fixture: a semantics
// tree input file plus the module dump it must produce. Grounded on
// wit/bindgen/generator_test.go's testdata-directory convention,
// retargeted from compiled Go packages to txtar archives since there is
// no generated Go source here to compile-check (SPEC_FULL.md §2).
type Archive struct {
	Input string // the "in.json" file's contents: the semantics-tree fixture
	Want  string // the "want.wat" file's contents: the expected module dump
}

// LoadArchive parses a txtar archive at path into an Archive. It
// requires exactly the two files "in.json" and "want.wat".
func LoadArchive(path string) (Archive, error) {
	a, err := txtar.ParseFile(path)
	if err != nil {
		return Archive{}, err
	}

	var arc Archive
	var haveIn, haveWant bool
	for _, f := range a.Files {
		switch f.Name {
		case "in.json":
			arc.Input = string(f.Data)
			haveIn = true
		case "want.wat":
			arc.Want = string(f.Data)
			haveWant = true
		}
	}
	if !haveIn || !haveWant {
		return Archive{}, fmt.Errorf("difftest: %s: must contain both in.json and want.wat", path)
	}
	return arc, nil
}
