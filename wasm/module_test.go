package wasm

import (
	"testing"

	"github.com/coreos/go-semver/semver"
)

func TestRequireABI(t *testing.T) {
	m := NewModule()
	if err := m.RequireABI(semver.Version{Major: 2, Minor: 1}); err != nil {
		t.Fatal(err)
	}
	if m.TargetABI.String() != "2.1.0" {
		t.Errorf("TargetABI = %s, want 2.1.0", m.TargetABI)
	}
	// A lower requirement must not downgrade an already-raised floor.
	if err := m.RequireABI(semver.Version{Major: 2, Minor: 0}); err != nil {
		t.Fatal(err)
	}
	if m.TargetABI.String() != "2.1.0" {
		t.Errorf("TargetABI regressed to %s", m.TargetABI)
	}
	if err := m.RequireABI(semver.Version{Major: 1, Minor: 0}); err == nil {
		t.Errorf("expected error requiring an ABI below the GC/typed-function-references floor")
	}
}

func TestAddImportIdempotent(t *testing.T) {
	m := NewModule()
	imp := Import{Module: "dyntype", Name: "dyntype_new_number", Sig: &FuncHeapType{Name: "$dyntype_new_number"}}
	m.AddImport(imp)
	m.AddImport(imp)
	if len(m.Imports) != 1 {
		t.Errorf("AddImport should be idempotent, got %d imports", len(m.Imports))
	}
}
