package gen

import "testing"

func TestParseSelector(t *testing.T) {
	tests := []struct {
		s        string
		wantPath string
		wantName string
	}{
		{"io", "io", "io"},
		{"io/fs", "io/fs", "fs"},
		{"encoding/json", "encoding/json", "json"},
		{"encoding/json#Decoder", "encoding/json", "Decoder"},
		{"Point|getX", "Point|getX", "getX"},
		{"Point|constructor", "Point|constructor", "constructor"},
		{"Point|static_fields", "Point|static_fields", "static_fields"},
	}
	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			path, name := ParseSelector(tt.s)
			if path != tt.wantPath || name != tt.wantName {
				t.Errorf("ParseSelector(%q) = %q, %q; want %q, %q", tt.s, path, name, tt.wantPath, tt.wantName)
			}
		})
	}
}

func TestParseIdent(t *testing.T) {
	got := ParseIdent("Point|getX")
	want := Ident{Path: "Point|getX", Name: "getX"}
	if got != want {
		t.Errorf("ParseIdent: got %+v, want %+v", got, want)
	}
}
