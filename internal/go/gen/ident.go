package gen

import "strings"

// Ident identifies a selector path and the short name used to pick an
// element within it, e.g. a dyntype import module and field name, or
// a mangled wasm function name and its owning class prefix.
type Ident struct {
	Path string
	Name string
}

// ParseSelector parses string s into a path and short name.
// It does not validate the input or resulting values. Examples:
// "io" -> "io", "io"
// "encoding/json" -> "encoding/json", "json"
// "encoding/json#Decoder" -> "encoding/json", "Decoder"
// "Point|getX" -> "Point|getX", "getX"
func ParseSelector(s string) (path, name string) {
	path, name, _ = strings.Cut(s, "#")
	if name == "" {
		if i := strings.LastIndex(path, "/"); i >= 0 && i < len(path)-1 {
			name = path[i+1:] // encoding/json -> json
		} else if i := strings.LastIndex(path, "|"); i >= 0 && i < len(path)-1 {
			name = path[i+1:] // Point|getX -> getX
		} else {
			name = path // encoding -> encoding
		}
	}
	return path, name
}

// ParseIdent parses s into an Ident using ParseSelector.
func ParseIdent(s string) Ident {
	path, name := ParseSelector(s)
	return Ident{Path: path, Name: name}
}
