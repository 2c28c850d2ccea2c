// Package mangle implements the function-naming scheme that is part of
// this compiler's ABI (§6 "Names"): "<class>|<member>",
// "<class>|constructor", "<class>|static_fields", and the "_<type-id>"
// suffix for specialized generics. Grounded on the teacher's
// wit/bindgen/names.go word-splitting and uniquing helpers, retargeted
// from idiomatic-Go-identifier generation to this "|"-delimited wasm
// linker-name scheme.
package mangle

import "strconv"

// Sep is the ABI name-component separator (§6 "Names").
const Sep = "|"

// Member returns the mangled name of class.member.
func Member(class, member string) string {
	return class + Sep + member
}

// Constructor returns the mangled name of class's constructor.
func Constructor(class string) string {
	return class + Sep + "constructor"
}

// StaticFields returns the name of class's per-class static-fields global
// (§3 "Class static fields").
func StaticFields(class string) string {
	return class + Sep + "static_fields"
}

// BuiltinHolders are the well-known built-in call holders matched by
// substring against a description's name (§4.B "Offset/Static": "for
// well-known built-in holders (Array, console, Math), the call name is
// built-in|holder|member"). §9 "Open questions" leaves behavior
// unspecified if a user class name also contains one of these
// substrings; per DESIGN.md this is implemented as a first-match-wins
// substring test with no collision guard, matching the spec's own
// wording rather than attempting to prevent the collision.
var BuiltinHolders = []string{"ArrayConstructor", "Console", "Math"}

// MatchBuiltinHolder returns the first BuiltinHolders entry that is a
// substring of descName, and true, or ("", false) if none match.
func MatchBuiltinHolder(descName string) (string, bool) {
	for _, h := range BuiltinHolders {
		if containsSubstring(descName, h) {
			return h, true
		}
	}
	return "", false
}

func containsSubstring(s, sub string) bool {
	if len(sub) == 0 {
		return true
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

// Builtin returns the mangled name of a built-in holder member call
// (§4.B "Offset/Static"): "built-in|holder|member".
func Builtin(holder, member string) string {
	return "built-in" + Sep + holder + Sep + member
}

// Specialize appends one "_<type-id>" suffix per substitution type ID to
// name (§4.G "rewrite its name by appending _ + each specialization
// type's numeric id").
func Specialize(name string, typeIDs []int) string {
	for _, id := range typeIDs {
		name += "_" + strconv.Itoa(id)
	}
	return name
}
