package texcache

import (
	"reflect"

	"github.com/waozixyz/iconview/iconconfig"
)

// SlotKey is a fixed UI location showing one image at a time.
type SlotKey struct {
	Field  string
	Column int
}

// IdentityKey is a logical subject independent of layout. Row must hold a
// comparable value.
type IdentityKey struct {
	Row   any
	Field string
}

// Valid reports whether the key can be used as a map key.
func (k IdentityKey) Valid() bool {
	return isComparable(k.Row)
}

// ValueKey is a specific resolved state of an identity.
type ValueKey struct {
	Identity IdentityKey
	Value    any
}

// Request carries one preview lookup.
type Request struct {
	Slot     SlotKey
	Identity IdentityKey
	Value    any
	Preset   *iconconfig.Preset
	Row      iconconfig.Row
	Field    string
}

// source records what produced a resource's current crop.
type source struct {
	value  ValueKey
	preset string
}

func (s source) matches(key ValueKey, preset string) bool {
	return s.preset == preset &&
		s.value.Identity == key.Identity &&
		sameValue(s.value.Value, key.Value)
}

// sameValue compares two field values. Values that cannot be compared never
// match, so they are never served from a cached snapshot.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !isComparable(a) || !isComparable(b) {
		return false
	}
	return a == b
}

func isComparable(v any) bool {
	return v == nil || reflect.ValueOf(v).Comparable()
}
