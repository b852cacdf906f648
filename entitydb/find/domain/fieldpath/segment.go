// Package fieldpath parses dotted field paths with inline annotations.
//
// A path such as "items:all.Weapon.tags:count" is split on "." into segments.
// Each segment carries its literal name plus the flags collected from the
// annotation markers it contained:
//
//	:any     at least one collection item must match (default)
//	:all     every collection item must match
//	:keys    read map keys (default)
//	:values  read map values
//	:count   compare the collection length
//	:length  compare the string length in code points
//
// Numeric segments address a single collection index; segments naming a
// registered type filter collection items by type.
package fieldpath

import "strings"

const (
	Separator = "."

	AnnotationAny    = ":any"
	AnnotationAll    = ":all"
	AnnotationKeys   = ":keys"
	AnnotationValues = ":values"
	AnnotationLength = ":length"
	AnnotationCount  = ":count"
)

type Flags uint8

const (
	Number Flags = 1 << iota
	Typename
	Any
	All
	Count
	Length
	Keys
	Values
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{Number, "NUMBER"},
	{Typename, "TYPENAME"},
	{Any, "ANY"},
	{All, "ALL"},
	{Count, "COUNT"},
	{Length, "LENGTH"},
	{Keys, "KEYS"},
	{Values, "VALUES"},
}

func (f Flags) Has(flag Flags) bool {
	return f&flag != 0
}

func (f Flags) String() string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "|")
}

type Segment struct {
	Name  string
	Flags Flags
}

func (s Segment) Has(flag Flags) bool {
	return s.Flags.Has(flag)
}

func (s Segment) String() string {
	if s.Flags == 0 {
		return s.Name
	}
	return s.Name + "[" + s.Flags.String() + "]"
}
