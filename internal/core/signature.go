package core

import (
	"slices"
	"strings"
)

// NormalizeClasses splits a class attribute on whitespace, drops empties and
// duplicates, sorts the rest and joins them with single spaces.
func NormalizeClasses(classAttr string) ClassSignature {
	fields := strings.Fields(classAttr)
	if len(fields) == 0 {
		return ""
	}
	slices.Sort(fields)
	fields = slices.Compact(fields)
	return ClassSignature(strings.Join(fields, " "))
}

// Classes returns the individual utility tokens of the signature.
func (s ClassSignature) Classes() []string {
	return strings.Fields(string(s))
}

func (s ClassSignature) String() string {
	return string(s)
}
