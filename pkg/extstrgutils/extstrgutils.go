package extstrgutils

import (
	"slices"
	"strings"
	"unicode"
)

// SplitMultiValueParam splits a string into multiple values, separated by white space, comma or semicolon
func SplitMultiValueParam(value string) []string {
	return strings.FieldsFunc(value, isSeparator)
}

// SplitUniqueParam splits like SplitMultiValueParam and drops repeated values, keeping the first occurrence
func SplitUniqueParam(value string) []string {
	vs := SplitMultiValueParam(value)
	res := make([]string, 0, len(vs))
	for _, v := range vs {
		if !slices.Contains(res, v) {
			res = append(res, v)
		}
	}
	return res
}

func isSeparator(r rune) bool {
	return r == ',' || r == ';' || unicode.IsSpace(r)
}
