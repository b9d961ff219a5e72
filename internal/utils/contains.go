package utils

import "strings"

// ContainsString returns true if a string is present in string slice, ignoring case
func ContainsString(s []string, v string) bool {
	for _, vv := range s {
		if strings.EqualFold(vv, v) {
			return true
		}
	}
	return false
}
