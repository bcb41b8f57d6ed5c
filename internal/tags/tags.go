// Package tags normalizes free-text tag lists and reconciles tag sets.
package tags

import "strings"

// Parse splits a comma-separated tag field. Each tag is trimmed and
// lower-cased; empty tags are dropped and duplicates keep their first
// position.
func Parse(raw string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// Join renders a tag list back into the comma-separated form used by edit forms.
func Join(list []string) string {
	return strings.Join(list, ", ")
}

// Diff returns the tags in want that are missing from have, and the tags in
// have that are missing from want. Order follows the input slices.
func Diff(have, want []string) (add, remove []string) {
	haveSet := make(map[string]bool, len(have))
	for _, t := range have {
		haveSet[t] = true
	}
	wantSet := make(map[string]bool, len(want))
	for _, t := range want {
		wantSet[t] = true
		if !haveSet[t] {
			add = append(add, t)
		}
	}
	for _, t := range have {
		if !wantSet[t] {
			remove = append(remove, t)
		}
	}
	return add, remove
}
