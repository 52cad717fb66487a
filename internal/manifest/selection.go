package manifest

import (
	"sort"
	"strconv"
	"strings"
)

// Selection is either every file of a manifest or an explicit key list.
type Selection struct {
	all  bool
	keys []int
}

// All selects every indexed file.
func All() Selection {
	return Selection{all: true}
}

// Keys selects the given keys. Duplicates are collapsed.
func Keys(keys ...int) Selection {
	seen := make(map[int]bool, len(keys))
	out := make([]int, 0, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Ints(out)
	return Selection{keys: out}
}

// ParseSelection accepts "all" (any case) or a comma-separated key list.
// Tokens that are not integers are skipped silently, so "2, x, 5" selects
// 2 and 5 and an input with no valid tokens selects nothing.
func ParseSelection(s string) Selection {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return All()
	}

	var keys []int
	for _, tok := range strings.Split(s, ",") {
		k, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			continue
		}
		keys = append(keys, k)
	}
	return Keys(keys...)
}

// All reports whether every file is selected.
func (s Selection) All() bool {
	return s.all
}

// Keys returns the explicit keys in ascending order (nil for All).
func (s Selection) Keys() []int {
	if s.all {
		return nil
	}
	out := make([]int, len(s.keys))
	copy(out, s.keys)
	return out
}

// IsEmpty reports whether the selection names no files at all.
func (s Selection) IsEmpty() bool {
	return !s.all && len(s.keys) == 0
}

// String renders the selection in its input form.
func (s Selection) String() string {
	if s.all {
		return "all"
	}
	return JoinKeys(s.keys)
}

// JoinKeys renders keys as a comma-separated list.
func JoinKeys(keys []int) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = strconv.Itoa(k)
	}
	return strings.Join(parts, ",")
}
