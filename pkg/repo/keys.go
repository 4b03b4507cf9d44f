package repo

import "sort"

// sortedFilterKeys keeps the emitted condition order deterministic for a
// given filter map.
func sortedFilterKeys(filters map[string]any) []string {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
