package sanitizer

import "strings"

func NormalizeStringSlice(items []string, normalizer func(string) string) []string {
	if len(items) == 0 {
		return []string{}
	}

	seen := make(map[string]bool)
	result := make([]string, 0, len(items))

	for _, item := range items {
		normalized := normalizer(item)

		if normalized == "" {
			continue
		}

		if seen[normalized] {
			continue
		}

		seen[normalized] = true
		result = append(result, normalized)
	}

	return result
}

// NormalizeTimeSlots trims and de-duplicates slot labels. Label validity is
// checked by the slot catalog, not here.
func NormalizeTimeSlots(slots []string) []string {
	return NormalizeStringSlice(slots, strings.TrimSpace)
}
