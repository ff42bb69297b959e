package analysis

import "strings"

// extractJSON returns the substring from the first '{' to the last '}'.
// Models asked to "respond with JSON only" routinely wrap the object in
// prose; this recovers the object without caring what surrounds it.
func extractJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
