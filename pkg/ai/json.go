package ai

import "strings"

// ExtractJSONObject locates the first JSON object inside model output.
// Small models wrap JSON in prose or markdown fences; everything outside
// the outermost braces is discarded. Returns false when no object exists.
func ExtractJSONObject(content string) (string, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return content[start : end+1], true
}
