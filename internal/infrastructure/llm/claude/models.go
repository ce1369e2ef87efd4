package claude

import "strings"

// modelAliases maps public model names to dated vendor ids.
var modelAliases = map[string]string{
	"claude-sonnet-4-5": "claude-sonnet-4-5-20250929",
	"claude-haiku-4-5":  "claude-haiku-4-5-20251001",
	"claude-opus-4-1":   "claude-opus-4-1-20250805",
	"claude-sonnet-4":   "claude-sonnet-4-20250514",
	"claude-3-7-sonnet": "claude-3-7-sonnet-20250219",
	"claude-3-5-haiku":  "claude-3-5-haiku-20241022",
}

func ResolveModel(name string) string {
	trimmed := strings.TrimSpace(name)
	if alias, ok := modelAliases[strings.ToLower(trimmed)]; ok {
		return alias
	}
	return trimmed
}
