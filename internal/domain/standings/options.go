package standings

import (
	"strconv"
	"strings"
)

// RenderOptions is the per-render configuration bag.
type RenderOptions struct {
	Enabled   bool   `json:"enabled"`
	SourceURL string `json:"source_url,omitempty" validate:"omitempty,url,max=2048"`
	Debug     bool   `json:"debug"`
}

// ParseShortcodeOptions reads render options from loosely typed attributes.
// Both the snake_case names and the legacy shortcode names are accepted.
func ParseShortcodeOptions(attrs map[string]string) RenderOptions {
	return RenderOptions{
		Enabled:   attrFlag(attrs, "enabled", "getstandings"),
		SourceURL: attrString(attrs, "source_url", "standingsYQL_URL"),
		Debug:     attrFlag(attrs, "debug", "getStandingsDebug"),
	}
}

func attrString(attrs map[string]string, keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(attrs[key]); value != "" {
			return value
		}
	}
	return ""
}

func attrFlag(attrs map[string]string, keys ...string) bool {
	raw := attrString(attrs, keys...)
	if raw == "" {
		return false
	}
	if parsed, err := strconv.ParseBool(raw); err == nil {
		return parsed
	}
	return true
}
