package validators

import (
	"path"
	"strings"
)

// SanitizeFilename keeps the base name of a client-supplied filename, drops
// control characters and truncates to maxLen runes.
func SanitizeFilename(input string, maxLen int) string {
	name := strings.ReplaceAll(strings.TrimSpace(input), `\`, "/")
	name = path.Base(name)
	if name == "." || name == "/" {
		return ""
	}
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	if runes := []rune(name); maxLen > 0 && len(runes) > maxLen {
		name = string(runes[:maxLen])
	}
	return strings.TrimSpace(name)
}
