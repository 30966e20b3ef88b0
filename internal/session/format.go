package session

import "strings"

// Reindent rewrites code with bracket-depth indentation before a download.
//
// This is a best-effort cleanup, not a formatter: it trims each line and
// re-derives its depth from a running counter. Closing brackets dedent; a
// trailing opening bracket indents; python3 additionally indents after a
// trailing colon, and the brace languages after a line with an unmatched
// opening brace. Python gets 4-space units, everything else 2. Strings or
// comments containing brackets will fool it — acceptable for a download
// nicety, documented as approximate.
func Reindent(code, languageTag string) string {
	if strings.TrimSpace(code) == "" {
		return code
	}

	indentSize := 2
	if languageTag == "python3" {
		indentSize = 4
	}
	braceLang := languageTag == "java" || languageTag == "cpp17"

	var out []string
	level := 0
	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			out = append(out, "")
			continue
		}

		if strings.ContainsAny(trimmed[:1], "}])") && level > 0 {
			level--
		}

		out = append(out, strings.Repeat(" ", level*indentSize)+trimmed)

		switch {
		case strings.ContainsAny(trimmed[len(trimmed)-1:], "{[("):
			level++
		case languageTag == "python3" && strings.HasSuffix(trimmed, ":"):
			level++
		case braceLang && strings.Contains(trimmed, "{") && !strings.Contains(trimmed, "}"):
			level++
		}
	}

	return strings.Join(out, "\n")
}
