package util

import "strings"

func FloatPtr(v float64) *float64 { return &v }

func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// JoinThaiName glues the prename directly onto the first name with no space,
// Thai convention: "ดร." + "พลวัต" = "ดร.พลวัต". The last name keeps its space.
func JoinThaiName(prename, firstName, lastName string) string {
	name := strings.TrimSpace(prename) + strings.TrimSpace(firstName)
	if strings.TrimSpace(lastName) != "" {
		if name != "" {
			name += " "
		}
		name += strings.TrimSpace(lastName)
	}
	return name
}

func JoinEnglishName(prename, firstName, lastName string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{prename, firstName, lastName} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, " ")
}

// NormalizeKey folds field-name spelling variants onto one comparable form:
// lowercase with separators stripped, so "authorized_signatures",
// "authorizedSignatures" and "AUTHORIZED-SIGNATURES" all compare equal.
func NormalizeKey(input string) string {
	out := strings.Builder{}
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			out.WriteRune(r)
		}
	}
	return out.String()
}

func SanitizeFilename(input string) string {
	repl := strings.NewReplacer("<", "_", ">", "_", ":", "_", "/", "_", "\\", "_", "|", "_", "?", "_", "*", "_", "\"", "_", " ", "_")
	out := repl.Replace(strings.TrimSpace(input))
	if runes := []rune(out); len(runes) > 120 {
		out = string(runes[:120])
	}
	return out
}
