package flight

import "strings"

// Variants builds the ordered list of normalized match patterns for a
// user-supplied flight identifier: the trimmed input, uppercase, lowercase,
// the input with all whitespace removed, the numeric suffix zero-padded to
// four digits, and the numeric suffix with leading zeros stripped. Duplicates
// are removed preserving first occurrence.
func Variants(input string) []string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}

	upper := strings.ToUpper(trimmed)

	candidates := []string{
		trimmed,
		upper,
		strings.ToLower(trimmed),
		stripWhitespace(trimmed),
	}

	if prefix, digits, ok := splitCode(upper); ok {
		// Zero-pad the numeric suffix to 4 digits: JAL123 -> JAL0123.
		if len(digits) < 4 {
			candidates = append(candidates, prefix+strings.Repeat("0", 4-len(digits))+digits)
		}
		// Strip leading zeros: JAL0123 -> JAL123.
		if stripped := strings.TrimLeft(digits, "0"); stripped != "" && stripped != digits {
			candidates = append(candidates, prefix+stripped)
		}
	}

	seen := make(map[string]bool, len(candidates))
	variants := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		variants = append(variants, c)
	}
	return variants
}

// Match scans the record set once per pattern, in pattern order, and returns
// the first record whose trimmed callsign is equal to, a superstring of, or a
// substring of the pattern. Ties are broken by feed order; there is no
// scoring. The containment test is deliberately permissive and can match
// unrelated callsigns sharing short substrings; callers must tolerate both
// false positives and misses.
func Match(patterns []string, states []StateVector) *StateVector {
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		for i := range states {
			callsign := strings.TrimSpace(states[i].Callsign)
			if callsign == "" {
				continue
			}
			if callsign == pattern ||
				strings.Contains(callsign, pattern) ||
				strings.Contains(pattern, callsign) {
				match := states[i]
				return &match
			}
		}
	}
	return nil
}

// BroadenedPrefixes returns up to three operator-code-only prefixes of the
// identifier, in decreasing length down to two characters. Used to retry the
// position feed when the full identifier missed.
func BroadenedPrefixes(identifier string) []string {
	prefix, _, ok := splitCode(strings.ToUpper(strings.TrimSpace(identifier)))
	if !ok || prefix == "" {
		prefix = strings.ToUpper(stripWhitespace(identifier))
	}

	var out []string
	for l := len(prefix); l >= 2 && len(out) < 3; l-- {
		out = append(out, prefix[:l])
	}
	return out
}

// splitCode splits an identifier into its leading letter prefix and trailing
// digit suffix. ok is false when either part is empty.
func splitCode(s string) (prefix, digits string, ok bool) {
	i := 0
	for i < len(s) && (s[i] >= 'A' && s[i] <= 'Z' || s[i] >= 'a' && s[i] <= 'z') {
		i++
	}
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if i == 0 || j == i || j != len(s) {
		return "", "", false
	}
	return s[:i], s[i:j], true
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
