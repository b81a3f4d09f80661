// Package skills provides parsing and normalization of raw skill strings into skill sets.
package skills

import (
	"encoding/json"
	"strings"
)

// SkillSet is an ordered list of normalized skill tokens. Original casing is
// preserved for display; comparisons are case-insensitive.
type SkillSet []string

// Parse normalizes a raw skills string into a SkillSet.
// Accepted forms: empty, a comma-separated list, or a bracket-delimited
// pseudo-array of quoted items (how some upstream sources serialize skills).
// Parse never fails; malformed input degrades to plain comma-splitting and,
// at worst, an empty set.
func Parse(raw string) SkillSet {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		// Strict decode first: well-formed JSON arrays are common.
		var arr []string
		if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
			return cleanTokens(arr)
		}

		// Quasi-JSON (single quotes, stray whitespace): strip the brackets
		// and split manually, removing per-item surrounding quotes.
		inner := trimmed[1 : len(trimmed)-1]
		return cleanQuotedTokens(strings.Split(inner, ","))
	}

	return cleanTokens(strings.Split(trimmed, ","))
}

// Contains reports whether the set matches the given skill. A match is
// case-insensitive equality or whole-word containment in either direction,
// so "Spring" matches "Spring Boot" and vice versa. Containment is on word
// boundaries: the one-letter skill "R" never matches inside "React".
func (s SkillSet) Contains(skill string) bool {
	target := strings.ToLower(strings.TrimSpace(skill))
	if target == "" {
		return false
	}
	targetWords := strings.Fields(target)
	for _, own := range s {
		candidate := strings.ToLower(own)
		if candidate == target {
			return true
		}
		candidateWords := strings.Fields(candidate)
		if hasAllWords(candidateWords, targetWords) || hasAllWords(targetWords, candidateWords) {
			return true
		}
	}
	return false
}

// hasAllWords reports whether every word of sub occurs verbatim in words.
func hasAllWords(words, sub []string) bool {
	if len(sub) == 0 {
		return false
	}
	for _, w := range sub {
		found := false
		for _, o := range words {
			if o == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// String renders the set as a comma-separated list for prompts and display.
func (s SkillSet) String() string {
	return strings.Join(s, ", ")
}

// cleanTokens trims each token and drops empties, preserving order.
func cleanTokens(tokens []string) SkillSet {
	var out SkillSet
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token != "" {
			out = append(out, token)
		}
	}
	return out
}

// cleanQuotedTokens trims each token, removes surrounding quote characters,
// and drops empties.
func cleanQuotedTokens(tokens []string) SkillSet {
	var out SkillSet
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		token = strings.Trim(token, `"'`)
		token = strings.TrimSpace(token)
		if token != "" {
			out = append(out, token)
		}
	}
	return out
}
