package utils

import (
	"strconv"
	"strings"
)

// Affirmative/negative token vocabulary for yes/no questions.
var (
	affirmativeTokens = map[string]struct{}{"yes": {}, "y": {}, "true": {}, "t": {}, "1": {}}
	negativeTokens    = map[string]struct{}{"no": {}, "n": {}, "false": {}, "f": {}, "0": {}}
)

// ParseBool parses a yes/no answer against the fixed token vocabulary,
// case-insensitively. ok is false for anything outside the vocabulary.
func ParseBool(text string) (value, ok bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if _, yes := affirmativeTokens[t]; yes {
		return true, true
	}
	if _, no := negativeTokens[t]; no {
		return false, true
	}
	return false, false
}

// MatchChoice resolves a user answer against a numbered option list.
// A 1-based index always wins; otherwise an exact case-insensitive text
// match is accepted, then a unique case-insensitive substring match.
// The returned value is always the option's exact text.
func MatchChoice(options []string, input string) (string, bool) {
	in := strings.TrimSpace(input)
	if in == "" {
		return "", false
	}

	if idx, err := strconv.Atoi(in); err == nil {
		if idx >= 1 && idx <= len(options) {
			return options[idx-1], true
		}
		return "", false
	}

	lower := strings.ToLower(in)
	for _, opt := range options {
		if strings.ToLower(opt) == lower {
			return opt, true
		}
	}

	match := ""
	for _, opt := range options {
		if strings.Contains(strings.ToLower(opt), lower) {
			if match != "" {
				return "", false // ambiguous
			}
			match = opt
		}
	}
	if match != "" {
		return match, true
	}
	return "", false
}

// ParseIndexList parses a comma- or space-separated list of 1-based
// indices into option texts, preserving input order and dropping
// duplicates. ok is false when any token is not an in-range index.
func ParseIndexList(options []string, input string) ([]string, bool) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	if len(fields) == 0 {
		return nil, false
	}

	seen := map[int]struct{}{}
	var out []string
	for _, f := range fields {
		idx, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || idx < 1 || idx > len(options) {
			return nil, false
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		out = append(out, options[idx-1])
	}
	return out, true
}
