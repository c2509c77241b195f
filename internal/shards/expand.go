package shards

import (
	"fmt"
	"strconv"
	"strings"
)

var braceAliases = []struct {
	open  string
	close string
}{
	{"(", ")"},
	{"[", "]"},
	{"<", ">"},
	{"_OP_", "_CL_"},
}

// Expand brace-expands each pattern and flattens the results in order.
// Plain paths pass through unchanged.
func Expand(patterns []string) ([]string, error) {
	var out []string
	for _, p := range patterns {
		expanded, err := ExpandPattern(p)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}

// ExpandPattern expands one brace pattern into the concrete shard paths it
// denotes. Multiple brace groups multiply out left to right.
func ExpandPattern(pattern string) ([]string, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, fmt.Errorf("shards: empty pattern")
	}
	for _, alias := range braceAliases {
		pattern = strings.ReplaceAll(pattern, alias.open, "{")
		pattern = strings.ReplaceAll(pattern, alias.close, "}")
	}
	return expandBraces(pattern)
}

func expandBraces(pattern string) ([]string, error) {
	open := strings.IndexByte(pattern, '{')
	if open < 0 {
		if strings.IndexByte(pattern, '}') >= 0 {
			return nil, fmt.Errorf("shards: unbalanced braces in %q", pattern)
		}
		return []string{pattern}, nil
	}
	closing := strings.IndexByte(pattern[open:], '}')
	if closing < 0 {
		return nil, fmt.Errorf("shards: unbalanced braces in %q", pattern)
	}
	closing += open

	prefix := pattern[:open]
	body := pattern[open+1 : closing]
	suffix := pattern[closing+1:]

	alternatives, err := expandGroup(body)
	if err != nil {
		return nil, fmt.Errorf("shards: pattern %q: %w", pattern, err)
	}

	tails, err := expandBraces(suffix)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(alternatives)*len(tails))
	for _, alt := range alternatives {
		for _, tail := range tails {
			out = append(out, prefix+alt+tail)
		}
	}
	return out, nil
}

// expandGroup expands a single brace body: either a numeric range "x..y" or
// a comma-separated alternative list. A comma-free body is a single literal
// alternative, as in shell brace expansion.
func expandGroup(body string) ([]string, error) {
	if lo, hi, ok := strings.Cut(body, ".."); ok {
		return expandRange(lo, hi)
	}
	return strings.Split(body, ","), nil
}

func expandRange(loText, hiText string) ([]string, error) {
	lo, err := strconv.Atoi(loText)
	if err != nil {
		return nil, fmt.Errorf("range start %q: %w", loText, err)
	}
	hi, err := strconv.Atoi(hiText)
	if err != nil {
		return nil, fmt.Errorf("range end %q: %w", hiText, err)
	}
	if hi < lo {
		return nil, fmt.Errorf("range %s..%s is descending", loText, hiText)
	}

	// A leading zero on either bound requests fixed-width zero padding.
	width := 0
	if (len(loText) > 1 && loText[0] == '0') || (len(hiText) > 1 && hiText[0] == '0') {
		width = len(loText)
		if len(hiText) > width {
			width = len(hiText)
		}
	}

	out := make([]string, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		if width > 0 {
			out = append(out, fmt.Sprintf("%0*d", width, v))
		} else {
			out = append(out, strconv.Itoa(v))
		}
	}
	return out, nil
}
