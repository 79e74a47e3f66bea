package routing

import "strings"

// Pattern is a parsed path pattern. Segments written as {name} capture the
// corresponding path segment; every other segment must match literally.
type Pattern struct {
	raw      string
	segments []segment
}

type segment struct {
	literal string
	param   string // set for {name} segments
}

// ParsePattern parses a path pattern such as "/users/{id}/posts". An
// empty {} segment is treated as a literal.
func ParsePattern(pattern string) Pattern {
	p := Pattern{raw: pattern}
	for _, s := range splitPath(pattern) {
		if len(s) > 2 && strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
			p.segments = append(p.segments, segment{param: s[1 : len(s)-1]})
			continue
		}
		p.segments = append(p.segments, segment{literal: s})
	}
	return p
}

// String returns the pattern as written.
func (p Pattern) String() string {
	return p.raw
}

// Match reports whether path fits the pattern and returns the captured
// segments by name.
func (p Pattern) Match(path string) (map[string]string, bool) {
	parts := splitPath(path)
	if len(parts) != len(p.segments) {
		return nil, false
	}
	params := map[string]string{}
	for i, seg := range p.segments {
		if seg.param != "" {
			if parts[i] == "" {
				return nil, false
			}
			params[seg.param] = parts[i]
			continue
		}
		if seg.literal != parts[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
