package publicendpoint

import (
	"path"
	"strings"

	"github.com/pkg/errors"
)

const (
	anySegment   = "*"
	anySegments  = "**"
	globSpecials = "*?["
)

type matcher struct {
	segments []string
}

func compile(pattern string) (matcher, error) {
	if !strings.HasPrefix(pattern, "/") {
		return matcher{}, errors.Wrapf(ErrInvalidPattern, "%q must start with /", pattern)
	}

	segments := splitPath(pattern)
	for _, seg := range segments {
		if seg == anySegments || seg == anySegment || isVariable(seg) {
			continue
		}

		if strings.Contains(seg, anySegments) {
			return matcher{}, errors.Wrapf(ErrInvalidPattern, "%q: ** must be a whole segment", pattern)
		}

		if _, err := path.Match(seg, ""); err != nil {
			return matcher{}, errors.Wrapf(ErrInvalidPattern, "%q: %v", pattern, err)
		}
	}

	return matcher{segments: segments}, nil
}

func (m matcher) match(requestPath string) bool {
	return matchSegments(m.segments, splitPath(requestPath))
}

func matchSegments(pattern, segments []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == anySegments {
			rest := pattern[1:]
			if len(rest) == 0 {
				return true
			}

			for i := 0; i <= len(segments); i++ {
				if matchSegments(rest, segments[i:]) {
					return true
				}
			}

			return false
		}

		if len(segments) == 0 || !matchSegment(pattern[0], segments[0]) {
			return false
		}

		pattern, segments = pattern[1:], segments[1:]
	}

	return len(segments) == 0
}

func matchSegment(pattern, segment string) bool {
	switch {
	case pattern == anySegment, isVariable(pattern):
		return true
	case strings.ContainsAny(pattern, globSpecials):
		ok, err := path.Match(pattern, segment)
		return err == nil && ok
	default:
		return pattern == segment
	}
}

func isVariable(seg string) bool {
	if len(seg) < 2 {
		return false
	}

	return seg[0] == ':' || (seg[0] == '{' && seg[len(seg)-1] == '}')
}

// splitPath drops the query string and empty segments.
func splitPath(p string) []string {
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}

	return strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
}
