package router

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// pattern is a compiled path pattern plus its ordered parameter-name list.
// Both are fixed at registration time, together with the case-sensitivity
// setting in effect at that moment.
//
// Syntax per segment: literals, ":name" named segments, ":name?" optional
// named segments, "*" wildcard tails, and parenthesized literal regular
// expression segments (one capture group each). Loose mode anchors only the
// start of the path, for sub-router prefix matching.
type pattern struct {
	raw    string
	re     *regexp.Regexp
	params []string
}

func compilePattern(path string, caseSensitive, loose bool) (*pattern, error) {
	p := &pattern{raw: path}

	var b strings.Builder
	if !caseSensitive {
		b.WriteString("(?i)")
	}
	b.WriteString("^")

	unnamed := 0
	trimmed := strings.Trim(path, "/")
	if trimmed != "" {
		for _, seg := range strings.Split(trimmed, "/") {
			switch {
			case seg == "*":
				p.params = append(p.params, strconv.Itoa(unnamed))
				unnamed++
				b.WriteString("(?:/(.*))?")
			case strings.HasPrefix(seg, ":"):
				name := seg[1:]
				if strings.HasSuffix(name, "?") {
					p.params = append(p.params, name[:len(name)-1])
					b.WriteString("(?:/([^/]+))?")
				} else {
					p.params = append(p.params, name)
					b.WriteString("/([^/]+)")
				}
			case strings.HasPrefix(seg, "(") && strings.HasSuffix(seg, ")"):
				p.params = append(p.params, strconv.Itoa(unnamed))
				unnamed++
				b.WriteString("/" + seg)
			default:
				b.WriteString("/" + regexp.QuoteMeta(seg))
			}
		}
	}

	if loose {
		b.WriteString("(?:/|$)")
	} else {
		b.WriteString("/?$")
	}

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("compile path pattern %q: %w", path, err)
	}
	p.re = re
	return p, nil
}

// match reports whether the pattern structurally matches a path and, if so,
// the percent-decoded captures keyed by parameter name. A decode failure is
// reported alongside matched == true so the caller can route it through the
// error pipeline instead of treating it as a non-match.
func (p *pattern) match(path string) (params map[string]string, matched bool, err error) {
	m := p.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false, nil
	}
	params = make(map[string]string, len(p.params))
	for i, name := range p.params {
		if i+1 >= len(m) {
			break
		}
		decoded, derr := url.PathUnescape(m[i+1])
		if derr != nil {
			return nil, true, fmt.Errorf("decode path parameter %q: %w", name, derr)
		}
		params[name] = decoded
	}
	return params, true, nil
}

// prefix returns the leading portion of the path matched in loose mode, with
// one trailing slash trimmed, and whether the pattern matched at all.
func (p *pattern) prefix(path string) (string, bool) {
	loc := p.re.FindStringIndex(path)
	if loc == nil {
		return "", false
	}
	return strings.TrimSuffix(path[:loc[1]], "/"), true
}
