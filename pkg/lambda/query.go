package lambda

import "strings"

// parseQuery merges the single- and multi-valued query parameter maps from an
// invocation payload into one value map. Multi-valued parameters win when
// both are present, since the single-valued map is the platform's collapsed
// view of the same data.
//
// Bracket syntax nests: "a[b]=1" produces {"a": {"b": "1"}}, "tag[]=x&tag[]=y"
// produces {"tag": ["x", "y"]}. Repeated names become string slices.
func parseQuery(single map[string]string, multi map[string][]string) map[string]interface{} {
	query := make(map[string]interface{})
	if len(multi) > 0 {
		for name, vals := range multi {
			assignQuery(query, name, vals)
		}
		return query
	}
	for name, val := range single {
		assignQuery(query, name, []string{val})
	}
	return query
}

// assignQuery writes one parameter into the value map, creating nested maps
// for bracketed path segments.
func assignQuery(dst map[string]interface{}, name string, vals []string) {
	if len(vals) == 0 {
		return
	}
	path := queryPath(name)
	array := false
	if n := len(path); n > 1 && path[n-1] == "" {
		path = path[:n-1]
		array = true
	}
	m := dst
	for _, seg := range path[:len(path)-1] {
		next, ok := m[seg].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			m[seg] = next
		}
		m = next
	}
	last := path[len(path)-1]
	switch {
	case array:
		existing, _ := m[last].([]string)
		m[last] = append(existing, vals...)
	case len(vals) > 1:
		m[last] = append([]string(nil), vals...)
	default:
		m[last] = vals[0]
	}
}

// queryPath splits "a[b][c]" into ["a", "b", "c"] and "tag[]" into
// ["tag", ""]. Names without well-formed brackets stay flat.
func queryPath(name string) []string {
	open := strings.IndexByte(name, '[')
	if open < 0 || !strings.HasSuffix(name, "]") {
		return []string{name}
	}
	path := []string{name[:open]}
	path = append(path, strings.Split(name[open+1:len(name)-1], "][")...)
	return path
}
