package lambda

import "strings"

// Headers is an ordered, append-capable, case-insensitive multi-valued header
// map. Name order is first-insertion order and is stable; it is authoritative
// for serialization. The single-valued projection takes the last appended
// value per name, matching how the load balancer itself collapses repeated
// header values.
type Headers struct {
	order  []string            // lowercased names, first-insertion order
	canon  map[string]string   // lowercased name -> name as first written
	values map[string][]string // lowercased name -> values, append order
}

// NewHeaders creates an empty header map.
func NewHeaders() *Headers {
	return &Headers{
		canon:  make(map[string]string),
		values: make(map[string][]string),
	}
}

// Add appends a value under a name, preserving any existing values.
func (h *Headers) Add(name, value string) {
	key := strings.ToLower(name)
	if _, ok := h.values[key]; !ok {
		h.order = append(h.order, key)
		h.canon[key] = name
	}
	h.values[key] = append(h.values[key], value)
}

// Set replaces all values under a name with a single value.
func (h *Headers) Set(name, value string) {
	key := strings.ToLower(name)
	if _, ok := h.values[key]; !ok {
		h.order = append(h.order, key)
		h.canon[key] = name
	}
	h.values[key] = []string{value}
}

// Get returns the last appended value for a name, or "" when absent.
// Lookups ignore case.
func (h *Headers) Get(name string) string {
	vals := h.values[strings.ToLower(name)]
	if len(vals) == 0 {
		return ""
	}
	return vals[len(vals)-1]
}

// Values returns all values for a name in append order. The returned slice
// is shared; callers must not mutate it.
func (h *Headers) Values(name string) []string {
	return h.values[strings.ToLower(name)]
}

// Has reports whether a name is present.
func (h *Headers) Has(name string) bool {
	_, ok := h.values[strings.ToLower(name)]
	return ok
}

// Del removes a name and its values.
func (h *Headers) Del(name string) {
	key := strings.ToLower(name)
	if _, ok := h.values[key]; !ok {
		return
	}
	delete(h.values, key)
	delete(h.canon, key)
	for i, k := range h.order {
		if k == key {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

// Names returns the header names in first-insertion order, using the casing
// they were first written with.
func (h *Headers) Names() []string {
	names := make([]string, len(h.order))
	for i, key := range h.order {
		names[i] = h.canon[key]
	}
	return names
}

// Len returns the number of distinct header names.
func (h *Headers) Len() int {
	return len(h.order)
}

// Clone returns an independent copy.
func (h *Headers) Clone() *Headers {
	out := NewHeaders()
	for _, key := range h.order {
		for _, v := range h.values[key] {
			out.Add(h.canon[key], v)
		}
	}
	return out
}

// MultiValue projects the map into the multi-valued wire shape.
func (h *Headers) MultiValue() map[string][]string {
	out := make(map[string][]string, len(h.order))
	for _, key := range h.order {
		out[h.canon[key]] = append([]string(nil), h.values[key]...)
	}
	return out
}

// SingleValue projects the map into the single-valued wire shape, taking the
// last appended value per name.
func (h *Headers) SingleValue() map[string]string {
	out := make(map[string]string, len(h.order))
	for _, key := range h.order {
		vals := h.values[key]
		out[h.canon[key]] = vals[len(vals)-1]
	}
	return out
}
