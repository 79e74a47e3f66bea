package api

import "strings"

// Headers is a case-insensitive multimap of header names to ordered values.
// The zero value is an empty set ready to use.
type Headers struct {
	entries map[string]*headerEntry
	order   []string // lower-cased names in first-insertion order
}

type headerEntry struct {
	name   string
	values []string
}

func headerKey(name string) string {
	return strings.ToLower(name)
}

// Has reports whether at least one value is present under name.
func (h *Headers) Has(name string) bool {
	_, ok := h.entries[headerKey(name)]
	return ok
}

// Get returns all values under name joined by ", ", or "" when absent.
func (h *Headers) Get(name string) string {
	e, ok := h.entries[headerKey(name)]
	if !ok {
		return ""
	}
	return strings.Join(e.values, ", ")
}

// Lookup returns the first value under name.
func (h *Headers) Lookup(name string) (string, bool) {
	e, ok := h.entries[headerKey(name)]
	if !ok {
		return "", false
	}
	return e.values[0], true
}

// List returns a copy of the values under name, in insertion order. The
// result is empty, never nil, when the header is absent.
func (h *Headers) List(name string) []string {
	e, ok := h.entries[headerKey(name)]
	if !ok {
		return []string{}
	}
	return append([]string{}, e.values...)
}

// Add appends value under name. An existing header keeps the casing it was
// first stored with.
func (h *Headers) Add(name, value string) {
	key := headerKey(name)
	if e, ok := h.entries[key]; ok {
		e.values = append(e.values, value)
		return
	}
	h.insert(key, &headerEntry{name: name, values: []string{value}})
}

// Put replaces every value under name with the given values and adopts the
// supplied casing. Putting no values removes the header.
func (h *Headers) Put(name string, values ...string) {
	if len(values) == 0 {
		h.Remove(name)
		return
	}
	key := headerKey(name)
	e := &headerEntry{name: name, values: append([]string{}, values...)}
	if _, ok := h.entries[key]; ok {
		h.entries[key] = e
		return
	}
	h.insert(key, e)
}

// Remove deletes every value under name.
func (h *Headers) Remove(name string) {
	key := headerKey(name)
	if _, ok := h.entries[key]; !ok {
		return
	}
	delete(h.entries, key)
	for i, k := range h.order {
		if k == key {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

// Names returns the header names in their stored casing, in first-insertion
// order.
func (h *Headers) Names() []string {
	names := make([]string, 0, len(h.order))
	for _, key := range h.order {
		names = append(names, h.entries[key].name)
	}
	return names
}

// Len returns the number of distinct header names.
func (h *Headers) Len() int {
	return len(h.order)
}

// Clone returns a deep copy.
func (h *Headers) Clone() *Headers {
	c := &Headers{}
	for _, key := range h.order {
		e := h.entries[key]
		c.insert(key, &headerEntry{name: e.name, values: append([]string{}, e.values...)})
	}
	return c
}

func (h *Headers) insert(key string, e *headerEntry) {
	if h.entries == nil {
		h.entries = make(map[string]*headerEntry)
	}
	h.entries[key] = e
	h.order = append(h.order, key)
}
