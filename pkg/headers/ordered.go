package headers

import (
	"net/http"
	"strings"
	"sync"
)

// Map is an ordered, case-insensitive, multi-value header map.
// Names keep the case they were first set with; lookups ignore case.
type Map struct {
	mu     sync.RWMutex
	order  []string            // Preserves insertion order (lowercase keys)
	values map[string][]string // Case-insensitive storage (lowercase keys)
	raw    map[string]string   // Preserves original case of keys
}

// Header represents one header name with all of its values
type Header struct {
	Name   string
	Values []string
}

// NewMap creates an empty Map
func NewMap() *Map {
	return &Map{
		order:  make([]string, 0),
		values: make(map[string][]string),
		raw:    make(map[string]string),
	}
}

// Set replaces the values of a header, preserving its position if it already exists.
// Setting no values removes the header.
func (h *Map) Set(name string, values ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.setLocked(name, values)
}

func (h *Map) setLocked(name string, values []string) {
	lowerName := strings.ToLower(name)
	if len(values) == 0 {
		h.delLocked(lowerName)
		return
	}

	// If header doesn't exist, add to order
	if _, exists := h.values[lowerName]; !exists {
		h.order = append(h.order, lowerName)
		h.raw[lowerName] = name // Preserve original case
	}

	v := make([]string, len(values))
	copy(v, values)
	h.values[lowerName] = v
}

// Add appends values to a header, creating it at the end if needed
func (h *Map) Add(name string, values ...string) {
	if len(values) == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	lowerName := strings.ToLower(name)
	if _, exists := h.values[lowerName]; !exists {
		h.order = append(h.order, lowerName)
		h.raw[lowerName] = name
	}
	h.values[lowerName] = append(h.values[lowerName], values...)
}

// Get retrieves the first value of a header (case-insensitive)
func (h *Map) Get(name string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	values := h.values[strings.ToLower(name)]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Values returns a copy of all values of a header (case-insensitive)
func (h *Map) Values(name string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	values, ok := h.values[strings.ToLower(name)]
	if !ok {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

// GetRaw retrieves the original case of the header name
func (h *Map) GetRaw(name string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.raw[strings.ToLower(name)]
}

// Has checks if a header exists (case-insensitive)
func (h *Map) Has(name string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, exists := h.values[strings.ToLower(name)]
	return exists
}

// Del removes a header
func (h *Map) Del(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.delLocked(strings.ToLower(name))
}

func (h *Map) delLocked(lowerName string) {
	if _, exists := h.values[lowerName]; !exists {
		return
	}
	delete(h.values, lowerName)
	delete(h.raw, lowerName)

	// Remove from order
	for i, headerName := range h.order {
		if headerName == lowerName {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

// Names returns the header names in order, in their original case
func (h *Map) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.order))
	for _, lowerName := range h.order {
		names = append(names, h.raw[lowerName])
	}
	return names
}

// All returns all headers in their original order
func (h *Map) All() []Header {
	h.mu.RLock()
	defer h.mu.RUnlock()

	headers := make([]Header, 0, len(h.order))
	for _, lowerName := range h.order {
		values := make([]string, len(h.values[lowerName]))
		copy(values, h.values[lowerName])
		headers = append(headers, Header{
			Name:   h.raw[lowerName],
			Values: values,
		})
	}
	return headers
}

// Len returns the number of distinct headers
func (h *Map) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.order)
}

// Clone creates a deep copy of the map
func (h *Map) Clone() *Map {
	clone := NewMap()
	for _, header := range h.All() {
		clone.Set(header.Name, header.Values...)
	}
	return clone
}

// HTTPHeader converts the map to a net/http header
func (h *Map) HTTPHeader() http.Header {
	out := make(http.Header, h.Len())
	for _, header := range h.All() {
		for _, v := range header.Values {
			out.Add(header.Name, v)
		}
	}
	return out
}
