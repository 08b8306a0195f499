package app

// Registry is an insertion-ordered map keyed by description.
// It is filled during startup and read during shutdown, never concurrently.
type Registry[T any] struct {
	keys   []string
	values map[string]T
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{values: make(map[string]T)}
}

// Add stores v under key. It returns false and keeps the existing value
// when key is already present.
func (r *Registry[T]) Add(key string, v T) bool {
	if _, ok := r.values[key]; ok {
		return false
	}
	r.keys = append(r.keys, key)
	r.values[key] = v
	return true
}

// Get returns the value stored under key.
func (r *Registry[T]) Get(key string) (T, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (r *Registry[T]) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Values returns the values in insertion order. A nil registry is empty.
func (r *Registry[T]) Values() []T {
	if r == nil {
		return nil
	}
	out := make([]T, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.values[k])
	}
	return out
}

// Len returns the number of entries. A nil registry is empty.
func (r *Registry[T]) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}
