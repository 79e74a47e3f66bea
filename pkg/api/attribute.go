package api

import "golang.org/x/text/language"

// Key identifies a typed request attribute. Keys compare by identity: two
// keys created with the same name are distinct.
type Key[T any] struct {
	name string
}

// NewKey creates an attribute key. The name is only used for diagnostics.
func NewKey[T any](name string) *Key[T] {
	return &Key[T]{name: name}
}

// String returns the key's name.
func (k *Key[T]) String() string {
	return k.name
}

// LocaleKey holds the locale negotiated for the request.
var LocaleKey = NewKey[language.Tag]("locale")

// Attribute returns the value stored under key.
func Attribute[T any](r *Request, key *Key[T]) (T, bool) {
	v, ok := r.attributes[key]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// SetAttribute stores value under key, replacing any previous value.
func SetAttribute[T any](r *Request, key *Key[T], value T) {
	if r.attributes == nil {
		r.attributes = make(map[any]any)
	}
	r.attributes[key] = value
}

// RemoveAttribute deletes the value stored under key.
func RemoveAttribute[T any](r *Request, key *Key[T]) {
	delete(r.attributes, key)
}

// HasAttribute reports whether a value is stored under key.
func HasAttribute[T any](r *Request, key *Key[T]) bool {
	_, ok := r.attributes[key]
	return ok
}

// WithAttribute stores value under key for the duration of fn. The
// attribute is removed however fn exits, including by panic.
func WithAttribute[T any](r *Request, key *Key[T], value T, fn func() error) error {
	SetAttribute(r, key, value)
	defer RemoveAttribute(r, key)
	return fn()
}
