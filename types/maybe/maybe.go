package maybe

import (
	"encoding/json"
	"reflect"

	"gopkg.in/yaml.v3"
)

type Maybe[T any] struct {
	value T
	valid bool
}

func Some[T any](value T) Maybe[T] {
	return Maybe[T]{
		value: value,
		valid: true,
	}
}

func None[T any]() Maybe[T] {
	return Maybe[T]{
		valid: false,
	}
}

// FromPtr returns None for a nil pointer, otherwise Some of the pointed value.
func FromPtr[T any](p *T) Maybe[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

func (m Maybe[T]) IsValid() bool {
	return m.valid
}

// Equal reports whether both are unset, or both set to equal values.
func (m Maybe[T]) Equal(other Maybe[T]) bool {
	if m.valid != other.valid {
		return false
	}
	return !m.valid || reflect.DeepEqual(m.value, other.value)
}

// IsZero lets encoders honour omitempty/omitzero for unset values.
func (m Maybe[T]) IsZero() bool {
	return !m.valid
}

func (m Maybe[T]) Value() T {
	return m.value
}

func (m Maybe[T]) ValueOrDefault(defaultValue T) T {
	if m.valid {
		return m.value
	}
	return defaultValue
}

// Ptr returns a pointer to a copy of the value, or nil when unset.
func (m Maybe[T]) Ptr() *T {
	if !m.valid {
		return nil
	}
	v := m.value
	return &v
}

// Or returns m when set, otherwise other.
func (m Maybe[T]) Or(other Maybe[T]) Maybe[T] {
	if m.valid {
		return m
	}
	return other
}

func (m Maybe[T]) MarshalJSON() ([]byte, error) {
	if !m.valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.value)
}

func (m *Maybe[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Some(v)
	return nil
}

func (m Maybe[T]) MarshalYAML() (any, error) {
	if !m.valid {
		return nil, nil
	}
	return m.value, nil
}

func (m *Maybe[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*m = None[T]()
		return nil
	}
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	*m = Some(v)
	return nil
}
