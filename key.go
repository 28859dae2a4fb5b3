package avlmap

import "cmp"

// A Key has a sort order relative to other keys of the same type.
type Key[K any] interface {
	// Order returns -1 if the argument is greater than this one, 1 if less, and 0 if equal.
	Order(K) int
}

// KeyCompare orders keys that implement Key.
func KeyCompare[K Key[K]](a, b K) int {
	return a.Order(b)
}

// NewKeyed returns an empty map whose keys are ordered by their Order method.
func NewKeyed[K Key[K], V any](config *Config) *Map[K, V] {
	return NewFunc[K, V](KeyCompare[K], config)
}

// New returns an empty map whose keys are ordered by the builtin < operator.
func New[K cmp.Ordered, V any](config *Config) *Map[K, V] {
	return NewFunc[K, V](cmp.Compare[K], config)
}
