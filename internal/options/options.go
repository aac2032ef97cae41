// Package options implements the functional option pattern shared by the
// framer, quantizer and pipeline configuration types.
//
// A package exposes an alias such as
//
//	type Option = options.Option[*Config]
//
// and WithXxx constructors built from New (validating setters) or NoError
// (setters that cannot fail). Apply runs them in order and stops at the first
// error, leaving earlier options applied.
package options

// Option configures a target of type T.
type Option[T any] interface {
	apply(T) error
}

type funcOption[T any] struct {
	fn func(T) error
}

func (f funcOption[T]) apply(target T) error {
	return f.fn(target)
}

// New wraps a setter that may reject its input.
func New[T any](fn func(T) error) Option[T] {
	return funcOption[T]{fn: fn}
}

// NoError wraps a setter that always succeeds.
func NoError[T any](fn func(T)) Option[T] {
	return funcOption[T]{fn: func(target T) error {
		fn(target)
		return nil
	}}
}

// Apply applies opts to target in order and returns the first error.
// Nil options are skipped.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}
