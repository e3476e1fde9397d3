package listing

import "context"

// Source performs the single GET behind a load.
type Source[T any] interface {
	Fetch(ctx context.Context) ([]T, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc[T any] func(ctx context.Context) ([]T, error)

// Fetch calls f.
func (f SourceFunc[T]) Fetch(ctx context.Context) ([]T, error) {
	return f(ctx)
}
