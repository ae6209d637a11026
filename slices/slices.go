// Package slices contains the few generic slice helpers missing from the standard library.
package slices

// Filter keeps the elements matching the predicate, in order. It returns nil when nothing matches.
func Filter[T any](slice []T, predicate func(T) bool) []T {
	var result []T
	for _, item := range slice {
		if predicate(item) {
			result = append(result, item)
		}
	}
	return result
}

// UnsafeMap maps every element with a mapper that can fail, stopping at the first error.
func UnsafeMap[F any, T any](original []F, mapper func(F) (T, error)) ([]T, error) {
	destination := make([]T, len(original))
	for i, item := range original {
		var err error
		if destination[i], err = mapper(item); err != nil {
			return nil, err
		}
	}
	return destination, nil
}
