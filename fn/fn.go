package fn

// ComparisonResult represents the result of comparing two values.
type ComparisonResult int

const (
	Equal   ComparisonResult = 0
	Less    ComparisonResult = -1
	Greater ComparisonResult = 1
)

// Comparator represents a function that compares two values of type T.
type Comparator[T any] func(i1 T, i2 T) ComparisonResult

// ReverseComparator returns a comparator that reverses the order of the given comparator.
func ReverseComparator[T any](comparator Comparator[T]) Comparator[T] {
	return func(i1 T, i2 T) ComparisonResult {
		return comparator(i2, i1)
	}
}

// CompareInts is a comparator for ints, usable as a building block for priorities.
func CompareInts(i1, i2 int) ComparisonResult {
	switch {
	case i1 < i2:
		return Less
	case i1 > i2:
		return Greater
	default:
		return Equal
	}
}

// TriConsumer represents a function that accepts three input arguments and returns no result.
type TriConsumer[T1 any, T2 any, T3 any] func(t1 T1, t2 T2, t3 T3)

// AllTriConsumer creates a tri-consumer that will execute all the given tri-consumers, in order.
func AllTriConsumer[A any, B any, C any](consumers ...TriConsumer[A, B, C]) TriConsumer[A, B, C] {
	return func(a A, b B, c C) {
		for _, consumer := range consumers {
			consumer(a, b, c)
		}
	}
}
