package utils

import "golang.org/x/exp/constraints"

// FindIndex returns the index of the first item equal to item, or -1.
func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// ArgMax returns the index of the greatest value. Ties keep the earliest
// index. It returns -1 for an empty slice.
func ArgMax[T constraints.Ordered](values []T) int {
	if len(values) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}
