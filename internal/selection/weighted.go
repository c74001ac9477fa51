// Package selection draws service types, resources, programming languages,
// and handler directories for each color of an assembled application graph.
package selection

import (
	"math/rand"

	"meshforge/pkg/apperror"
)

// WeightedChoice draws one item from items with probability proportional to
// weight(item), the Go equivalent of the original's
// `choose_weighted`: a linear cumulative-sum scan against a single uniform
// draw in [0, total).
func WeightedChoice[T any](rng *rand.Rand, items []T, weight func(T) int) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, apperror.New(apperror.CodeConfigInvalid, "cannot choose from an empty item list")
	}

	total := 0
	for _, item := range items {
		total += weight(item)
	}
	if total <= 0 {
		return zero, apperror.New(apperror.CodeConfigInvalid, "weighted choice requires a positive total weight").
			WithDetails("total", total)
	}

	threshold := rng.Intn(total)
	cumulative := 0
	for _, item := range items {
		cumulative += weight(item)
		if threshold < cumulative {
			return item, nil
		}
	}
	// Unreachable given total > 0 and threshold < total, but keeps the
	// function total.
	return items[len(items)-1], nil
}
