package selection

import (
	"math/rand"

	"meshforge/internal/servicetype"
)

// ServiceType draws one service type from available, weighted by fraction.
func ServiceType(rng *rand.Rand, available []servicetype.ServiceType) (servicetype.ServiceType, error) {
	return WeightedChoice(rng, available, func(st servicetype.ServiceType) int { return st.Fraction })
}

// Resource draws one resource from a service type's resource list, weighted
// by fraction.
func Resource(rng *rand.Rand, st servicetype.ServiceType) (servicetype.Resource, error) {
	return WeightedChoice(rng, st.Resources, func(r servicetype.Resource) int { return r.Fraction })
}
