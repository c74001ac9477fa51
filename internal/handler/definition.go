package handler

import "meshforge/pkg/apperror"

// Resource is a measurable handler resource.
type Resource string

const (
	ResourceCPU       Resource = "cpu"
	ResourceMemory    Resource = "memory"
	ResourceNetRecv   Resource = "net_recv"
	ResourceNetTx     Resource = "net_tx"
	ResourceDiskRead  Resource = "disk_read"
	ResourceDiskWrite Resource = "disk_write"
)

// Utilization is the per-resource measured intensity of a handler.
type Utilization map[Resource]float64

// Definition is a candidate handler directory plus its measured
// utilization. Two definitions are equal iff their directories are equal.
// ContentHash fingerprints the definition file's bytes so callers can tell
// two directories produced identical candidates without re-reading them.
type Definition struct {
	Directory   string
	Utilization Utilization
	ContentHash string
}

// CompareByResourceType orders two definitions ascending by their utilization
// of resource. Panics if either definition has no measurement for resource —
// an internal invariant violation, since the registry only admits
// definitions with a complete utilization map.
func (d Definition) CompareByResourceType(other Definition, resource Resource) int {
	a, ok := d.Utilization[resource]
	if !ok {
		panic(apperror.New(apperror.CodeInvariantViolation, "missing utilization for resource").
			WithDetails("directory", d.Directory).
			WithDetails("resource", resource).
			Error())
	}
	b, ok := other.Utilization[resource]
	if !ok {
		panic(apperror.New(apperror.CodeInvariantViolation, "missing utilization for resource").
			WithDetails("directory", other.Directory).
			WithDetails("resource", resource).
			Error())
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
