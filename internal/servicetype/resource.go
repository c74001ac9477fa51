// Package servicetype models the declarative service-type catalog: the
// resources a generated service's handlers are weighted toward, and the
// fractional mix of service types assigned to a run.
package servicetype

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"meshforge/internal/handler"
	"meshforge/pkg/apperror"
)

// ResourceIntensity is the bucket of a resource's utilization profile
// within a service type: which third of the sorted candidate handlers it
// draws from.
type ResourceIntensity string

const (
	IntensityLow  ResourceIntensity = "LOW"
	IntensityMid  ResourceIntensity = "MID"
	IntensityHigh ResourceIntensity = "HIGH"
)

// UnmarshalYAML accepts case-insensitive low/mid/high spellings.
func (i *ResourceIntensity) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "low":
		*i = IntensityLow
	case "mid":
		*i = IntensityMid
	case "high":
		*i = IntensityHigh
	default:
		return fmt.Errorf("unknown resource intensity %q", s)
	}
	return nil
}

// Resource is one weighted resource entry within a service type: which
// resource it measures, what fraction of handler selections should draw on
// it, and which utilization bucket (low/medium/high) to draw the handler
// from.
type Resource struct {
	Resource handler.Resource  `yaml:"resource"`
	Fraction int               `yaml:"fraction"`
	Intensity ResourceIntensity `yaml:"intensity"`
}

// Equal compares resources by their Resource kind only, matching the
// original's identity-by-kind semantics (fraction/intensity don't affect
// equality, only dedup-by-kind does).
func (r Resource) Equal(other Resource) bool {
	return r.Resource == other.Resource
}

func (r Resource) String() string {
	return fmt.Sprintf("%s (%s, %d%%)", r.Resource, r.Intensity, r.Fraction)
}

// UnmarshalYAML validates that fraction lies in 1..=100.
func (r *Resource) UnmarshalYAML(value *yaml.Node) error {
	type rawResource Resource
	var raw rawResource
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Fraction < 1 || raw.Fraction > 100 {
		return apperror.New(apperror.CodeConfigInvalid, "expected fraction to be in the range of 1..=100").
			WithDetails("fraction", raw.Fraction)
	}
	*r = Resource(raw)
	return nil
}
