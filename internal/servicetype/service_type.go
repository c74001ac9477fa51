package servicetype

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"meshforge/pkg/apperror"
)

// ServiceType is a declarative service archetype: a fraction of the color
// classes it should be assigned to, and the resource weights its handlers
// should be selected against.
type ServiceType struct {
	Fraction  int        `yaml:"fraction"`
	Resources []Resource `yaml:"resources"`
}

func (s ServiceType) String() string {
	return fmt.Sprintf("Service Type (%v, %d%%)", s.Resources, s.Fraction)
}

// UnmarshalYAML validates that resources is non-empty, its fractions sum
// to exactly 100, and no two resources name the same underlying resource.
func (s *ServiceType) UnmarshalYAML(value *yaml.Node) error {
	type rawServiceType ServiceType
	var raw rawServiceType
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if len(raw.Resources) == 0 {
		return apperror.New(apperror.CodeConfigInvalid, "resources list must be non-empty")
	}

	sum := 0
	seen := map[string]bool{}
	for _, r := range raw.Resources {
		sum += r.Fraction
		key := string(r.Resource)
		if seen[key] {
			return apperror.New(apperror.CodeConfigInvalid, "expected resources to be unique, but found duplicate resource").
				WithDetails("resource", key)
		}
		seen[key] = true
	}
	if sum != 100 {
		return apperror.ErrFractionsNotSum100.WithDetails("sum", sum)
	}

	*s = ServiceType(raw)
	return nil
}

// ResourceDistribution is a low/mid/high percentage split, validated on
// decode. Nothing in assembly or selection reads it: handler buckets are
// always chosen from a service type's resource intensities.
type ResourceDistribution struct {
	Low  int `yaml:"low"`
	Mid  int `yaml:"mid"`
	High int `yaml:"high"`
}

// UnmarshalYAML validates that low+mid+high sum to exactly 100.
func (d *ResourceDistribution) UnmarshalYAML(value *yaml.Node) error {
	type rawDistribution ResourceDistribution
	var raw rawDistribution
	if err := value.Decode(&raw); err != nil {
		return err
	}
	sum := raw.Low + raw.Mid + raw.High
	if sum != 100 {
		return apperror.ErrFractionsNotSum100.WithDetails("sum", sum)
	}
	*d = ResourceDistribution(raw)
	return nil
}
