package servicetype

import (
	"testing"

	"gopkg.in/yaml.v3"

	"meshforge/pkg/apperror"
)

func TestServiceTypeRejectsFractionsNotSumming100(t *testing.T) {
	var st ServiceType
	err := yaml.Unmarshal([]byte(`
fraction: 100
resources:
  - resource: cpu
    fraction: 40
    intensity: high
  - resource: memory
    fraction: 40
    intensity: low
`), &st)
	if apperror.Code(err) != apperror.CodeConfigInvalid {
		t.Fatalf("expected CodeConfigInvalid, got %v", err)
	}
}

func TestServiceTypeRejectsDuplicateResource(t *testing.T) {
	var st ServiceType
	err := yaml.Unmarshal([]byte(`
fraction: 100
resources:
  - resource: cpu
    fraction: 50
    intensity: high
  - resource: cpu
    fraction: 50
    intensity: low
`), &st)
	if apperror.Code(err) != apperror.CodeConfigInvalid {
		t.Fatalf("expected CodeConfigInvalid for duplicate resource, got %v", err)
	}
}

func TestServiceTypeAccepts(t *testing.T) {
	var st ServiceType
	err := yaml.Unmarshal([]byte(`
fraction: 100
resources:
  - resource: cpu
    fraction: 70
    intensity: high
  - resource: memory
    fraction: 30
    intensity: low
`), &st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.Resources) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(st.Resources))
	}
}

func TestResourceDistributionRejectsBadSum(t *testing.T) {
	var d ResourceDistribution
	err := yaml.Unmarshal([]byte("low: 10\nmid: 10\nhigh: 10\n"), &d)
	if apperror.Code(err) != apperror.CodeConfigInvalid {
		t.Fatalf("expected CodeConfigInvalid, got %v", err)
	}
}
