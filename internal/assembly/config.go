// Package assembly drives the generation pipeline end to end: seed the
// RNG, sample or accept a topology, color it, build the handler registry,
// select languages/service types/handlers, and bind everything into an
// Application Graph.
package assembly

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"meshforge/internal/appgraph"
	"meshforge/internal/servicetype"
	"meshforge/pkg/apperror"
)

const (
	minStartPort = 30000
	maxStartPort = 49151
	seedAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	seedLength   = 16
)

// Mode selects how topology and endpoint assignment are produced.
type Mode string

const (
	// ModeAutoPilot samples a random topology and draws every assignment.
	ModeAutoPilot Mode = "auto_pilot"
	// ModeHybrid accepts a caller-supplied topology (named services,
	// endpoints, and inter-service call list) but still draws language,
	// service type, and handler selections.
	ModeHybrid Mode = "hybrid"
	// ModeManual additionally pins each endpoint to a handler directory
	// and language, bypassing Selection (F) entirely.
	ModeManual Mode = "manual"
)

// Config is the validated set of inputs Assembly consumes, mirroring the
// external config contract: app name, seed, topology sizing, service-type
// catalog, and language weights.
type Config struct {
	AppName             string
	RunID               string
	Seed                string
	StartPort           int
	Mode                Mode
	VertexCount         int
	EdgeCount           int
	ColorCount          int
	ServiceTypes []servicetype.ServiceType
	Languages    []LanguageWeight
	HandlerRoot  string

	// Topology/Assignment overrides (hybrid/manual modes).
	Topology   *Topology   // required for hybrid/manual
	Assignment *Assignment // required for manual
}

// LanguageWeight names a selected language and its optional weight.
type LanguageWeight struct {
	Language appgraph.Language
	Fraction int
}

// Topology is a caller-supplied graph for hybrid/manual modes: named
// endpoints grouped into named services, plus the inter-service call list.
type Topology struct {
	ServiceOf []int // coloring, indexed by endpoint
	Edges     [][2]int
}

// Assignment pins each endpoint to a handler directory and each service to
// a language, for manual mode.
type Assignment struct {
	HandlerDirs []string             // indexed by endpoint
	Languages   []appgraph.Language // indexed by color
}

// Validate checks the config-level invariants from the external interface
// contract (§6): non-empty app name, port range, non-empty catalogs, and
// the topology/assignment each mode requires. Fraction sums are not
// checked here.
func (c Config) Validate() error {
	if c.AppName == "" {
		return apperror.New(apperror.CodeConfigInvalid, "app_name must be non-empty")
	}
	if c.StartPort < minStartPort || c.StartPort > maxStartPort {
		return apperror.ErrPortRangeInvalid.WithDetails("start_port", c.StartPort)
	}
	if c.StartPort+c.ColorCount > maxStartPort {
		return apperror.ErrPortRangeInvalid.
			WithDetails("start_port", c.StartPort).
			WithDetails("color_count", c.ColorCount)
	}
	if len(c.ServiceTypes) == 0 {
		return apperror.ErrEmptyServiceTypes
	}
	if len(c.Languages) == 0 {
		return apperror.ErrEmptyLanguages
	}
	if c.Mode != ModeAutoPilot && c.Topology == nil {
		return apperror.New(apperror.CodeConfigInvalid, "topology is required in hybrid/manual mode").
			WithDetails("mode", string(c.Mode))
	}
	if c.Mode == ModeManual && c.Assignment == nil {
		return apperror.New(apperror.CodeConfigInvalid, "assignment is required in manual mode")
	}
	return nil
}

// RandomSeed returns a random 16-character alphanumeric seed, the default
// used when the config omits one.
func RandomSeed() (string, error) {
	buf := make([]byte, seedLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(seedAlphabet))))
		if err != nil {
			return "", fmt.Errorf("generating random seed: %w", err)
		}
		buf[i] = seedAlphabet[n.Int64()]
	}
	return string(buf), nil
}
