// Package handler catalogs handler implementations: per-language candidate
// pools with measured resource utilization, and the per-endpoint function
// descriptors bound after assembly has chosen a handler directory for every
// endpoint.
package handler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"meshforge/internal/appgraph"
	"meshforge/pkg/apperror"
	"meshforge/pkg/cache"
)

const minHandlersPerLanguage = 3

// Registry holds, per configured language, the candidate handler
// definitions found under the root handler directory.
type Registry struct {
	pools map[string][]Definition
}

// BuildRegistry scans rootDir for one subdirectory per language in
// languages; within each, every subdirectory with a recognized definition
// file is a candidate, provided its utilization file also parses. A
// language with fewer than three valid candidates fails the whole build.
func BuildRegistry(rootDir string, languages []string) (*Registry, error) {
	r := &Registry{pools: map[string][]Definition{}}

	for _, lang := range languages {
		defs, err := scanLanguage(rootDir, lang)
		if err != nil {
			return nil, err
		}
		if len(defs) < minHandlersPerLanguage {
			return nil, apperror.New(apperror.CodeNotEnoughHandlers, "fewer than three valid handlers for language").
				WithDetails("language", lang).
				WithDetails("count", len(defs))
		}
		r.pools[lang] = defs
	}

	return r, nil
}

// HandlersFor returns the candidate pool for language, for Selection to sort
// and bucket-partition.
func (r *Registry) HandlersFor(language string) []Definition {
	return r.pools[language]
}

func scanLanguage(rootDir, lang string) ([]Definition, error) {
	langDir := filepath.Join(rootDir, lang)

	entries, err := os.ReadDir(langDir)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeIOError, "could not read language handler directory").
			WithDetails("path", langDir)
	}

	var defs []Definition
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(langDir, entry.Name())
		if !hasDefinitionFile(dir) {
			continue
		}

		util, err := parseUtilizationFile(dir)
		if err != nil {
			// Missing or malformed utilization file: skip this candidate.
			continue
		}

		defPath, _ := findFile(dir, "definition")
		raw, err := os.ReadFile(defPath)
		if err != nil {
			continue
		}

		defs = append(defs, Definition{Directory: dir, Utilization: util, ContentHash: cache.ShortHash(raw)})
	}

	return defs, nil
}

func findFile(dir, base string) (string, bool) {
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		p := filepath.Join(dir, base+ext)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

func hasDefinitionFile(dir string) bool {
	_, ok := findFile(dir, "definition")
	return ok
}

// loadStructured reads path as YAML or, for a .json file, re-expresses it as
// YAML first, so JSON and YAML handler files share one validating decoder
// (the custom UnmarshalYAML methods on Param/Signature).
func loadStructured(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if filepath.Ext(path) == ".json" {
		var generic interface{}
		if err := json.Unmarshal(data, &generic); err != nil {
			return err
		}
		data, err = yaml.Marshal(generic)
		if err != nil {
			return err
		}
	}

	return yaml.Unmarshal(data, out)
}

func parseUtilizationFile(dir string) (Utilization, error) {
	path, ok := findFile(dir, "utilization")
	if !ok {
		return nil, apperror.New(apperror.CodeIOError, "utilization file not found").WithDetails("directory", dir)
	}

	util := Utilization{}
	if err := loadStructured(path, &util); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeParseError, "could not parse utilization file").WithDetails("path", path)
	}
	return util, nil
}

// ParseHandlerFunction reads and validates the definition file in dir.
func ParseHandlerFunction(dir string) (*Function, error) {
	path, ok := findFile(dir, "definition")
	if !ok {
		return nil, apperror.New(apperror.CodeIOError, "definition file not found").WithDetails("directory", dir)
	}

	var fn Function
	if err := loadStructured(path, &fn); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeParseError, "could not parse definition file").WithDetails("path", path)
	}
	return &fn, nil
}

// Bound associates the parsed Function and its dependency set with each
// endpoint's chosen handler directory. Each directory is parsed exactly
// once, even when multiple endpoints share it.
type Bound struct {
	handlerDirs []string // indexed by endpoint
	funcs       map[string]*Function
	deps        map[string]map[string]Dependency
}

// Bind parses the handler directory assigned to each endpoint (handlerDirs,
// indexed by endpoint id). b.funcs is keyed by directory path, so a
// directory shared by many endpoints is only read and decoded once.
func Bind(handlerDirs []string) (*Bound, error) {
	b := &Bound{
		handlerDirs: handlerDirs,
		funcs:       map[string]*Function{},
		deps:        map[string]map[string]Dependency{},
	}

	for _, dir := range handlerDirs {
		if _, ok := b.funcs[dir]; ok {
			continue
		}

		fn, err := ParseHandlerFunction(dir)
		if err != nil {
			return nil, err
		}
		b.funcs[dir] = fn

		depSet := map[string]Dependency{}
		for _, d := range fn.DependsOn {
			depSet[d.Key()] = d
		}
		b.deps[dir] = depSet
	}

	return b, nil
}

// GetFunction returns the parsed descriptor bound to endpoint.
func (b *Bound) GetFunction(endpoint int) *Function {
	return b.funcs[b.handlerDirs[endpoint]]
}

// GetServiceDependencies returns the union of dependencies over every
// endpoint assigned to service, deduplicated by kind-and-parameter identity.
func (b *Bound) GetServiceDependencies(a *appgraph.ApplicationGraph, service int) []Dependency {
	merged := map[string]Dependency{}
	for _, endpoint := range a.IterEndpointsOfService(service) {
		for key, d := range b.deps[b.handlerDirs[endpoint]] {
			merged[key] = d
		}
	}

	out := make([]Dependency, 0, len(merged))
	for _, d := range merged {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}
