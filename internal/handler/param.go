package handler

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// PassingKind distinguishes how a parameter is passed to its handler.
type PassingKind int

const (
	PassingPositional PassingKind = iota
	PassingKeyword
)

// PassingType is the tagged arg-passing variant: a positional index or a
// keyword name, ordered positional-first then keyword-by-name.
type PassingType struct {
	Kind PassingKind
	Pos  int
	Name string
}

// Less orders Positional before Keyword, and within a kind by value.
func (p PassingType) Less(other PassingType) bool {
	if p.Kind != other.Kind {
		return p.Kind < other.Kind
	}
	if p.Kind == PassingPositional {
		return p.Pos < other.Pos
	}
	return p.Name < other.Name
}

func (p PassingType) String() string {
	if p.Kind == PassingPositional {
		return fmt.Sprintf("positional%d", p.Pos)
	}
	return p.Name
}

// Param is one function parameter: how it is passed, plus its schema.
type Param struct {
	Arg    PassingType
	Schema Schema
}

// IsPrimitiveType reports whether the parameter's schema is not object or
// array.
func (p Param) IsPrimitiveType() bool {
	return !p.Schema.IsObjectOrArray()
}

// Name returns the parameter's query-string name: the keyword name if
// keyword-passed, else the schema's title if set, else "positional{pos}".
func (p Param) Name() string {
	if p.Arg.Kind == PassingKeyword {
		return p.Arg.Name
	}
	if p.Schema.Title != "" {
		return p.Schema.Title
	}
	return fmt.Sprintf("positional%d", p.Arg.Pos)
}

// UnmarshalYAML decodes a Param from a flattened mapping: the "arg" field
// (an integer for positional, a non-empty string for keyword) plus the
// remaining fields forming the schema.
func (p *Param) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]interface{}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	argVal, ok := raw["arg"]
	if !ok {
		return fmt.Errorf("param missing required field \"arg\"")
	}
	delete(raw, "arg")

	switch v := argVal.(type) {
	case int:
		if v < 0 {
			return fmt.Errorf("param positional arg must be non-negative, got %d", v)
		}
		p.Arg = PassingType{Kind: PassingPositional, Pos: v}
	case string:
		if v == "" {
			return fmt.Errorf("param keyword arg must be non-empty")
		}
		p.Arg = PassingType{Kind: PassingKeyword, Name: v}
	default:
		return fmt.Errorf("param \"arg\" must be an integer or a string, got %T", argVal)
	}

	schemaBytes, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	var schema Schema
	if err := yaml.Unmarshal(schemaBytes, &schema); err != nil {
		return err
	}
	p.Schema = schema

	return nil
}

// sortParams orders params positional-first (by index) then keyword-by-name,
// matching the derived Ord on the source's PassingType enum.
func sortParams(params []Param) {
	sort.SliceStable(params, func(i, j int) bool {
		return params[i].Arg.Less(params[j].Arg)
	})
}
