package handler

import (
	"gopkg.in/yaml.v3"

	"meshforge/pkg/apperror"
)

// Signature is a function name plus its ordered parameter list and optional
// return schema.
type Signature struct {
	Function   string
	Parameters []Param
	Returns    *Schema
}

type rawSignature struct {
	Function   string  `yaml:"function"`
	Parameters []Param `yaml:"parameters"`
	Params     []Param `yaml:"params"`
	Returns    *Schema `yaml:"returns"`
}

// UnmarshalYAML decodes a Signature and enforces its invariants: a
// non-empty function name, at most one object/array-typed parameter, and a
// contiguous 0..n positional prefix once sorted.
func (s *Signature) UnmarshalYAML(value *yaml.Node) error {
	var raw rawSignature
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Function == "" {
		return apperror.New(apperror.CodeParseError, "expected non-empty string for function")
	}

	params := raw.Parameters
	if len(params) == 0 && len(raw.Params) > 0 {
		params = raw.Params
	}
	sortParams(params)

	complexParams := 0
	nextPositional := 0
	for _, p := range params {
		if p.Arg.Kind == PassingPositional {
			if p.Arg.Pos != nextPositional {
				return apperror.New(apperror.CodeParseError, "expected next positional argument to have a contiguous index").
					WithDetails("expected", nextPositional).
					WithDetails("got", p.Arg.Pos)
			}
			nextPositional++
		}
		if p.Schema.IsObjectOrArray() {
			complexParams++
			if complexParams > 1 {
				return apperror.New(apperror.CodeParseError, "only exactly one parameter with type object or array is allowed")
			}
		}
	}

	s.Function = raw.Function
	s.Parameters = params
	s.Returns = raw.Returns
	return nil
}
