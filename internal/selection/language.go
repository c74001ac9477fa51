package selection

import (
	"math/rand"
	"strconv"
	"strings"

	"meshforge/internal/appgraph"
	"meshforge/pkg/apperror"
)

// WeightedLanguage pairs a language with the fraction weight it should be
// drawn with — the Go rendering of the original's per-language fraction
// payload (`Python(usize)`, `Rust(usize)`) as a plain weighted record
// instead of an enum-with-payload.
type WeightedLanguage struct {
	Language appgraph.Language
	Fraction int
}

// ParseWeightedLanguage parses "name" or "name:fraction" (fraction defaults
// to 1 when omitted), matching the original's FromStr.
func ParseWeightedLanguage(s string) (WeightedLanguage, error) {
	name, fractionStr, found := strings.Cut(s, ":")
	if !found {
		fractionStr = "1"
	}
	fraction, err := strconv.Atoi(fractionStr)
	if err != nil {
		return WeightedLanguage{}, apperror.New(apperror.CodeConfigInvalid, "invalid programming language fraction").
			WithDetails("input", s)
	}
	return WeightedLanguage{Language: appgraph.Language(name), Fraction: fraction}, nil
}

// Language draws one language from available, weighted by fraction.
func Language(rng *rand.Rand, available []WeightedLanguage) (appgraph.Language, error) {
	choice, err := WeightedChoice(rng, available, func(l WeightedLanguage) int { return l.Fraction })
	if err != nil {
		return "", err
	}
	return choice.Language, nil
}
