package cbi

import (
	"net"
	"regexp"
	"strconv"

	"github.com/goliatone/go-errors"
	opts "github.com/goliatone/go-options"
)

// ValidateFunc checks a submitted value and may rewrite it. A non-nil error
// marks the field invalid for the section instance being parsed.
type ValidateFunc func(value string) (string, error)

// NameFilter admits or rejects a section instance name.
type NameFilter func(name string) bool

// ScopeNames builds a NameFilter admitting exactly the given names.
func ScopeNames(names ...string) NameFilter {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return func(name string) bool {
		return set[name]
	}
}

// MatchesName builds a NameFilter from a regular expression. A pattern that
// does not compile admits nothing.
func MatchesName(pattern string) NameFilter {
	re, err := regexp.Compile(pattern)
	return func(name string) bool {
		return err == nil && re.MatchString(name)
	}
}

// Matches builds a ValidateFunc admitting values that match the pattern.
func Matches(pattern string) ValidateFunc {
	re, err := regexp.Compile(pattern)
	return func(value string) (string, error) {
		if err != nil {
			return "", errors.Wrap(err, errors.CategoryValidation, "invalid validation pattern").
				WithTextCode("INVALID_PATTERN").
				WithMetadata(map[string]any{"pattern": pattern})
		}
		if !re.MatchString(value) {
			return "", errors.New("value does not match pattern", errors.CategoryValidation).
				WithTextCode("VALUE_MISMATCH").
				WithMetadata(map[string]any{"pattern": pattern})
		}
		return value, nil
	}
}

// Range admits numeric values within [min, max].
func Range(min, max float64) ValidateFunc {
	return func(value string) (string, error) {
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "", errors.Wrap(err, errors.CategoryValidation, "value is not a number").
				WithTextCode("NOT_A_NUMBER")
		}
		if n < min || n > max {
			return "", errors.New("value out of range", errors.CategoryValidation).
				WithTextCode("OUT_OF_RANGE").
				WithMetadata(map[string]any{"min": min, "max": max})
		}
		return value, nil
	}
}

// IP4Addr admits dotted-quad IPv4 addresses.
func IP4Addr() ValidateFunc {
	return func(value string) (string, error) {
		ip := net.ParseIP(value)
		if ip == nil || ip.To4() == nil {
			return "", errors.New("value is not an IPv4 address", errors.CategoryValidation).
				WithTextCode("NOT_IP4")
		}
		return value, nil
	}
}

// Expression builds a ValidateFunc from a boolean expression evaluated with
// the submitted value bound as "value", e.g. `len(value) <= 32`.
func Expression(expr string) ValidateFunc {
	eval := opts.NewExprEvaluator()
	return func(value string) (string, error) {
		out, err := eval.Evaluate(opts.RuleContext{Snapshot: map[string]any{"value": value}}, expr)
		if err != nil {
			return "", errors.Wrap(err, errors.CategoryValidation, "expression evaluation failed").
				WithTextCode("EXPRESSION_FAILED").
				WithMetadata(map[string]any{"expression": expr})
		}
		ok, isBool := out.(bool)
		if !isBool {
			return "", errors.New("expression must evaluate to a boolean", errors.CategoryValidation).
				WithTextCode("EXPRESSION_NOT_BOOLEAN").
				WithMetadata(map[string]any{"expression": expr})
		}
		if !ok {
			return "", errors.New("value rejected by expression", errors.CategoryValidation).
				WithTextCode("VALUE_REJECTED").
				WithMetadata(map[string]any{"expression": expr})
		}
		return value, nil
	}
}
