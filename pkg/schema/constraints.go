package schema

import (
	"regexp"
	"slices"
	"strconv"
	"sync"
	"unicode/utf8"
)

const (
	ConstraintMinLength = "minLength"
	ConstraintMaxLength = "maxLength"
	ConstraintEmail     = "email"
	ConstraintPattern   = "pattern"
	ConstraintNonEmpty  = "nonEmpty"
	ConstraintOneOf     = "oneOf"
)

// Constraint is a single predicate applied to a trimmed field value. Length
// bounds encode their threshold in Params["value"] and pattern rules keep the
// expression in Params["pattern"], mirroring how OpenAPI keywords are carried.
// Choice sets live in Options so declaration order survives serialisation.
type Constraint struct {
	Kind    string            `json:"kind" yaml:"kind"`
	Params  map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Options []string          `json:"options,omitempty" yaml:"options,omitempty"`
	Message string            `json:"message" yaml:"message"`
}

// MinLength requires at least n code points.
func MinLength(n int, message string) Constraint {
	return Constraint{Kind: ConstraintMinLength, Params: map[string]string{"value": strconv.Itoa(n)}, Message: message}
}

// MaxLength allows at most n code points.
func MaxLength(n int, message string) Constraint {
	return Constraint{Kind: ConstraintMaxLength, Params: map[string]string{"value": strconv.Itoa(n)}, Message: message}
}

// Email requires a syntactically valid address.
func Email(message string) Constraint {
	return Constraint{Kind: ConstraintEmail, Message: message}
}

// Pattern requires the value to match expr (RE2 syntax).
func Pattern(expr, message string) Constraint {
	return Constraint{Kind: ConstraintPattern, Params: map[string]string{"pattern": expr}, Message: message}
}

// NonEmpty rejects the empty string.
func NonEmpty(message string) Constraint {
	return Constraint{Kind: ConstraintNonEmpty, Message: message}
}

// OneOf requires the value to be one of options.
func OneOf(options []string, message string) Constraint {
	return Constraint{Kind: ConstraintOneOf, Options: append([]string(nil), options...), Message: message}
}

// Check reports whether value satisfies the constraint. Callers pass the
// already trimmed value. Unknown kinds never pass.
func (c Constraint) Check(value string) bool {
	switch c.Kind {
	case ConstraintMinLength:
		return utf8.RuneCountInString(value) >= c.intParam()
	case ConstraintMaxLength:
		return utf8.RuneCountInString(value) <= c.intParam()
	case ConstraintEmail:
		return IsEmail(value)
	case ConstraintPattern:
		re, err := compilePattern(c.Params["pattern"])
		if err != nil {
			return false
		}
		return re.MatchString(value)
	case ConstraintNonEmpty:
		return value != ""
	case ConstraintOneOf:
		return slices.Contains(c.Options, value)
	default:
		return false
	}
}

func (c Constraint) intParam() int {
	value, err := strconv.Atoi(c.Params["value"])
	if err != nil {
		return 0
	}
	return value
}

var patternCache sync.Map

func compilePattern(expr string) (*regexp.Regexp, error) {
	if cached, ok := patternCache.Load(expr); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	patternCache.Store(expr, re)
	return re, nil
}
