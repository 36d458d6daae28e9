package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errFieldNameMissing = errors.New("schema builder: field name is required")
	errFieldKindInvalid = errors.New("schema builder: field kind is invalid")
)

// Builder accumulates field declarations and produces an immutable Schema.
type Builder struct {
	id     string
	fields []Field
}

// NewBuilder starts a schema with the given identifier.
func NewBuilder(id string) *Builder {
	return &Builder{id: strings.TrimSpace(id)}
}

// Field appends a field declaration. Constraints are kept in the order given.
func (b *Builder) Field(name string, kind Kind, constraints ...Constraint) *Builder {
	b.fields = append(b.fields, Field{
		Name:        strings.TrimSpace(name),
		Kind:        kind,
		Constraints: append([]Constraint(nil), constraints...),
	})
	return b
}

// Describe sets presentation metadata on the most recently added field.
func (b *Builder) Describe(label, placeholder string) *Builder {
	if len(b.fields) == 0 {
		return b
	}
	last := &b.fields[len(b.fields)-1]
	last.Label = label
	last.Placeholder = placeholder
	return b
}

// Options sets the choice list on the most recently added field.
func (b *Builder) Options(options ...string) *Builder {
	if len(b.fields) == 0 {
		return b
	}
	last := &b.fields[len(b.fields)-1]
	last.Options = append([]string(nil), options...)
	return b
}

// Build validates the declarations and returns a deep copy as a Schema.
func (b *Builder) Build() (Schema, error) {
	out := Schema{ID: b.id, Fields: make([]Field, 0, len(b.fields))}
	seen := make(map[string]struct{}, len(b.fields))
	for _, field := range b.fields {
		if err := validateField(field); err != nil {
			return Schema{}, err
		}
		if _, dup := seen[field.Name]; dup {
			return Schema{}, fmt.Errorf("schema builder: duplicate field %q", field.Name)
		}
		seen[field.Name] = struct{}{}
		out.Fields = append(out.Fields, cloneField(field))
	}
	return out, nil
}

// MustBuild panics if Build fails. Useful for package-level declarations.
func (b *Builder) MustBuild() Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

func validateField(field Field) error {
	if field.Name == "" {
		return errFieldNameMissing
	}
	if !field.Kind.Valid() {
		return fmt.Errorf("%w: %q on field %q", errFieldKindInvalid, field.Kind, field.Name)
	}
	for _, c := range field.Constraints {
		if strings.TrimSpace(c.Message) == "" {
			return fmt.Errorf("schema builder: field %q constraint %q needs a message", field.Name, c.Kind)
		}
		switch c.Kind {
		case ConstraintMinLength, ConstraintMaxLength:
			if _, ok := c.Params["value"]; !ok {
				return fmt.Errorf("schema builder: field %q constraint %q needs a value", field.Name, c.Kind)
			}
		case ConstraintPattern:
			if _, err := compilePattern(c.Params["pattern"]); err != nil {
				return fmt.Errorf("schema builder: field %q pattern: %w", field.Name, err)
			}
		case ConstraintOneOf:
			if len(c.Options) == 0 {
				return fmt.Errorf("schema builder: field %q oneOf has no options", field.Name)
			}
		case ConstraintEmail, ConstraintNonEmpty:
		default:
			return fmt.Errorf("schema builder: field %q has unknown constraint %q", field.Name, c.Kind)
		}
	}
	return nil
}

func cloneField(field Field) Field {
	out := field
	out.Options = append([]string(nil), field.Options...)
	if len(field.Constraints) > 0 {
		out.Constraints = make([]Constraint, len(field.Constraints))
		for i, c := range field.Constraints {
			out.Constraints[i] = cloneConstraint(c)
		}
	}
	return out
}

func cloneConstraint(c Constraint) Constraint {
	out := c
	if c.Params != nil {
		out.Params = make(map[string]string, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = v
		}
	}
	out.Options = append([]string(nil), c.Options...)
	return out
}
