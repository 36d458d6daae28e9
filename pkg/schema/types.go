package schema

// Kind is the simplified enum for contact-form field kinds.
type Kind string

const (
	KindShortText Kind = "short_text"
	KindEmail     Kind = "email"
	KindPhone     Kind = "phone"
	KindChoice    Kind = "choice"
	KindLongText  Kind = "long_text"
)

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindShortText, KindEmail, KindPhone, KindChoice, KindLongText:
		return true
	default:
		return false
	}
}

// InputType returns the HTML input type that best fits the kind.
func (k Kind) InputType() string {
	switch k {
	case KindEmail:
		return "email"
	case KindPhone:
		return "tel"
	case KindChoice:
		return "select"
	case KindLongText:
		return "textarea"
	default:
		return "text"
	}
}

// Field models a single input of the form. Struct fields are annotated so
// renderers and the CLI can serialise them directly.
type Field struct {
	Name        string       `json:"name" yaml:"name"`
	Kind        Kind         `json:"kind" yaml:"kind"`
	Label       string       `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string       `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []string     `json:"options,omitempty" yaml:"options,omitempty"`
	Constraints []Constraint `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

// Schema is the ordered, immutable set of fields a submission must satisfy.
type Schema struct {
	ID     string  `json:"id,omitempty" yaml:"id,omitempty"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Field returns the declaration for name.
func (s Schema) Field(name string) (Field, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Names returns the field names in declaration order.
func (s Schema) Names() []string {
	if len(s.Fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		names = append(names, field.Name)
	}
	return names
}

// Required reports whether an empty value can ever satisfy the field. Any
// minimum length, email, or non-empty constraint makes the field required.
func (f Field) Required() bool {
	for _, c := range f.Constraints {
		switch c.Kind {
		case ConstraintNonEmpty, ConstraintEmail:
			return true
		case ConstraintMinLength:
			if c.intParam() > 0 {
				return true
			}
		}
	}
	return false
}

// MaxLength returns the tightest maxLength bound declared on the field, or 0.
func (f Field) MaxLength() int {
	limit := 0
	for _, c := range f.Constraints {
		if c.Kind != ConstraintMaxLength {
			continue
		}
		if value := c.intParam(); limit == 0 || value < limit {
			limit = value
		}
	}
	return limit
}
