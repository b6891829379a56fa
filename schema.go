package canopy

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AttributeKind distinguishes numeric from categorical attributes.
type AttributeKind int

const (
	Numeric AttributeKind = iota
	Categorical
)

func (k AttributeKind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return fmt.Sprintf("AttributeKind(%d)", int(k))
	}
}

// Attribute describes one column of a Record.
type Attribute struct {
	Name string
	Kind AttributeKind
	// Values is the fixed domain of a categorical attribute. A categorical
	// value in a Record is the index into Values.
	Values []string
}

// NumericAttribute returns a numeric attribute with the given name.
func NumericAttribute(name string) Attribute {
	return Attribute{Name: name, Kind: Numeric}
}

// CategoricalAttribute returns a categorical attribute over the given domain.
func CategoricalAttribute(name string, values ...string) Attribute {
	return Attribute{Name: name, Kind: Categorical, Values: values}
}

// IsNumeric reports whether the attribute is numeric.
func (a Attribute) IsNumeric() bool { return a.Kind == Numeric }

// IsCategorical reports whether the attribute is categorical.
func (a Attribute) IsCategorical() bool { return a.Kind == Categorical }

// Schema is the ordered set of attributes shared by every Record given to a
// Clusterer.
type Schema struct {
	Attributes []Attribute
}

// NewSchema validates attrs and returns a Schema over them.
func NewSchema(attrs ...Attribute) (*Schema, error) {
	if len(attrs) == 0 {
		return nil, fmt.Errorf("canopy: schema needs at least one attribute")
	}
	for i, a := range attrs {
		switch a.Kind {
		case Numeric:
		case Categorical:
			if len(a.Values) == 0 {
				return nil, fmt.Errorf("canopy: categorical attribute %d (%q) has an empty domain", i, a.Name)
			}
		default:
			return nil, fmt.Errorf("canopy: attribute %d (%q) has unknown kind %d", i, a.Name, int(a.Kind))
		}
	}
	return &Schema{Attributes: attrs}, nil
}

// NumAttributes returns the number of attributes.
func (s *Schema) NumAttributes() int { return len(s.Attributes) }

// Record is one row of attribute values. Numeric attributes hold their value,
// categorical attributes hold the index of their category. NaN marks a
// missing value.
type Record []float64

// Missing returns the value used to mark a missing attribute.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether v marks a missing attribute.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// Clone returns a copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	copy(out, r)
	return out
}

// HasMissing reports whether any attribute of r is missing.
func (r Record) HasMissing() bool {
	for _, v := range r {
		if IsMissing(v) {
			return true
		}
	}
	return false
}

// Validate checks that r matches the schema: correct width, no infinities,
// and categorical values that index into their domain.
func (s *Schema) Validate(r Record) error {
	if len(r) != len(s.Attributes) {
		return &SchemaMismatchError{Expected: len(s.Attributes), Actual: len(r)}
	}
	for i, v := range r {
		if IsMissing(v) {
			continue
		}
		if math.IsInf(v, 0) {
			return fmt.Errorf("canopy: attribute %d (%q) is infinite", i, s.Attributes[i].Name)
		}
		a := s.Attributes[i]
		if a.IsCategorical() {
			if v != math.Trunc(v) || v < 0 || int(v) >= len(a.Values) {
				return fmt.Errorf("%w: attribute %d (%q) has value %v, domain size %d",
					ErrUnknownCategory, i, a.Name, v, len(a.Values))
			}
		}
	}
	return nil
}

// Parse converts textual fields into a Record. "?" and the empty string are
// missing; categorical fields are matched against the attribute domain by
// name.
func (s *Schema) Parse(fields []string) (Record, error) {
	if len(fields) != len(s.Attributes) {
		return nil, &SchemaMismatchError{Expected: len(s.Attributes), Actual: len(fields)}
	}
	r := make(Record, len(fields))
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" || f == "?" {
			r[i] = Missing()
			continue
		}
		a := s.Attributes[i]
		if a.IsNumeric() {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("canopy: attribute %d (%q): %w", i, a.Name, err)
			}
			r[i] = v
			continue
		}
		idx := -1
		for j, name := range a.Values {
			if name == f {
				idx = j
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: attribute %d (%q) has no category %q", ErrUnknownCategory, i, a.Name, f)
		}
		r[i] = float64(idx)
	}
	return r, nil
}

// Format renders r as comma-separated values. Numbers are rounded to six
// decimal places, categories are printed by name and missing values as "?".
func (s *Schema) Format(r Record) string {
	var sb strings.Builder
	for i, v := range r {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(s.formatValue(i, v))
	}
	return sb.String()
}

func (s *Schema) formatValue(i int, v float64) string {
	if IsMissing(v) {
		return "?"
	}
	if i < len(s.Attributes) && s.Attributes[i].IsCategorical() {
		idx := int(v)
		if idx >= 0 && idx < len(s.Attributes[i].Values) {
			return s.Attributes[i].Values[idx]
		}
	}
	return formatNumber(v)
}

func formatNumber(v float64) string {
	rounded := math.Round(v*1e6) / 1e6
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
