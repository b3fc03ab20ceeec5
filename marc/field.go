package marc

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type Kind int

const (
	KindControl Kind = iota + 1
	KindData
)

func (k Kind) String() string {
	switch k {
	case KindControl:
		return "control"
	case KindData:
		return "data"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field is either a *ControlField or a *DataField. The set of
// implementations is closed; callers switch on the concrete type.
type Field interface {
	Tag() string
	Kind() Kind
	Equals(other Field) bool
	String() string

	isField()
}

type Subfield struct {
	Code  byte
	Value string
}

func (s Subfield) String() string {
	return fmt.Sprintf("$%c%s", s.Code, s.Value)
}

type ControlField struct {
	tag   string
	Value string
}

var _ Field = (*ControlField)(nil)

func (c *ControlField) Tag() string {
	return c.tag
}

func (c *ControlField) Kind() Kind {
	return KindControl
}

func (c *ControlField) Equals(other Field) bool {
	cast, ok := other.(*ControlField)
	if !ok {
		return false
	}
	return c.tag == cast.tag && c.Value == cast.Value
}

func (c *ControlField) String() string {
	return fmt.Sprintf("%s %s", c.tag, c.Value)
}

func (c *ControlField) isField() {}

type DataField struct {
	tag        string
	Indicator1 byte
	Indicator2 byte
	Subfields  []Subfield
}

var _ Field = (*DataField)(nil)

func (d *DataField) Tag() string {
	return d.tag
}

func (d *DataField) Kind() Kind {
	return KindData
}

// Get returns the value of the first subfield with the given code. Later
// subfields sharing the code are only reachable through Values.
func (d *DataField) Get(code byte) (string, bool) {
	for _, sf := range d.Subfields {
		if sf.Code == code {
			return sf.Value, true
		}
	}
	return "", false
}

func (d *DataField) Values(code byte) []string {
	var out []string
	for _, sf := range d.Subfields {
		if sf.Code == code {
			out = append(out, sf.Value)
		}
	}
	return out
}

func (d *DataField) Codes() []byte {
	out := make([]byte, len(d.Subfields))
	for i, sf := range d.Subfields {
		out[i] = sf.Code
	}
	return out
}

func (d *DataField) Append(subfields ...Subfield) {
	d.Subfields = append(d.Subfields, subfields...)
}

func (d *DataField) Equals(other Field) bool {
	cast, ok := other.(*DataField)
	if !ok {
		return false
	}
	if d.tag != cast.tag ||
		d.Indicator1 != cast.Indicator1 ||
		d.Indicator2 != cast.Indicator2 ||
		len(d.Subfields) != len(cast.Subfields) {
		return false
	}
	for i := range d.Subfields {
		if d.Subfields[i] != cast.Subfields[i] {
			return false
		}
	}
	return true
}

func (d *DataField) String() string {
	var sb strings.Builder
	sb.WriteString(d.tag)
	sb.WriteByte(' ')
	sb.WriteByte(d.Indicator1)
	sb.WriteByte(d.Indicator2)
	sb.WriteByte(' ')
	for _, sf := range d.Subfields {
		sb.WriteString(sf.String())
	}
	return sb.String()
}

func (d *DataField) isField() {}

func toSubfield(item interface{}) (Subfield, error) {
	switch it := item.(type) {
	case Subfield:
		return it, nil
	case *Subfield:
		if it == nil {
			return Subfield{}, errors.New("nil subfield")
		}
		return *it, nil
	case [2]string:
		return pairToSubfield(it[0], it[1])
	case []string:
		if len(it) != 2 {
			return Subfield{}, errors.Errorf("subfield shorthand needs exactly 2 elements, got %d", len(it))
		}
		return pairToSubfield(it[0], it[1])
	default:
		return Subfield{}, errors.Errorf("unrecognized subfield type %T", item)
	}
}

func pairToSubfield(code, value string) (Subfield, error) {
	if len(code) != 1 {
		return Subfield{}, errors.Errorf("subfield code must be one byte, got %q", code)
	}
	return Subfield{
		Code:  code[0],
		Value: value,
	}, nil
}
