package marc

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

type jsonDataField struct {
	Ind1      string              `json:"ind1"`
	Ind2      string              `json:"ind2"`
	Subfields []map[string]string `json:"subfields"`
}

// MarshalJSON renders the record in the MARC-in-JSON layout:
// {"leader": "...", "fields": [{"001": "..."}, {"245": {"ind1": ...}}]}.
func (r *Record) MarshalJSON() ([]byte, error) {
	fields := make([]map[string]interface{}, 0, len(r.fields))
	for _, f := range r.fields {
		switch field := f.(type) {
		case *ControlField:
			fields = append(fields, map[string]interface{}{
				field.tag: field.Value,
			})
		case *DataField:
			subfields := make([]map[string]string, len(field.Subfields))
			for i, sf := range field.Subfields {
				subfields[i] = map[string]string{
					string(sf.Code): sf.Value,
				}
			}
			fields = append(fields, map[string]interface{}{
				field.tag: &jsonDataField{
					Ind1:      string(field.Indicator1),
					Ind2:      string(field.Indicator2),
					Subfields: subfields,
				},
			})
		default:
			return nil, errors.Errorf("unknown field type %T", f)
		}
	}

	out := struct {
		Leader string                   `json:"leader"`
		Fields []map[string]interface{} `json:"fields"`
	}{
		r.leader.String(),
		fields,
	}
	return json.Marshal(out)
}

func (r *Record) UnmarshalJSON(b []byte) error {
	if r.frozen {
		return ErrFrozen
	}

	in := &struct {
		Leader string                       `json:"leader"`
		Fields []map[string]json.RawMessage `json:"fields"`
	}{}
	if err := json.Unmarshal(b, in); err != nil {
		return err
	}

	leader, err := ParseLeader(in.Leader)
	if err != nil {
		return err
	}

	fields := make([]Field, 0, len(in.Fields))
	for _, entry := range in.Fields {
		if len(entry) != 1 {
			return errors.Errorf("field object must have exactly one tag, got %d", len(entry))
		}
		for tag, raw := range entry {
			f, err := unmarshalJSONField(tag, raw)
			if err != nil {
				return err
			}
			fields = append(fields, f)
		}
	}

	r.leader = leader
	r.fields = fields
	r.dirty = true
	return nil
}

func unmarshalJSONField(tag string, raw json.RawMessage) (Field, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, err
		}
		return NewControlTags(tag).NewControlField(tag, value)
	}

	var df jsonDataField
	if err := json.Unmarshal(raw, &df); err != nil {
		return nil, errors.Wrapf(err, "error decoding data field %s", tag)
	}
	ind1, err := jsonIndicator(df.Ind1)
	if err != nil {
		return nil, err
	}
	ind2, err := jsonIndicator(df.Ind2)
	if err != nil {
		return nil, err
	}
	subfields := make([]interface{}, 0, len(df.Subfields))
	for i, sf := range df.Subfields {
		if len(sf) != 1 {
			return nil, shapeErrorf(tag, "subfield %d: object must have exactly one code, got %d", i, len(sf))
		}
		for code, value := range sf {
			subfields = append(subfields, [2]string{code, value})
		}
	}
	return NewDataField(tag, ind1, ind2, subfields...)
}

func jsonIndicator(s string) (byte, error) {
	switch len(s) {
	case 0:
		return ' ', nil
	case 1:
		return s[0], nil
	default:
		return 0, errors.Errorf("indicator must be one byte, got %q", s)
	}
}
