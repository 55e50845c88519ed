package reports

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Fact is one key/value line in a fact-shaped section.
type Fact struct {
	Key   string
	Value interface{}
}

// Section is one named block of a report document. List-shaped sections
// carry Rows with an explicit column order; fact-shaped sections carry
// ordered Facts. Exactly one of the two is populated.
type Section struct {
	Name    string
	Headers []string
	Rows    []map[string]interface{}
	Facts   []Fact
}

// IsList reports whether the section is list-shaped.
func (s Section) IsList() bool {
	return s.Facts == nil
}

// Document is one report file: a named, ordered collection of sections.
type Document struct {
	Name     string
	Sections []Section
}

// MarshalJSON renders the document as an object keyed by section name,
// preserving section and fact order.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sec := range d.Sections {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sec.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		body, err := sec.marshalBody()
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", sec.Name, err)
		}
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s Section) marshalBody() ([]byte, error) {
	if s.IsList() {
		rows := make([]orderedRow, len(s.Rows))
		for i, r := range s.Rows {
			rows[i] = orderedRow{headers: s.Headers, values: r}
		}
		return json.Marshal(rows)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s.Facts {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// orderedRow marshals a row map in header order.
type orderedRow struct {
	headers []string
	values  map[string]interface{}
}

func (r orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, h := range r.headers {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(h)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.values[h])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
