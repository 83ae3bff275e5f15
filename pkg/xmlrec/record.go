package xmlrec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NodeValueField is the reserved field name carrying a record's own text
// content.
const NodeValueField = "nodeValue"

// Entry is one field of a [Record].
type Entry struct {
	Name  string
	Value string
}

// Record is an ordered field mapping. Names are unique; setting an existing
// name overwrites its value in place.
type Record []Entry

// Set assigns value to name, keeping the position of an existing field.
func (r *Record) Set(name, value string) {
	for i := range *r {
		if (*r)[i].Name == name {
			(*r)[i].Value = value

			return
		}
	}

	*r = append(*r, Entry{Name: name, Value: value})
}

// Get returns the value stored under name.
func (r Record) Get(name string) (string, bool) {
	for _, e := range r {
		if e.Name == name {
			return e.Value, true
		}
	}

	return "", false
}

// Names returns the field names in order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, e := range r {
		names[i] = e.Name
	}

	return names
}

// Values returns the field values in order.
func (r Record) Values() []string {
	values := make([]string, len(r))
	for i, e := range r {
		values[i] = e.Value
	}

	return values
}

// Map returns the record as an unordered map.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r))
	for _, e := range r {
		m[e.Name] = e.Value
	}

	return m
}

// MarshalJSON encodes the record as a JSON object in field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, e := range r {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, fmt.Errorf("marshal field name %q: %w", e.Name, err)
		}

		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", e.Name, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// ResultKind is the cardinality of an extraction [Result].
type ResultKind int

const (
	// NoMatch means the extraction ran on the no-match selection.
	NoMatch ResultKind = iota
	// One means exactly one record was produced and is returned flat.
	One
	// Many means zero-or-several records were produced as a sequence.
	Many
)

func (k ResultKind) String() string {
	switch k {
	case NoMatch:
		return "no-match"
	case One:
		return "one"
	case Many:
		return "many"
	}

	return fmt.Sprintf("ResultKind(%d)", int(k))
}

// Result is the outcome of an extraction, flattened by cardinality.
type Result struct {
	kind    ResultKind
	records []Record
}

// flatten returns One for exactly one record and Many otherwise.
func flatten(records []Record) Result {
	if len(records) == 1 {
		return Result{kind: One, records: records}
	}

	return Result{kind: Many, records: records}
}

// Kind returns the result's cardinality.
func (r Result) Kind() ResultKind { return r.kind }

// IsNoMatch reports whether r is the no-match sentinel.
func (r Result) IsNoMatch() bool { return r.kind == NoMatch }

// Record returns the single record of a One result.
func (r Result) Record() (Record, bool) {
	if r.kind != One {
		return nil, false
	}

	return r.records[0], true
}

// Records returns every record of the result: one element for One, the
// sequence for Many, nil for NoMatch.
func (r Result) Records() []Record {
	if r.kind == NoMatch {
		return nil
	}

	out := make([]Record, len(r.records))
	copy(out, r.records)

	return out
}

// MarshalJSON encodes NoMatch as false, One as an object and Many as an
// array of objects.
func (r Result) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case One:
		return r.records[0].MarshalJSON()
	case Many:
		if r.records == nil {
			return []byte("[]"), nil
		}

		return json.Marshal(r.records)
	}

	return []byte("false"), nil
}
