package xmlrec

import "slices"

// ToArray projects a Many result of single-field records onto the ordered
// field values. Any other result is not projectable and reports false;
// callers keep using r as-is.
func ToArray(r Result) ([]string, bool) {
	if r.kind != Many || len(r.records) == 0 || len(r.records[0]) != 1 {
		return nil, false
	}

	values := make([]string, 0, len(r.records))

	for _, rec := range r.records {
		if len(rec) == 0 {
			values = append(values, "")

			continue
		}

		values = append(values, rec[0].Value)
	}

	return values, true
}

// HighestValue returns the byte-wise greatest value of field over the
// selection. Numeric-looking values are still compared as strings, so "9"
// beats "10".
func (d *Document) HighestValue(sel Selection, field string) (string, bool) {
	if !sel.Matched() || field == "" {
		return "", false
	}

	r := d.FetchField(sel, field)

	if values, ok := ToArray(r); ok {
		return slices.Max(values), true
	}

	if rec, ok := r.Record(); ok && len(rec) > 0 {
		return slices.Max(rec.Values()), true
	}

	return "", false
}
