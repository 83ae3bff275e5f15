package xmlrec

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SortBy returns a copy of records ordered by the lowercased value of field.
// Records missing field sort as the empty string. Order among equal keys is
// unspecified.
func SortBy(records []Record, field string, desc bool) []Record {
	// A Caser holds state and must not be shared across goroutines.
	fold := cases.Lower(language.Und)

	type keyed struct {
		key string
		rec Record
	}

	items := make([]keyed, len(records))
	for i, rec := range records {
		v, _ := rec.Get(field)
		items[i] = keyed{key: fold.String(v), rec: rec}
	}

	slices.SortFunc(items, func(a, b keyed) int {
		if desc {
			return strings.Compare(b.key, a.key)
		}

		return strings.Compare(a.key, b.key)
	})

	out := make([]Record, len(items))
	for i, it := range items {
		out[i] = it.rec
	}

	return out
}
