package xmlrec

import "fmt"

type changeOp int

const (
	opSet changeOp = iota
	opSetContent
	opUnset
)

// Change is one field mutation passed to [Document.ChangeData] and
// [Document.AddNode]. Build it with [Set], [SetContent] or [Unset].
type Change struct {
	op    changeOp
	name  string
	value string
	kind  ContentKind
}

// Set assigns value to the field name. An empty value is stored as an empty
// string; use [Unset] to remove a field.
func Set(name, value string) Change {
	return Change{op: opSet, name: name, value: value}
}

// SetContent replaces the record's character-data payload with a token of
// the given kind.
func SetContent(kind ContentKind, value string) Change {
	return Change{op: opSetContent, value: value, kind: kind}
}

// Unset removes the field name. Only AttributeStyle records support it.
func Unset(name string) Change {
	return Change{op: opUnset, name: name}
}

// SetFields returns one [Set] per field of rec, in order.
func SetFields(rec Record) []Change {
	changes := make([]Change, 0, len(rec))
	for _, e := range rec {
		changes = append(changes, Set(e.Name, e.Value))
	}

	return changes
}

func (c Change) String() string {
	switch c.op {
	case opSet:
		return fmt.Sprintf("set %s=%q", c.name, c.value)
	case opSetContent:
		return fmt.Sprintf("set %s content %q", c.kind, c.value)
	case opUnset:
		return "unset " + c.name
	}

	return "invalid change"
}
