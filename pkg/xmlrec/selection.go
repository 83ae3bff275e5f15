package xmlrec

import (
	"slices"

	"github.com/beevik/etree"
)

// Selection is an immutable, ordered set of matched elements.
//
// The zero value is the no-match sentinel. A Selection is never present but
// empty: queries that match nothing return the zero value.
type Selection struct {
	nodes []*etree.Element
}

func newSelection(nodes []*etree.Element) Selection {
	if len(nodes) == 0 {
		return Selection{}
	}

	return Selection{nodes: nodes}
}

// Matched reports whether the selection holds at least one node.
func (s Selection) Matched() bool { return len(s.nodes) > 0 }

// Len returns the number of matched nodes.
func (s Selection) Len() int { return len(s.nodes) }

// Nodes returns the matched elements in document order. The slice is a copy;
// the elements are live nodes of the document tree.
func (s Selection) Nodes() []*etree.Element { return slices.Clone(s.nodes) }

func (s Selection) first() *etree.Element {
	if len(s.nodes) == 0 {
		return nil
	}

	return s.nodes[0]
}
