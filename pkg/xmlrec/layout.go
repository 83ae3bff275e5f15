package xmlrec

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Layout is the document-wide convention mapping record fields onto the tree.
type Layout int

const (
	// AttributeStyle records are single elements with fields as attributes
	// and an optional text/CDATA payload.
	AttributeStyle Layout = iota
	// ElementStyle records are wrapper elements whose children are fields.
	ElementStyle
)

func (l Layout) String() string {
	switch l {
	case AttributeStyle:
		return "attribute"
	case ElementStyle:
		return "element"
	}

	return fmt.Sprintf("Layout(%d)", int(l))
}

// ParseLayout parses the names produced by [Layout.String].
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "attribute", "attr":
		return AttributeStyle, nil
	case "element", "elem":
		return ElementStyle, nil
	}

	return 0, fmt.Errorf("invalid layout %q (want attribute|element)", s)
}

// classify samples the first child of the root element. It reports false
// when the root has no children to sample.
//
// Only that one node is inspected: a first record that atypically lacks
// attributes classifies the whole document as ElementStyle.
func classify(doc *etree.Document) (Layout, bool) {
	root := doc.Root()
	if root == nil || len(root.Child) == 0 {
		return 0, false
	}

	if el, ok := root.Child[0].(*etree.Element); ok && len(fieldAttrs(el)) > 0 {
		return AttributeStyle, true
	}

	return ElementStyle, true
}
