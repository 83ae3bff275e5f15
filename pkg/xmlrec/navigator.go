package xmlrec

import (
	"github.com/antchfx/xpath"
	"github.com/beevik/etree"
)

// navigator implements [xpath.NodeNavigator] over an etree document.
//
// Processing instructions and directives are invisible to queries.
type navigator struct {
	root *etree.Element // the document node itself
	curr etree.Token
	attr int // index into curr's attributes, -1 when on the node
}

var _ xpath.NodeNavigator = (*navigator)(nil)

func newNavigator(doc *etree.Document) *navigator {
	return &navigator{root: &doc.Element, curr: &doc.Element, attr: -1}
}

func (n *navigator) isRoot() bool {
	el, ok := n.curr.(*etree.Element)

	return ok && el == n.root
}

func (n *navigator) NodeType() xpath.NodeType {
	if n.attr != -1 {
		return xpath.AttributeNode
	}

	switch n.curr.(type) {
	case *etree.Element:
		if n.isRoot() {
			return xpath.RootNode
		}

		return xpath.ElementNode
	case *etree.CharData:
		return xpath.TextNode
	case *etree.Comment:
		return xpath.CommentNode
	}

	return xpath.TextNode
}

func (n *navigator) LocalName() string {
	el, ok := n.curr.(*etree.Element)
	if !ok || n.isRoot() {
		return ""
	}

	if n.attr != -1 {
		return el.Attr[n.attr].Key
	}

	return el.Tag
}

func (n *navigator) Prefix() string {
	el, ok := n.curr.(*etree.Element)
	if !ok || n.isRoot() {
		return ""
	}

	if n.attr != -1 {
		return el.Attr[n.attr].Space
	}

	return el.Space
}

func (n *navigator) Value() string {
	switch tok := n.curr.(type) {
	case *etree.Element:
		if n.attr != -1 {
			return tok.Attr[n.attr].Value
		}

		return textContent(tok)
	case *etree.CharData:
		return tok.Data
	case *etree.Comment:
		return tok.Data
	}

	return ""
}

func (n *navigator) Copy() xpath.NodeNavigator {
	dup := *n

	return &dup
}

func (n *navigator) MoveToRoot() {
	n.curr = n.root
	n.attr = -1
}

func (n *navigator) MoveToParent() bool {
	if n.attr != -1 {
		n.attr = -1

		return true
	}

	if n.isRoot() {
		return false
	}

	parent := n.curr.Parent()
	if parent == nil {
		return false
	}

	n.curr = parent

	return true
}

func (n *navigator) MoveToNextAttribute() bool {
	el, ok := n.curr.(*etree.Element)
	if !ok || n.isRoot() {
		return false
	}

	if n.attr+1 >= len(el.Attr) {
		return false
	}

	n.attr++

	return true
}

func (n *navigator) MoveToChild() bool {
	if n.attr != -1 {
		return false
	}

	el, ok := n.curr.(*etree.Element)
	if !ok {
		return false
	}

	for _, tok := range el.Child {
		if visible(tok) {
			n.curr = tok

			return true
		}
	}

	return false
}

func (n *navigator) MoveToFirst() bool {
	if n.attr != -1 || n.isRoot() {
		return false
	}

	parent := n.curr.Parent()
	if parent == nil {
		return false
	}

	for _, tok := range parent.Child {
		if visible(tok) {
			n.curr = tok

			return true
		}
	}

	return false
}

func (n *navigator) MoveToNext() bool {
	if n.attr != -1 || n.isRoot() {
		return false
	}

	parent := n.curr.Parent()
	if parent == nil {
		return false
	}

	for i := childIndex(parent, n.curr) + 1; i < len(parent.Child); i++ {
		if visible(parent.Child[i]) {
			n.curr = parent.Child[i]

			return true
		}
	}

	return false
}

func (n *navigator) MoveToPrevious() bool {
	if n.attr != -1 || n.isRoot() {
		return false
	}

	parent := n.curr.Parent()
	if parent == nil {
		return false
	}

	for i := childIndex(parent, n.curr) - 1; i >= 0; i-- {
		if visible(parent.Child[i]) {
			n.curr = parent.Child[i]

			return true
		}
	}

	return false
}

func (n *navigator) MoveTo(other xpath.NodeNavigator) bool {
	o, ok := other.(*navigator)
	if !ok || o.root != n.root {
		return false
	}

	*n = *o

	return true
}

// element returns the element the navigator is positioned on, or nil for
// attributes, text, comments and the document node.
func (n *navigator) element() *etree.Element {
	if n.attr != -1 || n.isRoot() {
		return nil
	}

	el, _ := n.curr.(*etree.Element)

	return el
}

func visible(tok etree.Token) bool {
	switch tok.(type) {
	case *etree.Element, *etree.CharData, *etree.Comment:
		return true
	}

	return false
}

// childIndex returns the position of tok in parent.Child.
func childIndex(parent *etree.Element, tok etree.Token) int {
	if i := tok.Index(); i >= 0 && i < len(parent.Child) && parent.Child[i] == tok {
		return i
	}

	for i, c := range parent.Child {
		if c == tok {
			return i
		}
	}

	return -1
}
