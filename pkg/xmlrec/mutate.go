package xmlrec

import (
	"fmt"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// ChangeData applies changes to the selection and saves the document.
//
// AttributeStyle records carrying attributes get every change applied to
// every selected node. Under AttributeStyle without attributes, [Set] rewrites
// every element in the document tagged with the field name. Under
// ElementStyle, [Set] rewrites the sibling fields of the first selected node,
// appending the field if no element in the document uses that tag yet.
//
// [Unset] is only supported for AttributeStyle records with attributes.
// Changes are validated before the tree is touched. Nodes removed from the
// document since sel was taken are skipped.
func (d *Document) ChangeData(sel Selection, changes ...Change) error {
	sel, err := d.live(sel)
	if err != nil {
		return err
	}

	err = validateNames(changes)
	if err != nil {
		return withPath(err, d.path)
	}

	first := sel.first()
	attributed := d.layout == AttributeStyle && len(fieldAttrs(first)) > 0

	if !attributed {
		err = rejectUnset(d.layout, changes)
		if err != nil {
			return withPath(err, d.path)
		}
	}

	switch {
	case attributed:
		for _, node := range sel.nodes {
			for _, c := range changes {
				applyAttributeChange(node, c)
			}
		}
	case d.layout == AttributeStyle:
		for _, c := range changes {
			switch c.op {
			case opSet:
				for _, el := range elementsByTag(d.tree.Root(), c.name) {
					replaceKeepingKind(el, c.value)
				}
			case opSetContent:
				for _, node := range sel.nodes {
					replaceFirstChild(node, c.kind, c.value)
				}
			}
		}
	default:
		d.changeFields(first, changes)
	}

	d.log.Debug("change data",
		zap.Int("nodes", sel.Len()),
		zap.Int("changes", len(changes)),
		zap.Stringer("layout", d.layout),
	)

	return d.Save()
}

func applyAttributeChange(node *etree.Element, c Change) {
	switch c.op {
	case opSet:
		node.CreateAttr(c.name, c.value)
	case opSetContent:
		replaceFirstChild(node, c.kind, c.value)
	case opUnset:
		node.RemoveAttr(c.name)
	}
}

// changeFields rewrites the ElementStyle fields around node.
func (d *Document) changeFields(node *etree.Element, changes []Change) {
	wrapper := node.Parent()

	for _, c := range changes {
		switch c.op {
		case opSet:
			if len(elementsByTag(d.tree.Root(), c.name)) == 0 {
				wrapper.CreateElement(c.name).SetText(c.value)

				d.log.Debug("field added", zap.String("field", c.name))

				continue
			}

			for _, sib := range wrapper.ChildElements() {
				if sib.FullTag() == c.name {
					replaceKeepingKind(sib, c.value)
				}
			}
		case opSetContent:
			replaceFirstChild(node, c.kind, c.value)
		}
	}
}

// live restricts sel to the nodes still attached to the document. It returns
// ErrNoMatch when nothing is left.
func (d *Document) live(sel Selection) (Selection, error) {
	if !sel.Matched() {
		return Selection{}, &Error{Path: d.path, Err: ErrNoMatch}
	}

	root := d.tree.Root()
	nodes := make([]*etree.Element, 0, sel.Len())

	for _, node := range sel.nodes {
		if attached(node, root) {
			nodes = append(nodes, node)
		}
	}

	if len(nodes) == 0 {
		return Selection{}, &Error{Path: d.path, Err: fmt.Errorf("%w: selected nodes were removed", ErrNoMatch)}
	}

	return newSelection(nodes), nil
}

// validateNames rejects field names that would not survive a save and reload.
func validateNames(changes []Change) error {
	for _, c := range changes {
		if c.op == opSetContent {
			continue
		}

		if !isXMLName(c.name) {
			return fmt.Errorf("%w: %q", ErrInvalidName, c.name)
		}
	}

	return nil
}

func rejectUnset(layout Layout, changes []Change) error {
	for _, c := range changes {
		if c.op == opUnset {
			return fmt.Errorf("%w: %s (layout=%s)", ErrUnsupported, c, layout)
		}
	}

	return nil
}

// AddNode appends a new record tagged name under the document element and
// saves the document.
//
// Under AttributeStyle every [Set] becomes an attribute and the first
// non-empty CDATA payload, else the first non-empty text payload, becomes the
// content. Under ElementStyle every [Set] becomes a field element holding
// CDATA when useCData is true and text otherwise.
func (d *Document) AddNode(name string, changes []Change, useCData bool) error {
	if !isXMLName(name) {
		return withPath(fmt.Errorf("%w: %q", ErrInvalidName, name), d.path)
	}

	err := validateNames(changes)
	if err != nil {
		return withPath(err, d.path)
	}

	for _, c := range changes {
		if c.op == opUnset || (d.layout == ElementStyle && c.op == opSetContent) {
			return withPath(fmt.Errorf("%w: %s (layout=%s)", ErrUnsupported, c, d.layout), d.path)
		}
	}

	rec := etree.NewElement(name)

	if d.layout == AttributeStyle {
		for _, c := range changes {
			if c.op == opSet {
				rec.CreateAttr(c.name, c.value)
			}
		}

		if content := pickContent(changes); content != nil {
			rec.AddChild(content)
		}
	} else {
		kind := Text
		if useCData {
			kind = CData
		}

		for _, c := range changes {
			rec.CreateElement(c.name).AddChild(newCharData(kind, c.value))
		}
	}

	d.tree.Root().AddChild(rec)

	d.log.Debug("node added", zap.String("tag", name), zap.Stringer("layout", d.layout))

	return d.Save()
}

func pickContent(changes []Change) *etree.CharData {
	for _, kind := range []ContentKind{CData, Text} {
		for _, c := range changes {
			if c.op == opSetContent && c.kind == kind && c.value != "" {
				return newCharData(kind, c.value)
			}
		}
	}

	return nil
}

// Remove detaches the first selected record and saves the document.
//
// Under ElementStyle the selected node is a field, so its wrapper is removed.
// A node directly under the document element is already a record and is
// removed itself. The document element cannot be removed.
func (d *Document) Remove(sel Selection) error {
	sel, err := d.live(sel)
	if err != nil {
		return err
	}

	root := d.tree.Root()
	node := sel.first()

	if node == root {
		return &Error{Path: d.path, Err: fmt.Errorf("%w: remove document element", ErrUnsupported)}
	}

	target := node
	if d.layout == ElementStyle {
		if parent := node.Parent(); parent != nil && parent != root {
			target = parent
		}
	}

	target.Parent().RemoveChild(target)

	d.log.Debug("node removed", zap.String("tag", target.FullTag()))

	return d.Save()
}

// SetValue replaces the first selected node's leading child with a CDATA
// section holding value and saves the document.
func (d *Document) SetValue(sel Selection, value string) error {
	return d.setContent(sel, CData, value)
}

// SetTextValue is [Document.SetValue] with plain text.
func (d *Document) SetTextValue(sel Selection, value string) error {
	return d.setContent(sel, Text, value)
}

func (d *Document) setContent(sel Selection, kind ContentKind, value string) error {
	sel, err := d.live(sel)
	if err != nil {
		return err
	}

	replaceFirstChild(sel.first(), kind, value)

	return d.Save()
}
