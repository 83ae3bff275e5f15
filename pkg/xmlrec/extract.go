package xmlrec

import "github.com/beevik/etree"

// Fetch projects every selected node into a [Record].
//
// A node with at most one child token is a flat record: under AttributeStyle
// its attributes plus [NodeValueField]; under ElementStyle the fields of its
// parent. A node with more children is a wrapper and yields its child
// elements as fields. The result is flattened by cardinality.
func (d *Document) Fetch(sel Selection) Result {
	if !sel.Matched() {
		return Result{}
	}

	records := make([]Record, 0, sel.Len())
	for _, node := range sel.nodes {
		records = append(records, d.fetchNode(node))
	}

	return flatten(records)
}

func (d *Document) fetchNode(node *etree.Element) Record {
	if len(node.Child) > 1 {
		return childFields(node)
	}

	if d.layout == ElementStyle {
		if parent := node.Parent(); parent != nil {
			return childFields(parent)
		}

		return childFields(node)
	}

	var rec Record

	for _, a := range fieldAttrs(node) {
		rec.Set(a.FullKey(), a.Value)
	}

	rec.Set(NodeValueField, textContent(node))

	return rec
}

// childFields maps each child element's tag to its text content. Repeated
// tags keep the last value.
func childFields(e *etree.Element) Record {
	var rec Record

	for _, c := range e.ChildElements() {
		rec.Set(c.FullTag(), textContent(c))
	}

	return rec
}

// FetchField projects one field of every selected node.
//
// If the first node carries field as an attribute, every node yields that
// attribute (empty when absent). Otherwise each node yields its child element
// tagged field, or its own text content for [NodeValueField]. A node without
// the field yields an empty record.
func (d *Document) FetchField(sel Selection, field string) Result {
	if !sel.Matched() {
		return Result{}
	}

	records := make([]Record, 0, sel.Len())

	if sel.first().SelectAttr(field) != nil {
		for _, node := range sel.nodes {
			records = append(records, Record{{Name: field, Value: node.SelectAttrValue(field, "")}})
		}

		return flatten(records)
	}

	for _, node := range sel.nodes {
		var rec Record

		if field == NodeValueField {
			rec.Set(field, textContent(node))
		} else {
			for _, c := range node.ChildElements() {
				if c.FullTag() == field {
					rec.Set(field, textContent(c))
				}
			}
		}

		records = append(records, rec)
	}

	return flatten(records)
}
