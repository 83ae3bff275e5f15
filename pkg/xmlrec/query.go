package xmlrec

import (
	"github.com/antchfx/xpath"
	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// SelectByAttribute selects every element whose attribute name equals value
// exactly. Neither name nor value is escaped: a value containing a double
// quote yields an invalid expression and therefore no match.
func (d *Document) SelectByAttribute(name, value string) Selection {
	return newSelection(d.query(attributeExpr(name, value)))
}

// SelectByTextOrTag selects every element with a direct text child equal to
// value. When nothing matches, it selects every element tagged value instead,
// in document order.
func (d *Document) SelectByTextOrTag(value string) Selection {
	if nodes := d.query(textExpr(value)); len(nodes) > 0 {
		return newSelection(nodes)
	}

	nodes := elementsByTag(d.tree.Root(), value)

	d.log.Debug("tag fallback", zap.String("tag", value), zap.Int("matches", len(nodes)))

	return newSelection(nodes)
}

// Select dispatches on arity: one argument selects by text or tag, two select
// by attribute name and value. Any other arity selects nothing.
func (d *Document) Select(selector ...string) Selection {
	switch len(selector) {
	case 1:
		return d.SelectByTextOrTag(selector[0])
	case 2:
		return d.SelectByAttribute(selector[0], selector[1])
	}

	return Selection{}
}

// Exists reports whether the selector matches. Unlike [Document.Select] a
// single argument only matches text, never tags.
func (d *Document) Exists(selector ...string) bool {
	switch len(selector) {
	case 1:
		return len(d.query(textExpr(selector[0]))) > 0
	case 2:
		return len(d.query(attributeExpr(selector[0], selector[1]))) > 0
	}

	return false
}

func attributeExpr(name, value string) string {
	return `//*[@` + name + `="` + value + `"]`
}

func textExpr(value string) string {
	return `//*[text()="` + value + `"]`
}

// query evaluates expr and returns the matched elements. Invalid expressions
// are logged and match nothing.
func (d *Document) query(expr string) []*etree.Element {
	compiled, err := d.compile(expr)
	if err != nil {
		d.log.Warn("invalid query", zap.String("expr", expr), zap.Error(err))

		return nil
	}

	var nodes []*etree.Element

	iter := compiled.Select(newNavigator(d.tree))
	for iter.MoveNext() {
		nav, ok := iter.Current().(*navigator)
		if !ok {
			continue
		}

		if el := nav.element(); el != nil {
			nodes = append(nodes, el)
		}
	}

	d.log.Debug("query", zap.String("expr", expr), zap.Int("matches", len(nodes)))

	return nodes
}

func (d *Document) compile(expr string) (*xpath.Expr, error) {
	if compiled, ok := d.exprs[expr]; ok {
		return compiled, nil
	}

	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, err
	}

	d.exprs[expr] = compiled

	return compiled, nil
}
