package xmlrec

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/beevik/etree"
)

// ContentKind is the storage kind of a character-data payload.
type ContentKind int

const (
	// Text is plain escaped character data.
	Text ContentKind = iota
	// CData is a <![CDATA[...]]> section.
	CData
)

func (k ContentKind) String() string {
	if k == CData {
		return "cdata"
	}

	return "text"
}

// textContent returns the concatenated character data below e, like the DOM
// textContent of an element.
func textContent(e *etree.Element) string {
	var b strings.Builder

	appendText(&b, e)

	return b.String()
}

func appendText(b *strings.Builder, e *etree.Element) {
	for _, tok := range e.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			appendText(b, t)
		}
	}
}

// stripWhitespace removes whitespace-only text tokens from elements below e
// that also contain elements. Whitespace that is an element's only content is
// a value and stays. CDATA sections are kept even when blank.
func stripWhitespace(e *etree.Element) {
	mixed := len(e.ChildElements()) > 0

	for i := len(e.Child) - 1; i >= 0; i-- {
		switch t := e.Child[i].(type) {
		case *etree.CharData:
			if mixed && !t.IsCData() && t.IsWhitespace() {
				e.RemoveChildAt(i)
			}
		case *etree.Element:
			stripWhitespace(t)
		}
	}
}

// fieldAttrs returns e's attributes without namespace declarations.
func fieldAttrs(e *etree.Element) []etree.Attr {
	attrs := make([]etree.Attr, 0, len(e.Attr))

	for _, a := range e.Attr {
		if a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") {
			continue
		}

		attrs = append(attrs, a)
	}

	return attrs
}

// elementsByTag returns every element below (and including) e whose
// qualified tag equals tag, in document order.
func elementsByTag(e *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element

	var walk func(*etree.Element)

	walk = func(el *etree.Element) {
		if el.FullTag() == tag {
			out = append(out, el)
		}

		for _, child := range el.ChildElements() {
			walk(child)
		}
	}

	walk(e)

	return out
}

func newCharData(kind ContentKind, value string) *etree.CharData {
	if kind == CData {
		return etree.NewCData(value)
	}

	return etree.NewText(value)
}

// replaceFirstChild swaps e's first child token for a new char-data token of
// kind, or appends one if e is empty.
func replaceFirstChild(e *etree.Element, kind ContentKind, value string) {
	tok := newCharData(kind, value)

	if len(e.Child) == 0 {
		e.AddChild(tok)

		return
	}

	e.RemoveChildAt(0)
	e.InsertChildAt(0, tok)
}

// replaceKeepingKind replaces e's leading char data with value using the kind
// already stored there. Empty elements get a Text child. Elements whose first
// child is not char data are left untouched.
func replaceKeepingKind(e *etree.Element, value string) {
	if len(e.Child) == 0 {
		e.AddChild(etree.NewText(value))

		return
	}

	cd, ok := e.Child[0].(*etree.CharData)
	if !ok {
		return
	}

	kind := Text
	if cd.IsCData() {
		kind = CData
	}

	replaceFirstChild(e, kind, value)
}

// attached reports whether e is root or below it. Nodes removed from the
// tree lose their parent chain.
func attached(e, root *etree.Element) bool {
	for n := e; n != nil; n = n.Parent() {
		if n == root {
			return true
		}
	}

	return false
}

// isXMLName reports whether name can be used as an element tag and as an
// attribute name and be read back by the decoder documents are parsed with.
// The decoder accepts a leading digit, dot or hyphen, so the first rune is
// checked here.
func isXMLName(name string) bool {
	first, _ := utf8.DecodeRuneInString(name)
	if !unicode.IsLetter(first) && first != '_' && first != ':' {
		return false
	}

	return decodesAsName("<"+name+"/>", name, false) &&
		decodesAsName("<a "+name+`=""/>`, name, true)
}

// decodesAsName decodes doc without namespace translation and checks that it
// holds exactly one empty element whose tag (or single attribute) is name.
func decodesAsName(doc, name string, attr bool) bool {
	dec := xml.NewDecoder(strings.NewReader(doc))

	tok, err := dec.RawToken()
	if err != nil {
		return false
	}

	start, ok := tok.(xml.StartElement)
	if !ok {
		return false
	}

	got := start.Name
	if attr {
		if len(start.Attr) != 1 {
			return false
		}

		got = start.Attr[0].Name
	}

	full := got.Local
	if got.Space != "" {
		full = got.Space + ":" + got.Local
	}

	if full != name {
		return false
	}

	tok, err = dec.RawToken()
	if err != nil {
		return false
	}

	if _, ok := tok.(xml.EndElement); !ok {
		return false
	}

	_, err = dec.RawToken()

	return errors.Is(err, io.EOF)
}

const xmlDeclaration = `version="1.0" encoding="UTF-8"`

// ensureDeclaration makes the XML declaration the first token of doc.
func ensureDeclaration(doc *etree.Document) {
	if len(doc.Child) > 0 {
		if pi, ok := doc.Child[0].(*etree.ProcInst); ok && pi.Target == "xml" {
			return
		}
	}

	pi := doc.CreateProcInst("xml", xmlDeclaration)
	doc.RemoveChildAt(len(doc.Child) - 1)
	doc.InsertChildAt(0, pi)
}
