package xmlrec

// Cursor chains a selection and an extraction result over one document:
//
//	ids, ok := doc.Cursor().Pick("account").Fetch("id").SortBy("id", false).ToArray()
//
// A cursor holds exactly one live selection and one live result. Pick
// replaces both. Cursors are independent of each other and of the
// [Selection] values returned by [Document.Select].
type Cursor struct {
	doc    *Document
	sel    Selection
	result Result
}

// Cursor returns an empty cursor over d.
func (d *Document) Cursor() *Cursor {
	return &Cursor{doc: d}
}

// Pick selects like [Document.Select] and discards the previous result.
func (c *Cursor) Pick(selector ...string) *Cursor {
	c.sel = c.doc.Select(selector...)
	c.result = Result{}

	return c
}

// Fetch extracts the selection. With a non-empty field it extracts only
// that field.
func (c *Cursor) Fetch(field ...string) *Cursor {
	if len(field) == 0 || field[0] == "" {
		c.result = c.doc.Fetch(c.sel)

		return c
	}

	c.result = c.doc.FetchField(c.sel, field[0])

	return c
}

// SortBy orders a Many result by field. Other results are left unchanged.
func (c *Cursor) SortBy(field string, desc bool) *Cursor {
	if c.result.kind == Many {
		c.result = Result{kind: Many, records: SortBy(c.result.records, field, desc)}
	}

	return c
}

// ToArray projects the current result, see [ToArray].
func (c *Cursor) ToArray() ([]string, bool) {
	return ToArray(c.result)
}

// HighestValue returns the greatest value of field over the selection, see
// [Document.HighestValue].
func (c *Cursor) HighestValue(field string) (string, bool) {
	return c.doc.HighestValue(c.sel, field)
}

// ChangeData applies changes to the selection, see [Document.ChangeData].
func (c *Cursor) ChangeData(changes ...Change) error {
	return c.doc.ChangeData(c.sel, changes...)
}

// Remove removes the first selected record, see [Document.Remove].
func (c *Cursor) Remove() error {
	return c.doc.Remove(c.sel)
}

// Result returns the current extraction result.
func (c *Cursor) Result() Result { return c.result }

// Selection returns the current selection.
func (c *Cursor) Selection() Selection { return c.sel }
