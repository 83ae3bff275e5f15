package xmlrec

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xpath"
	"github.com/beevik/etree"
	"github.com/klauspost/pgzip"
	"go.uber.org/zap"

	"github.com/calvinalkan/xmlrec/pkg/fs"
)

// Document is an opened record document. It owns the parsed tree, which is
// loaded once by [Open] and never re-read from disk.
type Document struct {
	path   string
	tree   *etree.Document
	layout Layout
	opts   Options
	fs     fs.FS
	log    *zap.Logger
	exprs  map[string]*xpath.Expr
}

// Open reads and parses the document at path.
//
// Whitespace-only text between elements is dropped. Paths ending in ".gz"
// are decompressed on read and compressed again on save.
func Open(path string, opts Options) (*Document, error) {
	opts = opts.withDefaults()

	data, err := opts.FS.ReadFile(path)
	if err != nil {
		return nil, withPath(fmt.Errorf("read: %w", err), path)
	}

	if isGzipPath(path) {
		data, err = gunzip(data)
		if err != nil {
			return nil, withPath(fmt.Errorf("decompress: %w", err), path)
		}
	}

	tree := etree.NewDocument()
	tree.ReadSettings.PreserveCData = true

	err = tree.ReadFromBytes(data)
	if err != nil {
		return nil, withPath(fmt.Errorf("parse: %w", err), path)
	}

	root := tree.Root()
	if root == nil {
		return nil, &Error{Path: path, Err: ErrNoRoot}
	}

	stripWhitespace(root)

	d := &Document{
		path:  path,
		tree:  tree,
		opts:  opts,
		fs:    opts.FS,
		log:   opts.Logger.With(zap.String("doc_path", path)),
		exprs: make(map[string]*xpath.Expr),
	}

	d.Reclassify()

	d.log.Debug("opened",
		zap.String("root", root.FullTag()),
		zap.Stringer("layout", d.layout),
		zap.Int("records", d.TotalItems()),
	)

	return d, nil
}

// Path returns the path the document was opened from.
func (d *Document) Path() string { return d.path }

// Layout returns the stored layout.
func (d *Document) Layout() Layout { return d.layout }

// Classify inspects the first record and returns its layout without storing
// it. Documents without records report [Options.DefaultLayout].
func (d *Document) Classify() Layout {
	layout, ok := classify(d.tree)
	if !ok {
		return d.opts.DefaultLayout
	}

	return layout
}

// Reclassify recomputes the layout and stores it.
func (d *Document) Reclassify() Layout {
	d.layout = d.Classify()

	return d.layout
}

// TotalItems returns the number of records under the document element.
func (d *Document) TotalItems() int {
	return len(d.tree.Root().ChildElements())
}

// Root returns the document element.
func (d *Document) Root() *etree.Element { return d.tree.Root() }

// Save writes the whole document to its path.
//
// The in-memory tree is not rolled back when the write fails; the returned
// error matches [ErrSave].
func (d *Document) Save() error {
	data, err := d.encode()
	if err == nil {
		if d.opts.AtomicSave {
			err = d.fs.WriteFileAtomic(d.path, data, d.opts.Perm)
		} else {
			err = d.fs.WriteFile(d.path, data, d.opts.Perm)
		}
	}

	if err != nil {
		d.log.Warn("save failed", zap.Error(err))

		return &Error{Path: d.path, Err: fmt.Errorf("%w: %w", ErrSave, err)}
	}

	d.log.Debug("saved", zap.Int("bytes", len(data)), zap.Bool("atomic", d.opts.AtomicSave))

	return nil
}

// encode serializes a formatted copy so the live tree never carries
// indentation tokens. Blank leaf values are written as they are.
func (d *Document) encode() ([]byte, error) {
	out := d.tree.Copy()

	ensureDeclaration(out)
	out.IndentWithSettings(&etree.IndentSettings{Spaces: d.opts.Indent, PreserveLeafWhitespace: true})

	data, err := out.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	if isGzipPath(d.path) {
		return gzipBytes(data)
	}

	return data, nil
}

// Attr returns the attribute name of the first selected node.
func (d *Document) Attr(sel Selection, name string) (string, bool) {
	node := sel.first()
	if node == nil {
		return "", false
	}

	attr := node.SelectAttr(name)
	if attr == nil {
		return "", false
	}

	return attr.Value, true
}

// Value returns the text content of the first selected node, or with tag set,
// of the first sibling element of that node tagged tag.
func (d *Document) Value(sel Selection, tag string) (string, bool) {
	node := sel.first()
	if node == nil {
		return "", false
	}

	if tag == "" {
		return textContent(node), true
	}

	parent := node.Parent()
	if parent == nil {
		return "", false
	}

	for _, sib := range parent.ChildElements() {
		if sib.FullTag() == tag {
			return textContent(sib), true
		}
	}

	return "", false
}

// CompareTo reports whether the first selected node's attribute attr equals
// value. When that attribute is absent or empty, it reports whether any
// sibling of the node (the node included) has text content equal to value.
func (d *Document) CompareTo(sel Selection, attr, value string) bool {
	node := sel.first()
	if node == nil {
		return false
	}

	if v := node.SelectAttrValue(attr, ""); v != "" {
		return v == value
	}

	parent := node.Parent()
	if parent == nil {
		return false
	}

	for _, sib := range parent.ChildElements() {
		if textContent(sib) == value {
			return true
		}
	}

	return false
}

func isGzipPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}

func gunzip(data []byte) ([]byte, error) {
	zr, err := pgzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	out, err := io.ReadAll(zr)

	closeErr := zr.Close()
	if err != nil {
		return nil, err
	}

	if closeErr != nil {
		return nil, closeErr
	}

	return out, nil
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	zw := pgzip.NewWriter(&buf)

	_, err := zw.Write(data)
	if err != nil {
		_ = zw.Close()

		return nil, fmt.Errorf("compress: %w", err)
	}

	err = zw.Close()
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}

	return buf.Bytes(), nil
}
