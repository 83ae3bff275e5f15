package xmlrec

import (
	"os"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/calvinalkan/xmlrec/pkg/fs"
)

// DefaultIndent is the number of spaces used to pretty-print saved documents
// when [Options.Indent] is zero.
const DefaultIndent = 2

// CompactIndent disables pretty-printing when used as [Options.Indent].
const CompactIndent = etree.NoIndent

const defaultPerm os.FileMode = 0o644

// Options configures [Open].
type Options struct {
	// FS is the filesystem used to read and write the document.
	// Defaults to [fs.NewReal].
	FS fs.FS

	// Logger receives debug and warning events. Defaults to [zap.NewNop].
	Logger *zap.Logger

	// Indent is the number of spaces per nesting level on save.
	// Zero means [DefaultIndent]; [CompactIndent] writes no indentation.
	Indent int

	// AtomicSave writes through a temp file and rename instead of
	// truncating the document in place.
	AtomicSave bool

	// DefaultLayout is used when the document has no records to sample.
	DefaultLayout Layout

	// Perm is the permission for documents created by an atomic save.
	// Defaults to 0644.
	Perm os.FileMode
}

func (o Options) withDefaults() Options {
	if o.FS == nil {
		o.FS = fs.NewReal()
	}

	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	if o.Indent == 0 {
		o.Indent = DefaultIndent
	}

	if o.Perm == 0 {
		o.Perm = defaultPerm
	}

	return o
}
