package xmlrec

import (
	"errors"
)

var (
	// ErrNoMatch indicates a mutation was given the no-match selection.
	ErrNoMatch = errors.New("no matching node")

	// ErrSave indicates the document could not be written back to its path.
	// The in-memory tree keeps the mutation that preceded the failed save.
	ErrSave = errors.New("save failed")

	// ErrUnsupported indicates a change the document's layout cannot express,
	// such as removing a field of an ElementStyle record.
	ErrUnsupported = errors.New("unsupported for layout")

	// ErrNoRoot indicates the parsed document has no root element.
	ErrNoRoot = errors.New("document has no root element")

	// ErrInvalidName indicates a tag or field name that is not an XML name.
	// Nothing is written when it is returned.
	ErrInvalidName = errors.New("invalid XML name")
)

// Error is the error type returned by all public xmlrec APIs that fail.
//
// The underlying error message appears first, followed by document context:
//
//	save failed: open /data/accounts.xml: permission denied (doc_path=/data/accounts.xml)
//
// Use [errors.As] to extract the path and [errors.Is] to check sentinels:
//
//	if errors.Is(err, xmlrec.ErrSave) { ... }
type Error struct {
	// Path is the document path as given to [Open].
	Path string

	// Err is the underlying cause.
	Err error
}

// Error formats as "<cause> (doc_path=X)".
func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	cause := ""
	if e.Err != nil {
		cause = e.Err.Error()
	}

	if e.Path == "" {
		return cause
	}

	suffix := "(doc_path=" + e.Path + ")"

	if cause == "" {
		return suffix
	}

	return cause + " " + suffix
}

// Unwrap returns the underlying error for use with [errors.Is] and [errors.As].
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}

// withPath attaches document context at API boundaries and returns *Error.
// If err is already *Error, a missing path is filled in-place.
func withPath(err error, path string) error {
	if err == nil {
		return nil
	}

	existing := &Error{}
	if errors.As(err, &existing) {
		if existing.Path == "" {
			existing.Path = path
		}

		return existing
	}

	return &Error{Path: path, Err: err}
}
