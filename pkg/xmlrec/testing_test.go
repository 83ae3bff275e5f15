package xmlrec

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/davecgh/go-spew/spew"
)

const accountsXML = `<?xml version="1.0" encoding="UTF-8"?>
<accounts>
  <account id="1" email="ann@example.com" role="admin"><![CDATA[Admin account]]></account>
  <account id="2" email="bob@example.com" role="user">Bob</account>
  <account id="3" email="cid@example.com" role="user"/>
  <account id="4" email="dee@example.com" role="user"/>
  <account id="5" email="eve@example.com" role="user"/>
  <account id="6" email="fay@example.com" role="user"/>
  <account id="7" email="gus@example.com" role="user"/>
</accounts>
`

const usersXML = `<?xml version="1.0" encoding="UTF-8"?>
<users>
  <user>
    <id>1</id>
    <name>Ann</name>
    <email>ann@example.com</email>
  </user>
  <user>
    <id>2</id>
    <name><![CDATA[Bob]]></name>
    <email>bob@example.com</email>
  </user>
</users>
`

// writeDoc writes content to name inside a fresh temp dir and returns the path.
func writeDoc(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)

	err := os.WriteFile(path, []byte(content), 0o644)
	if err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	return path
}

func openDoc(t *testing.T, content string) *Document {
	t.Helper()

	doc, err := Open(writeDoc(t, "doc.xml", content), Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	return doc
}

// reopen loads the document's file again with default options.
func reopen(t *testing.T, doc *Document) *Document {
	t.Helper()

	fresh, err := Open(doc.Path(), Options{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	return fresh
}

// parseSaved reads path with an independent XML parser.
func parseSaved(t *testing.T, path string) (*xmlquery.Node, []byte) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved: %v", err)
	}

	node, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("saved document is not well-formed: %v\n%s", err, data)
	}

	return node, data
}

func mustRecord(t *testing.T, r Result) Record {
	t.Helper()

	rec, ok := r.Record()
	if !ok {
		t.Fatalf("result kind=%s, want=one\n%s", r.Kind(), spew.Sdump(r.Records()))
	}

	return rec
}

func idsOf(records []Record) []string {
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		id, _ := rec.Get("id")
		ids = append(ids, id)
	}

	return ids
}
