package xmlrec

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func Test_Exists_Reports_Match_When_AttributeEqualsExactly(t *testing.T) {
	t.Parallel()

	doc := openDoc(t, accountsXML)

	tests := []struct {
		attr  string
		value string
		want  bool
	}{
		{attr: "id", value: "3", want: true},
		{attr: "id", value: "8", want: false},
		{attr: "email", value: "ann@example.com", want: true},
		{attr: "email", value: "ANN@example.com", want: false},
		{attr: "email", value: "ann@example.co", want: false},
		{attr: "role", value: "admin", want: true},
		{attr: "ID", value: "1", want: false},
	}

	for _, tt := range tests {
		got := doc.Exists(tt.attr, tt.value)
		if got != tt.want {
			t.Errorf("Exists(%q, %q)=%v, want=%v", tt.attr, tt.value, got, tt.want)
		}

		sel := doc.SelectByAttribute(tt.attr, tt.value)
		if sel.Matched() != got {
			t.Errorf("SelectByAttribute(%q, %q).Matched()=%v, Exists=%v", tt.attr, tt.value, sel.Matched(), got)
		}
	}
}

func Test_SelectByTextOrTag_Matches_Text_When_TextEquals(t *testing.T) {
	t.Parallel()

	doc := openDoc(t, accountsXML)

	sel := doc.SelectByTextOrTag("Bob")
	if sel.Len() != 1 {
		t.Fatalf("len=%d, want=1", sel.Len())
	}

	if got := sel.Nodes()[0].SelectAttrValue("id", ""); got != "2" {
		t.Fatalf("id=%q, want=2", got)
	}

	// CDATA counts as text.
	if !doc.Exists("Admin account") {
		t.Fatal("Exists(\"Admin account\")=false, want=true")
	}
}

func Test_SelectByTextOrTag_FallsBack_To_Tag_When_NoTextMatches(t *testing.T) {
	t.Parallel()

	doc := openDoc(t, accountsXML)

	sel := doc.Select("account")
	if sel.Len() != 7 {
		t.Fatalf("len=%d, want=7", sel.Len())
	}

	for i, node := range sel.Nodes() {
		if got, want := node.SelectAttrValue("id", ""), string(rune('1'+i)); got != want {
			t.Fatalf("node %d id=%q, want=%q (document order)", i, got, want)
		}
	}

	// The root element is matched by its own tag.
	if got := doc.Select("accounts").Len(); got != 1 {
		t.Fatalf("root len=%d, want=1", got)
	}

	// Exists never falls back to tags.
	if doc.Exists("account") {
		t.Fatal("Exists(\"account\")=true, want=false")
	}
}

func Test_Select_Returns_NoMatch_When_NothingMatches(t *testing.T) {
	t.Parallel()

	doc := openDoc(t, accountsXML)

	for _, sel := range []Selection{
		doc.Select("nobody"),
		doc.Select("id", "99"),
		doc.Select(),
		doc.Select("a", "b", "c"),
	} {
		if sel.Matched() || sel.Len() != 0 {
			t.Fatalf("Matched=%v Len=%d, want no-match", sel.Matched(), sel.Len())
		}
	}

	if doc.Exists() {
		t.Fatal("Exists()=true, want=false")
	}
}

func Test_SelectByAttribute_Logs_Warning_When_ValueBreaksExpression(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)

	doc, err := Open(writeDoc(t, "doc.xml", accountsXML), Options{Logger: zap.New(core)})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	sel := doc.SelectByAttribute("email", `ann"@example.com`)
	if sel.Matched() {
		t.Fatal("Matched=true, want=false")
	}

	if got := logs.FilterMessage("invalid query").Len(); got != 1 {
		t.Fatalf("invalid query warnings=%d, want=1", got)
	}
}

func Test_Query_Reuses_CompiledExpression_When_Repeated(t *testing.T) {
	t.Parallel()

	doc := openDoc(t, accountsXML)

	doc.SelectByAttribute("id", "1")
	doc.SelectByAttribute("id", "1")
	doc.SelectByAttribute("id", "2")

	if got := len(doc.exprs); got != 2 {
		t.Fatalf("cached expressions=%d, want=2", got)
	}
}
