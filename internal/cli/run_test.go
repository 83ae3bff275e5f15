package cli_test

import (
	"strings"
	"testing"

	"github.com/calvinalkan/xmlrec/internal/cli"
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
  </user>
  <user>
    <id>2</id>
    <name>Bob</name>
  </user>
</users>
`

// newAccountsCLI returns a CLI whose project config points at accounts.xml.
func newAccountsCLI(t *testing.T) *cli.CLI {
	t.Helper()

	c := cli.NewCLI(t)
	c.WriteFile("accounts.xml", accountsXML)
	c.WriteFile(".xmlrec.json", `{"document": "accounts.xml"}`)

	return c
}

func Test_Usage_When_No_Command(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.Run()

	if got, want := exitCode, 0; got != want {
		t.Errorf("exitCode=%d, want=%d", got, want)
	}

	if got, want := stderr, ""; got != want {
		t.Errorf("stderr=%q, want=%q", got, want)
	}

	cli.AssertContains(t, stdout, "Global flags:")
	cli.AssertContains(t, stdout, "Commands:")

	for _, name := range []string{"exists", "get", "max", "set", "add", "rm", "layout", "count", "shell", "print-config"} {
		cli.AssertContains(t, stdout, "  "+name)
	}
}

func Test_Invalid_Global_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.Run("--invalid-flag", "count")

	if got, want := exitCode, 1; got != want {
		t.Errorf("exitCode=%d, want=%d", got, want)
	}

	if got, want := stdout, ""; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}

	cli.AssertContains(t, stderr, "unknown flag")
	cli.AssertContains(t, stderr, "--invalid-flag")
	cli.AssertContains(t, stderr, "Global flags:")
	cli.AssertContains(t, stderr, "--file")
}

func Test_Unknown_Command_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("bogus")

	cli.AssertContains(t, stderr, "error: unknown command: bogus")
	cli.AssertContains(t, stderr, "Commands:")
}

func Test_Command_Help_When_Help_Flag(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("get", "--help")

	cli.AssertContains(t, stdout, "xmlrec get: Print matching records")
	cli.AssertContains(t, stdout, "Usage:\n  xmlrec [global flags] get <selector> [flags]")
	cli.AssertContains(t, stdout, "Command flags:")
	cli.AssertContains(t, stdout, "--field")
	cli.AssertContains(t, stdout, "Selectors:")
}

func Test_Command_Help_Omits_Flags_When_Command_Has_None(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("count", "--help")

	cli.AssertContains(t, stdout, "xmlrec count: Print the number of records")
	cli.AssertNotContains(t, stdout, "Command flags:")
}

func Test_Command_Prints_Error_And_Help_When_Flag_Unknown(t *testing.T) {
	t.Parallel()

	c := newAccountsCLI(t)
	stdout, stderr, exitCode := c.Run("get", "@id=1", "--bogus")

	if got, want := exitCode, 1; got != want {
		t.Errorf("exitCode=%d, want=%d", got, want)
	}

	cli.AssertContains(t, stderr, "unknown flag: --bogus")
	cli.AssertContains(t, stdout, "xmlrec [global flags] get <selector> [flags]")
}

func Test_Command_Fails_When_No_Document_Configured(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("count")

	cli.AssertContains(t, stderr, "no document configured")
}

func Test_Command_Fails_When_Document_Missing(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("--file", "missing.xml", "count")

	cli.AssertContains(t, stderr, "missing.xml")
}

func Test_File_Flag_Overrides_Project_Config_When_Invoked(t *testing.T) {
	t.Parallel()

	c := newAccountsCLI(t)
	c.WriteFile("users.xml", usersXML)

	if got, want := c.MustRun("--file", "users.xml", "count"), "2"; got != want {
		t.Errorf("count=%q, want=%q", got, want)
	}

	if got, want := c.MustRun("count"), "7"; got != want {
		t.Errorf("count=%q, want=%q", got, want)
	}
}

func Test_Verbose_Logs_To_Stderr_When_Flag_Set(t *testing.T) {
	t.Parallel()

	c := newAccountsCLI(t)
	stdout, stderr, exitCode := c.Run("-v", "count")

	if got, want := exitCode, 0; got != want {
		t.Fatalf("exitCode=%d, want=%d (stderr=%s)", got, want, stderr)
	}

	if got, want := strings.TrimSpace(stdout), "7"; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}

	cli.AssertContains(t, stderr, "opened")
	cli.AssertContains(t, stderr, "doc_path")
}
