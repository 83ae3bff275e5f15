package cli_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/xmlrec/internal/cli"
)

func Test_Shell_Runs_Script_When_Stdin_Not_Terminal(t *testing.T) {
	t.Parallel()

	c := newAccountsCLI(t)
	script := `# comment lines are skipped
count
exists @id=1
set @id=5 "role=power user"
get @id=5 -F role
rm @id=5
count
quit
count
`

	stdout, stderr, exitCode := c.RunWithInput(script, "shell")

	require.Equal(t, 0, exitCode, "stderr=%s", stderr)
	require.Equal(t, "7\ntrue\nupdated 1 node(s)\n{\n  \"role\": \"power user\"\n}\nremoved (6 records left)\n6\n", stdout)
}

func Test_Shell_Continues_When_Command_Fails(t *testing.T) {
	t.Parallel()

	c := newAccountsCLI(t)

	stdout, stderr, exitCode := c.RunWithInput("bogus\nshell\nmax account\nhelp\ncount\n", "shell")

	require.Equal(t, 0, exitCode)
	cli.AssertContains(t, stderr, "unknown command: bogus")
	cli.AssertContains(t, stderr, "shell cannot be started from the shell")
	cli.AssertContains(t, stderr, "wrong number of arguments")
	cli.AssertContains(t, stdout, "print-config")
	cli.AssertContains(t, stdout, "\n7\n")
}

func Test_Shell_Fails_When_No_Document(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	_, stderr, exitCode := c.RunWithInput("count\n", "shell")

	require.Equal(t, 1, exitCode)
	cli.AssertContains(t, stderr, "no document configured")
}
