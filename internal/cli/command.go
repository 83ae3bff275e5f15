package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command is one xmlrec subcommand. The same values back the top-level
// command listing, "xmlrec <command> --help" and the shell, which builds a
// fresh set per input line.
type Command struct {
	// Flags holds the command's own flags. Global flags such as --file are
	// parsed by Run before the command is looked up.
	Flags *flag.FlagSet

	// Usage is the command name followed by its arguments, for example
	// "set <selector> [name=value...] [flags]". The first word is the name.
	Usage string

	// Short is shown next to the command in the listing.
	Short string

	// Long is printed under the usage line in command help, falling back to
	// Short. Query commands append the selector syntax here.
	Long string

	// Exec receives the positional arguments left after flag parsing.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name is the word used on the command line and in the shell.
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")

	return name
}

// HelpLine formats the command for the "Commands:" listing.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-34s %s", c.Usage, c.Short)
}

// PrintHelp writes the command's help page to stdout.
func (c *Command) PrintHelp(o *IO) {
	o.Printf("xmlrec %s: %s\n", c.Name(), c.Short)
	o.Println()
	o.Println("Usage:")
	o.Println("  xmlrec [global flags]", c.Usage)

	if c.Long != "" {
		o.Println()
		o.Println(c.Long)
	}

	if c.Flags == nil || !c.Flags.HasFlags() {
		return
	}

	var buf strings.Builder

	c.Flags.SetOutput(&buf)
	c.Flags.PrintDefaults()

	o.Println()
	o.Println("Command flags:")
	o.Printf("%s", buf.String())
}

// Run parses args into the command's flags and calls Exec, returning the
// process exit code. A flag error is followed by the help page.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	c.Flags.SetOutput(&strings.Builder{})

	err := c.Flags.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		c.PrintHelp(o)

		return 0
	}

	if err != nil {
		o.ErrPrintln(o.ErrorPrefix(), err)
		o.ErrPrintln()
		c.PrintHelp(o)

		return 1
	}

	err = c.Exec(ctx, o, c.Flags.Args())
	if err != nil {
		o.ErrPrintln(o.ErrorPrefix(), err)

		return 1
	}

	// Warnings printed by Exec turn a successful run into exit code 1.
	return o.Finish()
}
