package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"
)

const shellPrompt = "xmlrec> "

func shellCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("shell", flag.ContinueOnError),
		Usage: "shell",
		Short: "Run commands interactively against one document",
		Long: "Open the document once and read commands line by line. " +
			"Every command except shell is available; exit or quit leaves the shell.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			if a.inREPL {
				return ErrNestedShell
			}

			doc, err := a.document()
			if err != nil {
				return err
			}

			a.inREPL = true
			defer func() { a.inREPL = false }()

			if isTerminal(a.stdin) {
				o.Printf("xmlrec shell - %s (%s, %d records)\n", doc.Path(), doc.Layout(), doc.TotalItems())
				o.Println("Type 'help' for available commands.")

				return runLiner(ctx, a, o)
			}

			return runScanner(ctx, a, o)
		},
	}
}

func runLiner(ctx context.Context, a *app, o *IO) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(prefix string) []string {
		var out []string

		for _, cmd := range commands(a) {
			if strings.HasPrefix(cmd.Name(), prefix) {
				out = append(out, cmd.Name())
			}
		}

		return out
	})

	for ctx.Err() == nil {
		input, err := line.Prompt(shellPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}

		if execLine(ctx, a, o, input) {
			return nil
		}
	}

	return nil
}

func runScanner(ctx context.Context, a *app, o *IO) error {
	scanner := bufio.NewScanner(a.stdin)
	for ctx.Err() == nil && scanner.Scan() {
		if execLine(ctx, a, o, scanner.Text()) {
			return nil
		}
	}

	err := scanner.Err()
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	return nil
}

// execLine runs one shell line. It reports true when the shell should exit.
func execLine(ctx context.Context, a *app, o *IO, line string) bool {
	args, err := splitArgs(line)
	if err != nil {
		o.ErrPrintln(o.ErrorPrefix(), err)

		return false
	}

	if len(args) == 0 || strings.HasPrefix(args[0], "#") {
		return false
	}

	switch args[0] {
	case "exit", "quit", "q":
		return true
	case "help", "?":
		for _, cmd := range commands(a) {
			o.Println(cmd.HelpLine())
		}

		return false
	}

	cmd := lookup(a, args[0])
	if cmd == nil {
		o.ErrPrintln(o.ErrorPrefix(), fmt.Errorf("%w: %s", ErrUnknownCommand, args[0]))

		return false
	}

	cmd.Run(ctx, o, args[1:])

	return false
}

// splitArgs splits a shell line on whitespace. Single and double quotes
// group words; a backslash outside single quotes escapes the next rune.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)

			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				args = append(args, cur.String())
				cur.Reset()

				inWord = false
			}
		default:
			cur.WriteRune(r)

			inWord = true
		}
	}

	if quote != 0 || escaped {
		return nil, fmt.Errorf("unterminated quote or escape in %q", line)
	}

	if inWord {
		args = append(args, cur.String())
	}

	return args, nil
}
