package cli

import (
	"context"
	"fmt"
	"strconv"

	flag "github.com/spf13/pflag"
)

const selectorHelp = `Selectors:
  @name=value   records whose attribute name equals value
  value         elements whose text equals value, else elements tagged value`

// existsCmd returns the exists command.
func existsCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("exists", flag.ContinueOnError),
		Usage: "exists <selector>",
		Short: "Report whether a selector matches",
		Long:  "Print true when the selector matches, false otherwise. Text selectors never fall back to tags.\n\n" + selectorHelp,
		Exec: func(_ context.Context, o *IO, args []string) error {
			sel, err := selectorArg(args)
			if err != nil {
				return err
			}

			doc, err := a.document()
			if err != nil {
				return err
			}

			o.Println(strconv.FormatBool(doc.Exists(sel...)))

			return nil
		},
	}
}

// getCmd returns the get command.
func getCmd(a *app) *Command {
	flags := flag.NewFlagSet("get", flag.ContinueOnError)
	field := flags.StringP("field", "F", "", "Extract only this field")
	sortBy := flags.StringP("sort", "s", "", "Sort records by this field")
	desc := flags.Bool("desc", false, "Sort descending")
	array := flags.BoolP("array", "a", false, "Print single-field results as a plain list")

	return &Command{
		Flags: flags,
		Usage: "get <selector> [flags]",
		Short: "Print matching records",
		Long: "Print the records matched by selector. A single match prints one object, " +
			"several print a list, no match prints false.\n\n" + selectorHelp,
		Exec: func(_ context.Context, o *IO, args []string) error {
			sel, err := selectorArg(args)
			if err != nil {
				return err
			}

			doc, err := a.document()
			if err != nil {
				return err
			}

			cur := doc.Cursor().Pick(sel...).Fetch(*field)
			if *sortBy != "" {
				cur.SortBy(*sortBy, *desc)
			}

			if *array {
				values, ok := cur.ToArray()
				if ok {
					return printValues(o, a.cfg.Format, values)
				}

				o.Warn("result is not a list of single-field records", "printed it unchanged")
			}

			return printResult(o, a.cfg.Format, cur.Result())
		},
	}
}

// maxCmd returns the max command.
func maxCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("max", flag.ContinueOnError),
		Usage: "max <selector> <field>",
		Short: "Print the greatest value of a field",
		Long: "Print the greatest value of field across the matched records. " +
			"Values compare as strings, so 9 is greater than 10.\n\n" + selectorHelp,
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("%w: max takes <selector> <field>", ErrArgCount)
			}

			sel, err := parseSelector(args[0])
			if err != nil {
				return err
			}

			doc, err := a.document()
			if err != nil {
				return err
			}

			value, ok := doc.HighestValue(doc.Select(sel...), args[1])
			if !ok {
				return fmt.Errorf("%w for field %q", ErrNoValue, args[1])
			}

			o.Println(value)

			return nil
		},
	}
}

// layoutCmd returns the layout command.
func layoutCmd(a *app) *Command {
	flags := flag.NewFlagSet("layout", flag.ContinueOnError)
	reclassify := flags.Bool("reclassify", false, "Sample the first record again before printing")

	return &Command{
		Flags: flags,
		Usage: "layout [--reclassify]",
		Short: "Print the record layout (attribute or element)",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			doc, err := a.document()
			if err != nil {
				return err
			}

			layout := doc.Layout()
			if *reclassify {
				layout = doc.Reclassify()
			}

			o.Println(layout.String())

			return nil
		},
	}
}

// countCmd returns the count command.
func countCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("count", flag.ContinueOnError),
		Usage: "count",
		Short: "Print the number of records",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			doc, err := a.document()
			if err != nil {
				return err
			}

			o.Println(doc.TotalItems())

			return nil
		},
	}
}

func selectorArg(args []string) ([]string, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: want one selector, got %d arguments", ErrArgCount, len(args))
	}

	return parseSelector(args[0])
}
