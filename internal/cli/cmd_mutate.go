package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/xmlrec/pkg/xmlrec"
)

func setCmd(a *app) *Command {
	flags := flag.NewFlagSet("set", flag.ContinueOnError)
	unset := flags.StringArrayP("unset", "u", nil, "Remove this attribute (repeatable)")
	content := flags.String("content", "", "Replace the record payload")
	cdata := flags.Bool("cdata", false, "Store --content as CDATA")

	return &Command{
		Flags: flags,
		Usage: "set <selector> [name=value...] [flags]",
		Short: "Change fields of matching records",
		Long: "Set fields on the records matched by selector and save the document. " +
			"Attribute records get every change; element records update sibling fields " +
			"and gain fields the document does not use yet.\n\n" + selectorHelp,
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: set takes <selector> [name=value...]", ErrArgCount)
			}

			sel, err := parseSelector(args[0])
			if err != nil {
				return err
			}

			changes, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}

			for _, name := range *unset {
				changes = append(changes, xmlrec.Unset(name))
			}

			if flags.Changed("content") {
				changes = append(changes, xmlrec.SetContent(a.contentKind(*cdata), *content))
			}

			if len(changes) == 0 {
				return ErrNoChanges
			}

			doc, err := a.document()
			if err != nil {
				return err
			}

			selection := doc.Select(sel...)

			err = doc.ChangeData(selection, changes...)
			if err != nil {
				return err
			}

			o.Printf("updated %d node(s)\n", selection.Len())

			return nil
		},
	}
}

func addCmd(a *app) *Command {
	flags := flag.NewFlagSet("add", flag.ContinueOnError)
	content := flags.String("content", "", "Payload of an attribute record")
	cdata := flags.Bool("cdata", false, "Store payload or element fields as CDATA")

	return &Command{
		Flags: flags,
		Usage: "add <tag> [name=value...] [flags]",
		Short: "Append a record",
		Long: "Append a record tagged tag under the document element and save the document. " +
			"Fields become attributes or child elements depending on the document layout.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 || args[0] == "" {
				return fmt.Errorf("%w: add takes <tag> [name=value...]", ErrArgCount)
			}

			changes, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}

			if *content != "" {
				changes = append(changes, xmlrec.SetContent(a.contentKind(*cdata), *content))
			}

			doc, err := a.document()
			if err != nil {
				return err
			}

			err = doc.AddNode(args[0], changes, *cdata || a.cfg.CData)
			if err != nil {
				return err
			}

			o.Printf("added %s (%d records)\n", args[0], doc.TotalItems())

			return nil
		},
	}
}

func rmCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("rm", flag.ContinueOnError),
		Usage: "rm <selector>",
		Short: "Remove the first matching record",
		Long: "Remove the first record matched by selector and save the document. " +
			"For element records the whole wrapper is removed.\n\n" + selectorHelp,
		Exec: func(_ context.Context, o *IO, args []string) error {
			sel, err := selectorArg(args)
			if err != nil {
				return err
			}

			doc, err := a.document()
			if err != nil {
				return err
			}

			err = doc.Remove(doc.Select(sel...))
			if err != nil {
				return err
			}

			o.Printf("removed (%d records left)\n", doc.TotalItems())

			return nil
		},
	}
}
