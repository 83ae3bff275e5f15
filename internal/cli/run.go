package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/xmlrec/internal/config"
)

// commands returns fresh command instances; pflag sets keep parsed values,
// so the shell builds new ones per line.
func commands(a *app) []*Command {
	return []*Command{
		existsCmd(a),
		getCmd(a),
		maxCmd(a),
		setCmd(a),
		addCmd(a),
		rmCmd(a),
		layoutCmd(a),
		countCmd(a),
		shellCmd(a),
		printConfigCmd(a),
	}
}

func lookup(a *app, name string) *Command {
	for _, cmd := range commands(a) {
		if cmd.Name() == name {
			return cmd
		}
	}

	return nil
}

type globalFlags struct {
	set        *flag.FlagSet
	workDir    string
	configPath string
	verbose    bool
	help       bool

	document      string
	format        string
	indent        int
	atomic        bool
	defaultLayout string
	cdata         bool
}

func newGlobalFlags() *globalFlags {
	g := &globalFlags{set: flag.NewFlagSet("xmlrec", flag.ContinueOnError)}

	g.set.SetInterspersed(false)
	g.set.SetOutput(&strings.Builder{})

	g.set.StringVarP(&g.workDir, "cwd", "C", "", "Run as if started in `dir`")
	g.set.StringVarP(&g.configPath, "config", "c", "", "Use specified config `file`")
	g.set.StringVarP(&g.document, "file", "f", "", "XML `document` to operate on")
	g.set.StringVar(&g.format, "format", "", "Output format: json or yaml")
	g.set.IntVar(&g.indent, "indent", 0, "Spaces per level on save, -1 for compact")
	g.set.BoolVar(&g.atomic, "atomic", false, "Save through a temp file and rename")
	g.set.StringVar(&g.defaultLayout, "default-layout", "", "Layout of documents without records: attribute or element")
	g.set.BoolVar(&g.cdata, "cdata", false, "Store new payloads as CDATA")
	g.set.BoolVarP(&g.verbose, "verbose", "v", false, "Log queries and saves to stderr")
	g.set.BoolVarP(&g.help, "help", "h", false, "Show help")

	return g
}

// overrides returns the flags the user actually passed, so --atomic=false
// can switch off a value enabled by a config file.
func (g *globalFlags) overrides() config.Layer {
	var l config.Layer

	if g.set.Changed("file") {
		l.Document = &g.document
	}

	if g.set.Changed("format") {
		l.Format = &g.format
	}

	if g.set.Changed("indent") {
		l.Indent = &g.indent
	}

	if g.set.Changed("atomic") {
		l.AtomicSave = &g.atomic
	}

	if g.set.Changed("default-layout") {
		l.DefaultLayout = &g.defaultLayout
	}

	if g.set.Changed("cdata") {
		l.CData = &g.cdata
	}

	return l
}

// Run is the main entry point. Returns exit code.
// A signal on sigCh cancels the context handed to the command; nil disables
// signal handling.
func Run(stdin io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	o := NewIO(out, errOut)
	global := newGlobalFlags()

	if len(args) < 2 {
		printUsage(out, global)

		return 0
	}

	err := global.set.Parse(args[1:])
	if err != nil {
		o.ErrPrintln(o.ErrorPrefix(), err)
		o.ErrPrintln()
		printUsage(errOut, global)

		return 1
	}

	remaining := global.set.Args()
	if global.help || len(remaining) == 0 {
		printUsage(out, global)

		return 0
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride: global.workDir,
		ConfigPath:      global.configPath,
		Overrides:       global.overrides(),
		Env:             env,
	})
	if err != nil {
		o.ErrPrintln(o.ErrorPrefix(), err)

		return 1
	}

	a := &app{cfg: cfg, log: newLogger(errOut, global.verbose), stdin: stdin}

	defer func() { _ = a.log.Sync() }()

	cmd := lookup(a, remaining[0])
	if cmd == nil {
		o.ErrPrintln(o.ErrorPrefix(), fmt.Errorf("%w: %s", ErrUnknownCommand, remaining[0]))
		o.ErrPrintln()
		printUsage(errOut, global)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	return cmd.Run(ctx, o, remaining[1:])
}

func printUsage(w io.Writer, global *globalFlags) {
	fprintln(w, `xmlrec - query and edit record-oriented XML documents

Usage: xmlrec [global flags] <command> [args]

Global flags:`)

	var buf strings.Builder

	global.set.SetOutput(&buf)
	global.set.PrintDefaults()
	global.set.SetOutput(&strings.Builder{})

	fprintln(w, strings.TrimRight(buf.String(), "\n"))
	fprintln(w)
	fprintln(w, "Commands:")

	for _, cmd := range commands(&app{}) {
		fprintln(w, cmd.HelpLine())
	}

	fprintln(w)
	fprintln(w, `Run "xmlrec <command> --help" for command flags.`)
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}
