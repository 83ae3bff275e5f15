package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/calvinalkan/xmlrec/internal/config"
	"github.com/calvinalkan/xmlrec/pkg/xmlrec"
)

// Error variables for command handling.
var (
	ErrNoDocument     = errors.New("no document configured (use --file or \"document\" in config)")
	ErrSelectorEmpty  = errors.New("selector is required")
	ErrArgCount       = errors.New("wrong number of arguments")
	ErrNoChanges      = errors.New("at least one change is required")
	ErrFieldAssign    = errors.New("expected name=value")
	ErrNoValue        = errors.New("no value found")
	ErrUnknownCommand = errors.New("unknown command")
	ErrNestedShell    = errors.New("shell cannot be started from the shell")
)

// app is the state shared by all commands of one invocation. The document is
// opened on first use and shared by every command the shell runs.
type app struct {
	cfg    config.Config
	log    *zap.Logger
	stdin  io.Reader
	doc    *xmlrec.Document
	inREPL bool
}

func (a *app) document() (*xmlrec.Document, error) {
	if a.doc != nil {
		return a.doc, nil
	}

	if a.cfg.DocumentAbs == "" {
		return nil, ErrNoDocument
	}

	opts := a.cfg.Options()
	opts.Logger = a.log

	doc, err := xmlrec.Open(a.cfg.DocumentAbs, opts)
	if err != nil {
		return nil, err
	}

	a.doc = doc

	return doc, nil
}

func (a *app) contentKind(cdata bool) xmlrec.ContentKind {
	if cdata || a.cfg.CData {
		return xmlrec.CData
	}

	return xmlrec.Text
}

// newLogger returns a console logger on w for --verbose, and a no-op
// logger otherwise.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), zapcore.DebugLevel)

	return zap.New(core)
}

// parseSelector turns "@name=value" into an attribute selector and anything
// else into a text-or-tag selector.
func parseSelector(s string) ([]string, error) {
	if s == "" {
		return nil, ErrSelectorEmpty
	}

	if rest, ok := strings.CutPrefix(s, "@"); ok {
		name, value, found := strings.Cut(rest, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid attribute selector %q (want @name=value)", s)
		}

		return []string{name, value}, nil
	}

	return []string{s}, nil
}

// parseAssignments turns name=value arguments into Set changes.
func parseAssignments(args []string) ([]xmlrec.Change, error) {
	changes := make([]xmlrec.Change, 0, len(args))

	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w, got %q", ErrFieldAssign, arg)
		}

		changes = append(changes, xmlrec.Set(name, value))
	}

	return changes, nil
}
