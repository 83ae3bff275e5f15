package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/xmlrec/pkg/fs"
	"github.com/calvinalkan/xmlrec/pkg/xmlrec"
)

func ptr[T any](v T) *T { return &v }

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		t.Fatal(err)
	}

	err = os.WriteFile(path, []byte(content), 0o644)
	if err != nil {
		t.Fatal(err)
	}
}

func Test_Load_Returns_Defaults_When_NoFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := Load(LoadInput{WorkDirOverride: dir, Env: map[string]string{}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []string{
		"effective_cwd=" + dir,
		"document=(none)",
		"indent=2",
		"atomic_save=false",
		"default_layout=attribute",
		"cdata=false",
		"format=json",
	}

	if diff := cmp.Diff(want, cfg.Lines()); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}

	if cfg.Sources != (Sources{}) {
		t.Fatalf("sources=%+v, want none", cfg.Sources)
	}
}

func Test_Load_Applies_Precedence_When_AllSourcesPresent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	xdg := filepath.Join(dir, "xdg")

	writeFile(t, filepath.Join(xdg, "xmlrec", "config.json"), `{
		// global defaults
		"document": "global.xml",
		"format": "yaml",
		"indent": 4,
	}`)
	writeFile(t, filepath.Join(dir, FileName), `{"document": "project.xml", "cdata": true}`)

	cfg, err := Load(LoadInput{
		WorkDirOverride: dir,
		Overrides:       Layer{Indent: ptr(-1)},
		Env:             map[string]string{"XDG_CONFIG_HOME": xdg},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got, want := cfg.DocumentAbs, filepath.Join(dir, "project.xml"); got != want {
		t.Errorf("document=%q, want=%q", got, want)
	}

	if cfg.Format != FormatYAML || !cfg.CData || cfg.Indent != xmlrec.CompactIndent {
		t.Errorf("format=%q cdata=%v indent=%d", cfg.Format, cfg.CData, cfg.Indent)
	}

	if cfg.Sources.Global == "" || cfg.Sources.Project == "" {
		t.Errorf("sources=%+v, want both", cfg.Sources)
	}
}

func Test_Load_Uses_ExplicitFile_Instead_Of_Project(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, FileName), `{"document": "project.xml"}`)
	writeFile(t, filepath.Join(dir, "custom.json"), `{"document": "/data/custom.xml", "default_layout": "element", "atomic_save": true}`)

	cfg, err := Load(LoadInput{WorkDirOverride: dir, ConfigPath: "custom.json"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DocumentAbs != "/data/custom.xml" {
		t.Errorf("document=%q, want absolute path kept", cfg.DocumentAbs)
	}

	opts := cfg.Options()
	if opts.DefaultLayout != xmlrec.ElementStyle || !opts.AtomicSave {
		t.Errorf("options=%+v", opts)
	}

	if cfg.Sources.Project != filepath.Join(dir, "custom.json") {
		t.Errorf("project source=%q", cfg.Sources.Project)
	}
}

func Test_Load_Returns_Error_When_ConfigInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		config  string
		want    error
	}{
		{name: "missing explicit", config: "nope.json", want: ErrConfigFileNotFound},
		{name: "broken jsonc", content: `{"document": `, want: ErrConfigInvalid},
		{name: "bad format", content: `{"format": "xml"}`, want: ErrFormatInvalid},
		{name: "bad indent", content: `{"indent": -3}`, want: ErrIndentInvalid},
	}

	for _, tt := range tests {
		dir := t.TempDir()
		if tt.content != "" {
			writeFile(t, filepath.Join(dir, FileName), tt.content)
		}

		_, err := Load(LoadInput{WorkDirOverride: dir, ConfigPath: tt.config})
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: err=%v, want %v", tt.name, err, tt.want)
		}
	}

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), `{"default_layout": "table"}`)

	if _, err := Load(LoadInput{WorkDirOverride: dir}); err == nil {
		t.Error("unknown layout: err=nil")
	}
}

func Test_Load_Turns_Off_Global_Values_When_Project_Sets_False_Or_Zero(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	xdg := filepath.Join(dir, "xdg")

	writeFile(t, filepath.Join(xdg, "xmlrec", "config.json"), `{"atomic_save": true, "cdata": true, "indent": 4}`)
	writeFile(t, filepath.Join(dir, FileName), `{"atomic_save": false, "indent": 0}`)

	cfg, err := Load(LoadInput{
		WorkDirOverride: dir,
		Overrides:       Layer{CData: ptr(false)},
		Env:             map[string]string{"XDG_CONFIG_HOME": xdg},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.AtomicSave || cfg.CData || cfg.Indent != 0 {
		t.Errorf("atomic_save=%v cdata=%v indent=%d, want=false false 0", cfg.AtomicSave, cfg.CData, cfg.Indent)
	}
}

func Test_Load_Returns_ReadError_When_ProjectFile_Unreadable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, `{"document": "a.xml"}`)

	chaos := fs.NewChaos(fs.NewReal(), 1, fs.ChaosConfig{})
	chaos.SetMode(fs.ChaosModeStickyOnly)
	chaos.SetPathState(path, fs.PathIOError)

	_, err := Load(LoadInput{WorkDirOverride: dir, FS: chaos})
	if !errors.Is(err, ErrConfigFileRead) {
		t.Fatalf("err=%v, want=%v", err, ErrConfigFileRead)
	}

	if !fs.IsInjected(err) {
		t.Errorf("err=%v, want injected fault", err)
	}
}

func Test_Load_Returns_ReadError_When_ExplicitFile_Stat_Fails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "custom.json"), `{}`)

	chaos := fs.NewChaos(fs.NewReal(), 1, fs.ChaosConfig{StatFailRate: 1})
	chaos.SetMode(fs.ChaosModeInject)

	_, err := Load(LoadInput{WorkDirOverride: dir, ConfigPath: "custom.json", FS: chaos})
	if !errors.Is(err, ErrConfigFileRead) {
		t.Fatalf("err=%v, want=%v", err, ErrConfigFileRead)
	}

	if got, want := chaos.Stats().StatFails, int64(1); got != want {
		t.Errorf("stat fails=%d, want=%d", got, want)
	}
}
