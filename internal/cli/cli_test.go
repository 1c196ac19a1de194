package cli

import (
	"bytes"
	"context"
	"io"
	"testing"
)

// newTestCLI returns a CLI writing into a buffer, run from an empty working
// directory with a private cache directory.
func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.SetOutput(&out)
	return c, &out
}

func execute(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommandSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{"render", "build", "export", "serve", "outline", "check", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("root command has no --config flag")
	}
}

func TestVersionFlag(t *testing.T) {
	c, out := newTestCLI(t)
	if err := execute(t, c, "--version"); err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte("coursepaper version")) {
		t.Errorf("--version output = %q", out.String())
	}
}

func TestCompletion(t *testing.T) {
	c, out := newTestCLI(t)
	if err := execute(t, c, "completion", "bash"); err != nil {
		t.Fatalf("completion bash: %v", err)
	}
	if out.Len() == 0 {
		t.Error("completion produced no script")
	}
	if err := execute(t, c, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}

func TestBadConfig(t *testing.T) {
	c, _ := newTestCLI(t)
	// check works on the built-in figures and never reads the config.
	if err := execute(t, c, "--config", "missing.toml", "check"); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := execute(t, c, "--config", "missing.toml", "render"); err == nil {
		t.Error("render with a missing config file should fail")
	}
}
