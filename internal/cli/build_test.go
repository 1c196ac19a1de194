package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/coursepaper/pkg/errors"
	"github.com/matzehuels/coursepaper/pkg/export"
)

func TestBuildCommand(t *testing.T) {
	c, out := newTestCLI(t)
	dir := filepath.Join(t.TempDir(), "site")

	if err := execute(t, c, "build", "-o", dir); err != nil {
		t.Fatalf("build: %v", err)
	}

	for _, name := range []string{
		"index.html",
		filepath.Join(figuresDir, "transport.png"),
		filepath.Join(figuresDir, "transport.svg"),
		filepath.Join(figuresDir, "project.png"),
		filepath.Join(figuresDir, "project.svg"),
		export.DefaultFilename,
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	page, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(page, []byte(`src="diagrams/transport.png"`)) {
		t.Error("page does not link the transport figure")
	}
	if !strings.Contains(out.String(), "index.html") {
		t.Errorf("output does not suggest opening the page:\n%s", out)
	}
}

func TestExportCommandBuiltin(t *testing.T) {
	c, _ := newTestCLI(t)
	dir := t.TempDir()

	if err := execute(t, c, "export", "-o", dir); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, export.DefaultFilename))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\ufeff")) {
		t.Error("export does not start with a BOM")
	}
	if !bytes.Contains(data, []byte("data:image/png;base64,")) {
		t.Error("export does not embed the figures")
	}
}

func TestExportCommandPage(t *testing.T) {
	c, out := newTestCLI(t)
	dir := t.TempDir()

	page := filepath.Join(dir, "page.html")
	if err := os.WriteFile(page, []byte(`<div id="document-content"><p>Текст</p></div>`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, c, "export", page, "-o", dir, "--filename", "out.doc"); err != nil {
		t.Fatalf("export page: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out.doc"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !bytes.Contains(data, []byte("<p>Текст</p>")) {
		t.Errorf("export lost the container markup:\n%s", data)
	}

	// No container: a warning and no file.
	empty := filepath.Join(dir, "empty.html")
	if err := os.WriteFile(empty, []byte(`<p>nothing</p>`), 0o644); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := execute(t, c, "export", empty, "-o", filepath.Join(dir, "none")); err != nil {
		t.Fatalf("export without container: %v", err)
	}
	if !strings.Contains(out.String(), "nothing exported") {
		t.Errorf("missing warning:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "none")); !os.IsNotExist(err) {
		t.Error("export without container should not create the output dir")
	}
}

func TestExportCommandErrors(t *testing.T) {
	c, _ := newTestCLI(t)

	err := execute(t, c, "export", "missing.html")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing page error = %v, want FILE_NOT_FOUND", err)
	}

	if err := execute(t, c, "export", "--filename", "../escape.doc"); err == nil {
		t.Error("a filename with a separator should be rejected")
	}
}
