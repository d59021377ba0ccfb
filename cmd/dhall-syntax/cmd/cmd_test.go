package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// run executes the command tree with args and returns stdout, stderr and the
// error from Execute.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// plainConfig writes a config that turns off colored diagnostics.
func plainConfig(t *testing.T, dir string) string {
	t.Helper()
	return writeFile(t, dir, "dhall.toml", "[output]\ncolor = false\n")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "dhall-syntax v"+Version+"\n") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCheck_AllValid(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.dhall", "{ a = 1, b = [ True ] }\n")
	b := writeFile(t, dir, "b.dhall", "let x = 1 in x + 2 -- done\n")

	out, errOut, err := run(t, "", "check", a, b)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, errOut)
	}
	if out != "" || errOut != "" {
		t.Errorf("expected no output, got stdout %q stderr %q", out, errOut)
	}
}

func TestCheck_ReportsFailures(t *testing.T) {
	dir := t.TempDir()
	cfg := plainConfig(t, dir)
	good := writeFile(t, dir, "good.dhall", "True\n")
	bad := writeFile(t, dir, "bad.dhall", "{ a = }\n")

	_, errOut, err := run(t, "", "--config", cfg, "check", good, bad)
	if !errors.Is(err, errReported) {
		t.Fatalf("check error = %v, want errReported", err)
	}
	for _, want := range []string{
		"error: expected expression, found \"}\"",
		bad + ":1:7 (record literal)",
		" 1 | { a = }",
		"1 of 2 files failed",
	} {
		if !strings.Contains(errOut, want) {
			t.Errorf("stderr does not contain %q:\n%s", want, errOut)
		}
	}
	if strings.Contains(errOut, "good.dhall") {
		t.Errorf("stderr mentions the valid file:\n%s", errOut)
	}
}

func TestCheck_DiagnosticsInArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	cfg := plainConfig(t, dir)
	var paths []string
	for _, name := range []string{"one.dhall", "two.dhall", "three.dhall"} {
		paths = append(paths, writeFile(t, dir, name, "[ 1,"))
	}

	_, errOut, err := run(t, "", append([]string{"--config", cfg, "check"}, paths...)...)
	if !errors.Is(err, errReported) {
		t.Fatalf("check error = %v, want errReported", err)
	}
	last := -1
	for _, p := range paths {
		i := strings.Index(errOut, p+":")
		if i < 0 {
			t.Fatalf("stderr does not mention %s:\n%s", p, errOut)
		}
		if i < last {
			t.Errorf("%s reported out of order:\n%s", p, errOut)
		}
		last = i
	}
}

func TestCheck_MissingFile(t *testing.T) {
	_, errOut, err := run(t, "", "check", filepath.Join(t.TempDir(), "nope.dhall"))
	if !errors.Is(err, errReported) {
		t.Fatalf("check error = %v, want errReported", err)
	}
	if !strings.Contains(errOut, "nope.dhall") {
		t.Errorf("stderr does not name the file:\n%s", errOut)
	}
}

func TestCheck_MaxDepthFlag(t *testing.T) {
	dir := t.TempDir()
	cfg := plainConfig(t, dir)
	path := writeFile(t, dir, "deep.dhall", "((((1))))")

	_, errOut, err := run(t, "", "--config", cfg, "--max-depth", "3", "check", path)
	if !errors.Is(err, errReported) {
		t.Fatalf("check error = %v, want errReported", err)
	}
	if !strings.Contains(errOut, "nesting depth") {
		t.Errorf("stderr does not mention the depth limit:\n%s", errOut)
	}

	if _, errOut, err := run(t, "", "--config", cfg, "check", path); err != nil {
		t.Errorf("default depth: %v\n%s", err, errOut)
	}
}

func TestParse_JSONFromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "x.dhall", "x + 1")
	out, _, err := run(t, "", "parse", path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !strings.HasPrefix(out, "{\n  \"kind\": \"BinaryOp\",\n  \"pos\": \"1:1\",\n  \"op\": \"Plus\",") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestParse_YAMLFromStdin(t *testing.T) {
	out, _, err := run(t, "{ a = 1 }", "parse", "--format", "yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !strings.HasPrefix(out, "kind: RecordLit\npos: \"1:1\"\n") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestParse_BadFormat(t *testing.T) {
	_, _, err := run(t, "1", "parse", "--format", "xml")
	if err == nil || !strings.Contains(err.Error(), "--format") {
		t.Errorf("parse error = %v, want a --format error", err)
	}
}

func TestParse_SyntaxError(t *testing.T) {
	dir := t.TempDir()
	out, errOut, err := run(t, "if True then 1", "--config", plainConfig(t, dir), "parse")
	if !errors.Is(err, errReported) {
		t.Fatalf("parse error = %v, want errReported", err)
	}
	if out != "" {
		t.Errorf("unexpected stdout:\n%s", out)
	}
	if !strings.Contains(errOut, "<stdin>:1:") {
		t.Errorf("stderr does not locate the error:\n%s", errOut)
	}
}

func TestFmt(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"let", "let   x=1\nin   x", "let x = 1 in x\n"},
		{"record", "{a=1,b=True}", "{ a = 1, b = True }\n"},
		{"shebang", "#!/usr/bin/env dhall\n[1,2]", "#!/usr/bin/env dhall\n[ 1, 2 ]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.input, "fmt")
			if err != nil {
				t.Fatalf("fmt: %v", err)
			}
			if out != tt.want {
				t.Errorf("fmt = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestConfigErrors(t *testing.T) {
	_, _, err := run(t, "", "--config", filepath.Join(t.TempDir(), "missing.toml"), "version")
	// version has no pre-run of its own, so the root's config loading applies.
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("error = %v, want config file not found", err)
	}
}
