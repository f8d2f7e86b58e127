package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"jsfront/internal/diag"
	"jsfront/internal/driver"
)

const emptyScript = `{"type":"Program","sourceType":"script","start":0,"end":0,"body":[]}`

// varScript is the ESTree of `var a;`.
const varScript = `{"type":"Program","sourceType":"script","start":0,"end":6,"body":[
  {"type":"VariableDeclaration","kind":"var","start":0,"end":6,"declarations":[
    {"type":"VariableDeclarator","start":4,"end":5,"id":{"type":"Identifier","name":"a","start":4,"end":5}}]}]}`

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files["jsfront.toml"] = "[project]\nname = \"demo\"\n"
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--color", "off", "--ui", "off"}, args...))
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestReadUIMode(t *testing.T) {
	cases := map[string]uiMode{
		"":     uiModeAuto,
		"auto": uiModeAuto,
		" ON ": uiModeOn,
		"off":  uiModeOff,
	}
	for in, want := range cases {
		got, err := readUIMode(in)
		if err != nil {
			t.Fatalf("readUIMode(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("readUIMode(%q) = %q, want %q", in, got, want)
		}
	}
	var buf bytes.Buffer
	if shouldUseTUI(uiModeOff, &buf) || !shouldUseTUI(uiModeOn, &buf) {
		t.Fatalf("explicit ui modes not honored")
	}
	if shouldUseTUI(uiModeAuto, &buf) {
		t.Fatalf("auto mode rendered to a non-terminal writer")
	}
	if _, err := readUIMode("sometimes"); err == nil || !strings.Contains(err.Error(), "--ui") {
		t.Fatalf("unknown ui mode error = %v", err)
	}
}

func TestResolveDumpsModules(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"a.js.json":     varScript,
		"lib/b.js.json": emptyScript,
	})
	stdout, stderr, err := execute(t, "--config", filepath.Join(dir, "jsfront.toml"), "resolve")
	if err != nil {
		t.Fatalf("resolve: %v\nstderr: %s", err, stderr)
	}
	first := strings.Index(stdout, "== a.js ==")
	second := strings.Index(stdout, "== lib/b.js ==")
	if first < 0 || second < first {
		t.Fatalf("module headers missing or out of order:\n%s", stdout)
	}
	if stderr != "" {
		t.Fatalf("unexpected stderr: %q", stderr)
	}
}

func TestResolveReportsErrors(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"good.js.json": emptyScript,
		"bad.js.json":  `{"type":"Program","body":[`,
	})
	stdout, stderr, err := execute(t, "--config", filepath.Join(dir, "jsfront.toml"), "resolve", "--no-dump")
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("err = %v, want errDiagnostics", err)
	}
	if stdout != "" {
		t.Fatalf("--no-dump printed %q", stdout)
	}
	if !strings.Contains(stderr, diag.IOESTreeError.ID()) || !strings.Contains(stderr, "bad.js@") {
		t.Fatalf("stderr lacks the ESTree error:\n%s", stderr)
	}
}

func TestResolveOrder(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"a.js.json": emptyScript,
	})
	stdout, _, err := execute(t, "--config", filepath.Join(dir, "jsfront.toml"), "resolve", "--no-dump", "--order")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if want := "load order:\n  0: a.js\n"; stdout != want {
		t.Fatalf("order output mismatch (-want +got):\n%s", cmp.Diff(want, stdout))
	}
}

func TestResolveNoDumps(t *testing.T) {
	dir := writeProject(t, map[string]string{})
	_, _, err := execute(t, "--config", filepath.Join(dir, "jsfront.toml"), "resolve")
	if err == nil || !strings.Contains(err.Error(), "no ESTree dumps") {
		t.Fatalf("err = %v, want missing dumps error", err)
	}
}

func TestStatsJSON(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"a.js.json": varScript,
	})
	stdout, stderr, err := execute(t, "--config", filepath.Join(dir, "jsfront.toml"), "stats", "--format", "json")
	if err != nil {
		t.Fatalf("stats: %v\nstderr: %s", err, stderr)
	}
	var got []driver.Summary
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, stdout)
	}
	if len(got) != 1 || got[0].Module != "a.js" || got[0].Decls != 1 || got[0].Kinds["GlobalProperty"] != 1 || len(got[0].Globals) != 1 {
		t.Fatalf("unexpected summary: %+v", got)
	}
}

func TestStatsText(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"a.js.json": varScript,
	})
	stdout, _, err := execute(t, "--config", filepath.Join(dir, "jsfront.toml"), "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"module", "a.js", "total", "declarations by kind:", "GlobalProperty"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("stats output lacks %q:\n%s", want, stdout)
		}
	}
	if _, _, err := execute(t, "--config", filepath.Join(dir, "jsfront.toml"), "stats", "--format", "xml"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version", "--format", "json", "--full")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := versionPayload{Tool: "jsfront", Version: collectVersionInfo().Version, GitCommit: "unknown", BuildDate: "unknown"}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	stdout, _, err = execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(stdout, "jsfront ") {
		t.Fatalf("pretty output = %q", stdout)
	}
}
