package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/dragonsrcool/dragons/internal/cli"
	"github.com/dragonsrcool/dragons/internal/watch"
)

func init() {
	color.NoColor = true
}

func writeProgram(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.drc")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runArgs(stdin string, args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"dragons"}, args...), strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

const greet = `
dragon main fire
	< consume name $ >
	< shoot "hello", name $ >
	< shoot hatch twice[21] $ >
extinguish

dragon twice n fire
	< return n * 2 >
extinguish
`

func TestRunProgram(t *testing.T) {
	path := writeProgram(t, greet)
	code, out, errOut := runArgs("dragon\n", path)
	if code != exitOK {
		t.Fatalf("exit code %d, stderr %q", code, errOut)
	}
	if out != "hello dragon\n42\n" {
		t.Errorf("stdout = %q", out)
	}
	if errOut != "" {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestRunFromStdin(t *testing.T) {
	code, out, errOut := runArgs(`dragon main fire < shoot 1 + 1 $ > extinguish`)
	if code != exitOK || out != "2\n" {
		t.Errorf("code=%d out=%q err=%q", code, out, errOut)
	}
}

func TestReplayInput(t *testing.T) {
	path := writeProgram(t, greet)
	input := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(input, []byte("dragon\nunused\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, out, errOut := runArgs("stdin is not read\n", "-i", input, path)
	if code != exitOK {
		t.Fatalf("exit code %d, stderr %q", code, errOut)
	}
	if out != "hello dragon\n42\n" {
		t.Errorf("stdout = %q", out)
	}
	if !strings.Contains(errOut, "1 input lines were not consumed") {
		t.Errorf("stderr = %q", errOut)
	}

	code, _, errOut = runArgs("", "-i", filepath.Join(t.TempDir(), "absent.txt"), path)
	if code != exitIO || !strings.Contains(errOut, "failed to open input") {
		t.Errorf("missing input file: code=%d err=%q", code, errOut)
	}
}

func TestInputPromptOnTerminal(t *testing.T) {
	saved := stdinIsTerminal
	stdinIsTerminal = func(io.Reader) bool { return true }
	defer func() { stdinIsTerminal = saved }()

	path := writeProgram(t, greet)
	cfgPath := filepath.Join(t.TempDir(), "dragons.yaml")
	if err := os.WriteFile(cfgPath, []byte("input_prompt: \"name? \"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, out, errOut := runArgs("dragon\n", "-c", cfgPath, path)
	if code != exitOK {
		t.Fatalf("exit code %d, stderr %q", code, errOut)
	}
	if out != "name? hello dragon\n42\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestRuntimeFatal(t *testing.T) {
	path := writeProgram(t, "dragon main fire\n< shoot 1 $ >\n< shoot 5 / 0 $ >\n< shoot 2 $ >\nextinguish\n")
	code, out, errOut := runArgs("", path)
	if code != exitFatal {
		t.Errorf("exit code %d, want %d", code, exitFatal)
	}
	if out != "1\n" {
		t.Errorf("stdout = %q", out)
	}
	if errOut != "Division by 0 on line 3\n" {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestRuntimeFatalWithSource(t *testing.T) {
	path := writeProgram(t, "dragon main fire\n< shoot ghost $ >\nextinguish\n")
	code, _, errOut := runArgs("", "-s", path)
	if code != exitFatal {
		t.Errorf("exit code %d", code)
	}
	want := "Undefined variable ghost on line 2\n  --> prog.drc:2\n   2 | < shoot ghost $ >\n"
	if errOut != want {
		t.Errorf("stderr =\n%q\nwant\n%q", errOut, want)
	}
}

func TestParseError(t *testing.T) {
	path := writeProgram(t, "dragon main fire < shoot 1 $ >")
	code, out, errOut := runArgs("", path)
	if code != exitFatal {
		t.Errorf("exit code %d", code)
	}
	if out != "" {
		t.Errorf("nothing should run after a parse error, got %q", out)
	}
	if !strings.HasPrefix(errOut, "Parser error at line 1, column ") ||
		!strings.Contains(errOut, "Received token END expected EXTINGUISH") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestDumpTree(t *testing.T) {
	path := writeProgram(t, greet)
	code, out, errOut := runArgs("", "-t", path)
	if code != exitOK {
		t.Fatalf("exit code %d: %s", code, errOut)
	}
	for _, want := range []string{"PROGRAM(2)", "FUNCTION(2) main", "FUNCTION(2) twice", "MUL(2)"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump lacks %q:\n%s", want, out)
		}
	}
}

func TestVersion(t *testing.T) {
	code, out, _ := runArgs("", "-V", "-j")
	if code != exitOK {
		t.Fatalf("exit code %d", code)
	}
	var v map[string]interface{}
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if v["tool"] != toolName {
		t.Errorf("tool = %v", v["tool"])
	}

	_, out, _ = runArgs("", "-V")
	if !strings.HasPrefix(out, "dragons v"+cli.Version) {
		t.Errorf("version = %q", out)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-x"}},
		{"two files", []string{"a.drc", "b.drc"}},
		{"watch without file", []string{"-w"}},
		{"missing config argument", []string{"-c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runArgs("", tt.args...)
			if code != exitUsage {
				t.Errorf("exit code %d, want %d", code, exitUsage)
			}
			if !strings.Contains(errOut, "USAGE:") {
				t.Errorf("usage not printed: %q", errOut)
			}
		})
	}
}

func TestHelp(t *testing.T) {
	code, out, _ := runArgs("", "-h")
	if code != exitOK || !strings.Contains(out, "dragons [options] [file]") {
		t.Errorf("code=%d out=%q", code, out)
	}
}

func TestMissingFile(t *testing.T) {
	code, _, errOut := runArgs("", filepath.Join(t.TempDir(), "absent.drc"))
	if code != exitIO {
		t.Errorf("exit code %d, want %d", code, exitIO)
	}
	if !strings.Contains(errOut, "failed to read program") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "dragons.yaml")
	prog := writeProgram(t, "dragon main fire\n< hatch main[] >\nextinguish\n")

	if err := os.WriteFile(cfgPath, []byte("max_depth: 5\nshow_source: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	code, _, errOut := runArgs("", "-c", cfgPath, prog)
	if code != exitFatal {
		t.Errorf("exit code %d", code)
	}
	if !strings.HasPrefix(errOut, "Maximum call depth 5 exceeded calling main on line 2\n") ||
		!strings.Contains(errOut, "   2 | < hatch main[] >") {
		t.Errorf("stderr = %q", errOut)
	}

	if err := os.WriteFile(cfgPath, []byte("language: \">= 9\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	code, _, errOut = runArgs("", "-c", cfgPath, prog)
	if code != exitUsage || !strings.Contains(errOut, "does not satisfy") {
		t.Errorf("code=%d stderr=%q", code, errOut)
	}
}

type chanWatcher struct {
	events chan watch.Event
	errs   chan error
}

func (w *chanWatcher) Events() <-chan watch.Event { return w.events }
func (w *chanWatcher) Errors() <-chan error       { return w.errs }
func (w *chanWatcher) Add(string) error           { return nil }
func (w *chanWatcher) Remove(string) error        { return nil }
func (w *chanWatcher) Close() error               { return nil }

func TestWatchReruns(t *testing.T) {
	path := writeProgram(t, "dragon main fire < shoot 1 $ > extinguish")
	opts, err := parseArgs([]string{"dragons", "-w", path})
	if err != nil {
		t.Fatal(err)
	}

	var stdout, stderr syncBuffer
	logger := cli.NewLogger(false, false)
	logger.Out = &stderr
	s := &session{
		opts:   opts,
		cfg:    cli.DefaultConfig(),
		logger: logger,
		stdin:  strings.NewReader(""),
		stdout: &stdout,
		stderr: &stderr,
	}

	w := &chanWatcher{events: make(chan watch.Event, 1), errs: make(chan error)}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() { done <- s.watchContext(ctx, w) }()

	waitFor(t, &stdout, "1\n")

	if err := os.WriteFile(path, []byte("dragon main fire < shoot 2 / 0 $ > extinguish"), 0o644); err != nil {
		t.Fatal(err)
	}
	w.events <- watch.Event{Path: path, Op: watch.OpWrite}
	waitFor(t, &stderr, "Division by 0 on line 1\n")

	if err := os.WriteFile(path, []byte("dragon main fire < shoot 3 $ > extinguish"), 0o644); err != nil {
		t.Fatal(err)
	}
	w.events <- watch.Event{Path: path, Op: watch.OpWrite}
	waitFor(t, &stdout, "1\n3\n")

	cancel()
	if code := <-done; code != exitOK {
		t.Errorf("watch exit code %d", code)
	}
}

func waitFor(t *testing.T, b *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if b.String() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("got %q, want %q", b.String(), want)
}
