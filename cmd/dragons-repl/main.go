// Package main provides the interactive dragons REPL.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/peterh/liner"

	"github.com/dragonsrcool/dragons/internal/cli"
	"github.com/dragonsrcool/dragons/internal/interp"
)

const (
	toolName    = "dragons-repl"
	historyFile = ".dragons_history"
	maxHistory  = 1000
	promptCont  = "....> "
)

var command = cli.CommandInfo{
	Name:        toolName,
	Usage:       "dragons-repl [options]",
	Description: "interactive dragons session",
	Flags: []cli.FlagInfo{
		{Short: 'h', Usage: "Show help information"},
		{Short: 'V', Usage: "Show version information"},
		{Short: 'j', Usage: "Print version information as JSON (with -V)"},
		{Short: 'd', Usage: "Enable debug mode"},
		{Short: 'c', Arg: "file", Usage: "Configuration file", Default: cli.DefaultConfigFile},
		{Short: 'l', Arg: "file", Usage: "Run a program before starting the REPL"},
		{Short: 'e', Arg: "stmt", Usage: "Evaluate a statement and exit"},
	},
	Examples: []string{
		"dragons-repl",
		"dragons-repl -e 'shoot 2 ^ 10 $'",
		"dragons-repl -l lib.drc",
	},
}

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	opts, optind, err := getopt.Getopts(args, "hVjdc:l:e:")
	if err != nil || optind != len(args) {
		if err == nil {
			err = fmt.Errorf("unexpected argument %q", args[optind])
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		cli.PrintUsage(os.Stderr, command)
		return 2
	}

	var (
		jsonOutput, showVersion, debug bool
		configPath, loadFile, evalStr  string
		hasEval                        bool
	)
	for _, opt := range opts {
		switch opt.Option {
		case 'h':
			cli.PrintUsage(os.Stdout, command)
			return 0
		case 'V':
			showVersion = true
		case 'j':
			jsonOutput = true
		case 'd':
			debug = true
		case 'c':
			configPath = opt.Value
		case 'l':
			loadFile = opt.Value
		case 'e':
			evalStr, hasEval = opt.Value, true
		}
	}

	if showVersion {
		if err := cli.PrintVersion(os.Stdout, "dragons REPL", jsonOutput); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	cfg, err := cli.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	if err := cli.SetColor(cfg.Color); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	logger := cli.NewLogger(cfg.Verbose, debug || cfg.Debug)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	var interpOpts []interp.Option
	if cfg.MaxDepth > 0 {
		interpOpts = append(interpOpts, interp.WithMaxDepth(cfg.MaxDepth))
	}
	console := &linerConsole{ln: ln, out: os.Stdout, prompt: cfg.InputPrompt}
	repl := NewREPL(console, os.Stdout, os.Stderr, logger, interpOpts...)

	if loadFile != "" {
		if err := repl.LoadFile(loadFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load file %s: %v\n", loadFile, err)
			return 255
		}
	}

	if hasEval {
		if !repl.Execute(evalStr) {
			return 255
		}
		return 0
	}

	histPath := historyFile
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
	}
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	repl.PrintWelcome()
	repl.Loop(func(prompt string) (string, error) { return ln.Prompt(prompt) }, cfg.Prompt, ln.AppendHistory)

	if f, err := os.Create(histPath); err == nil {
		if _, err := ln.WriteHistory(f); err != nil {
			logger.Warn("failed to save history: %v", err)
		}
		_ = f.Close()
	}
	return 0
}

// Loop reads inputs with read until end of input or :quit. Inputs that
// stop in the middle of a construct are continued on the next line.
func (r *REPL) Loop(read func(prompt string) (string, error), prompt string, remember func(string)) {
	for {
		src, ok := r.readInput(read, prompt)
		if !ok {
			fmt.Fprintln(r.out)
			return
		}

		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if remember != nil {
			remember(strings.ReplaceAll(trimmed, "\n", " "))
		}

		if strings.HasPrefix(trimmed, ":") {
			if r.HandleCommand(trimmed) {
				return
			}
			continue
		}
		r.Execute(trimmed)
	}
}

func (r *REPL) readInput(read func(prompt string) (string, error), prompt string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = promptCont
		}
		line, err := read(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the pending input
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || strings.TrimSpace(src) == "" || r.Complete(src) {
			return src, true
		}
	}
}

// linerConsole serves consume statements from the line editor
type linerConsole struct {
	ln     *liner.State
	out    io.Writer
	prompt string
}

func (c *linerConsole) ReadLine() (string, error) {
	line, err := c.ln.Prompt(c.prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	return line, err
}

func (c *linerConsole) WriteLine(line string) error {
	_, err := fmt.Fprintln(c.out, line)
	return err
}
