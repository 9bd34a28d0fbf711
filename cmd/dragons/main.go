// Package main provides the dragons interpreter. It reads a program from a
// file (or standard input), runs its first function and reports the first
// fatal error, if any, on standard error.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"git.sr.ht/~sircmpwn/getopt"
	"golang.org/x/sync/errgroup"

	"github.com/dragonsrcool/dragons/internal/cli"
	"github.com/dragonsrcool/dragons/internal/diagnostic"
	"github.com/dragonsrcool/dragons/internal/hostio"
	"github.com/dragonsrcool/dragons/internal/interp"
	"github.com/dragonsrcool/dragons/internal/parser"
	"github.com/dragonsrcool/dragons/internal/parsetree"
	"github.com/dragonsrcool/dragons/internal/position"
	"github.com/dragonsrcool/dragons/internal/watch"
)

// Exit codes
const (
	exitOK    = 0
	exitIO    = 1
	exitUsage = 2
	exitFatal = 255
)

const toolName = "dragons"

var command = cli.CommandInfo{
	Name:        toolName,
	Usage:       "dragons [options] [file]",
	Description: "run a dragons program",
	Flags: []cli.FlagInfo{
		{Short: 'h', Usage: "Show help information"},
		{Short: 'V', Usage: "Show version information"},
		{Short: 'j', Usage: "Print version information as JSON (with -V)"},
		{Short: 'v', Usage: "Verbose logging"},
		{Short: 'd', Usage: "Debug logging, including every function call"},
		{Short: 't', Usage: "Print the parse tree instead of running"},
		{Short: 'w', Usage: "Rerun the program whenever the file is saved"},
		{Short: 's', Usage: "Show the source line with each error"},
		{Short: 'i', Arg: "file", Usage: "Answer consume statements from the lines of file"},
		{Short: 'c', Arg: "file", Usage: "Configuration file", Default: cli.DefaultConfigFile},
	},
	Examples: []string{
		"dragons hello.drc",
		"dragons -t hello.drc",
		"dragons -i numbers.txt factorial.drc",
		"echo 5 | dragons -w factorial.drc",
	},
}

type options struct {
	help        bool
	version     bool
	jsonVersion bool
	verbose     bool
	debug       bool
	dumpTree    bool
	watch       bool
	showSource  bool
	configPath  string
	inputPath   string
	file        string
}

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func parseArgs(args []string) (*options, error) {
	opts, optind, err := getopt.Getopts(args, "hVjvdtwsc:i:")
	if err != nil {
		return nil, err
	}
	o := &options{}
	for _, opt := range opts {
		switch opt.Option {
		case 'h':
			o.help = true
		case 'V':
			o.version = true
		case 'j':
			o.jsonVersion = true
		case 'v':
			o.verbose = true
		case 'd':
			o.debug = true
		case 't':
			o.dumpTree = true
		case 'w':
			o.watch = true
		case 's':
			o.showSource = true
		case 'c':
			o.configPath = opt.Value
		case 'i':
			o.inputPath = opt.Value
		}
	}

	rest := args[optind:]
	switch len(rest) {
	case 0:
	case 1:
		o.file = rest[0]
	default:
		return nil, fmt.Errorf("expected at most one program file, got %d", len(rest))
	}
	if o.watch && o.file == "" {
		return nil, errors.New("-w needs a program file")
	}
	return o, nil
}

// run is main without the process exit, so it can be tested
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		cli.PrintUsage(stderr, command)
		return exitUsage
	}
	if opts.help {
		cli.PrintUsage(stdout, command)
		return exitOK
	}
	if opts.version {
		if err := cli.PrintVersion(stdout, toolName, opts.jsonVersion); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitIO
		}
		return exitOK
	}

	cfg, err := cli.LoadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	if err := cli.SetColor(cfg.Color); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	logger := cli.NewLogger(opts.verbose || cfg.Verbose, opts.debug || cfg.Debug)
	logger.Out = stderr
	if cfg.ConfigFile != "" {
		logger.Debug("loaded config %s", cfg.ConfigFile)
	}

	s := &session{
		opts:   opts,
		cfg:    cfg,
		logger: logger,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	if opts.watch {
		return s.watch()
	}
	return s.once()
}

// session runs one program, possibly several times in watch mode
type session struct {
	opts   *options
	cfg    *cli.Config
	logger *cli.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	con    *hostio.StdConsole
}

// runConsole is the console of one program run
type runConsole interface {
	hostio.Console
	Flush() error
}

// stdinIsTerminal reports whether r is an interactive terminal
var stdinIsTerminal = func(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && hostio.IsTerminal(f.Fd())
}

func (s *session) once() int {
	src, err := s.load()
	if err != nil {
		s.report(nil, err)
		return exitIO
	}
	console, err := s.console()
	if err != nil {
		s.report(nil, err)
		return exitIO
	}
	return s.execute(src, console)
}

// load reads the program file, or standard input when no file was given
func (s *session) load() (*position.SourceFile, error) {
	if s.opts.file == "" {
		if stdinIsTerminal(s.stdin) {
			s.logger.Warn("reading program from the terminal, end it with Ctrl-D")
		}
		data, err := io.ReadAll(s.stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read program: %w", err)
		}
		return position.NewSourceFile("<stdin>", string(data)), nil
	}

	data, err := os.ReadFile(s.opts.file)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	return position.NewSourceFile(s.opts.file, string(data)), nil
}

// console returns the console for the next run. With -i every run replays
// the input file from its first line. Otherwise the standard console is
// shared by every run of the session so buffered input is not lost
// between reruns; on a terminal it prompts before each read.
func (s *session) console() (runConsole, error) {
	if s.opts.inputPath != "" {
		f, err := os.Open(s.opts.inputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		con, err := hostio.NewReplayConsole(f, s.stdout)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		return con, nil
	}

	if s.con == nil {
		s.con = hostio.NewStdConsole(s.stdin, s.stdout)
		if s.opts.file != "" && stdinIsTerminal(s.stdin) {
			s.con.Prompt = s.cfg.InputPrompt
			s.con.PromptOut = s.stdout
		}
	}
	return s.con, nil
}

// execute parses and runs src, reporting the first fatal error
func (s *session) execute(src *position.SourceFile, console runConsole) int {
	start := time.Now()
	s.logger.Info("parsing %s", src.Filename)

	program, err := parser.FromString(src.Content, src.Filename).Parse()
	if err != nil {
		s.report(src, err)
		return exitFatal
	}

	if s.opts.dumpTree {
		if err := parsetree.Dump(s.stdout, program); err != nil {
			s.report(nil, err)
			return exitIO
		}
		return exitOK
	}

	opts := []interp.Option{interp.WithLogger(s.logger)}
	if s.cfg.MaxDepth > 0 {
		opts = append(opts, interp.WithMaxDepth(s.cfg.MaxDepth))
	}
	in := interp.New(console, opts...)

	result, runErr := in.Run(program)
	if err := console.Flush(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		s.report(src, runErr)
		return exitFatal
	}

	if replay, ok := console.(*hostio.ScriptedConsole); ok && replay.Pending() > 0 {
		s.logger.Warn("%d input lines were not consumed", replay.Pending())
	}
	s.logger.Info("%s finished in %s with result %s", src.Filename, time.Since(start).Round(time.Microsecond), interp.Format(result))
	return exitOK
}

func (s *session) report(src *position.SourceFile, err error) {
	r := &diagnostic.Renderer{
		ShowSource: s.opts.showSource || s.cfg.ShowSource,
		ShowCode:   s.logger.DebugMode,
		Source:     src,
	}
	if rerr := r.Render(s.stderr, err); rerr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

// watch runs the program once and again after every save until
// interrupted. Fatal errors are reported without ending the session.
func (s *session) watch() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.watchContext(ctx, watch.New(500*time.Millisecond))
}

func (s *session) watchContext(ctx context.Context, w watch.Watcher) int {
	defer w.Close()

	changes := make(chan string, 1)
	runner := &watch.Runner{
		Watcher: w,
		OnChange: func(path string) {
			select {
			case changes <- path:
			default:
			}
		},
		OnError: func(err error) {
			s.logger.Warn("watch: %v", err)
		},
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runner.Run(ctx, s.opts.file)
	})
	g.Go(func() error {
		s.rerun()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case path := <-changes:
				s.logger.Info("%s changed, rerunning", filepath.Base(path))
				s.rerun()
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		s.report(nil, err)
		return exitIO
	}
	return exitOK
}

func (s *session) rerun() {
	src, err := s.load()
	if err != nil {
		s.report(nil, err)
		return
	}
	console, err := s.console()
	if err != nil {
		s.report(nil, err)
		return
	}
	if code := s.execute(src, console); code != exitOK {
		s.logger.Debug("run ended with exit code %d", code)
	}
}
