package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dragonsrcool/dragons/internal/cli"
	"github.com/dragonsrcool/dragons/internal/diagnostic"
	"github.com/dragonsrcool/dragons/internal/hostio"
	"github.com/dragonsrcool/dragons/internal/interp"
	"github.com/dragonsrcool/dragons/internal/lexer"
	"github.com/dragonsrcool/dragons/internal/parser"
	"github.com/dragonsrcool/dragons/internal/parsetree"
	"github.com/dragonsrcool/dragons/internal/position"
)

// REPL evaluates one definition or statement at a time against a
// persistent global environment. Errors are reported and the session
// goes on.
type REPL struct {
	in     *interp.Interpreter
	out    io.Writer
	errOut io.Writer
	logger *cli.Logger

	history []string
}

// NewREPL creates a session whose consume statements read from console
func NewREPL(console hostio.Console, out, errOut io.Writer, logger *cli.Logger, opts ...interp.Option) *REPL {
	return &REPL{
		in:     interp.New(console, append([]interp.Option{interp.WithLogger(logger)}, opts...)...),
		out:    out,
		errOut: errOut,
		logger: logger,
	}
}

// PrintWelcome prints the banner
func (r *REPL) PrintWelcome() {
	info := cli.GetVersionInfo()
	fmt.Fprintf(r.out, "dragons REPL v%s (language %s)\n", info.Version, info.LanguageVersion)
	fmt.Fprintf(r.out, "Type :help for help, :quit to exit\n")
	fmt.Fprintln(r.out)
}

// isDefinition reports whether src starts with the 'dragon' keyword
func isDefinition(src string) bool {
	return lexer.New(src).NextToken().Type == lexer.TokenDragon
}

func parseInput(src string) (*parsetree.Node, error) {
	p := parser.FromString(src, "<repl>")
	if isDefinition(src) {
		return p.ParseDefinition()
	}
	return p.ParseStatement()
}

// Complete reports whether src can be evaluated as it is. Input that
// stops in the middle of a construct needs more lines; any other parse
// error is complete and will be reported by Evaluate.
func (r *REPL) Complete(src string) bool {
	_, err := parseInput(src)
	return err == nil || !parser.Incomplete(err)
}

// Evaluate parses and runs one input. A function definition is registered
// through the Def rule; anything else is a single statement.
func (r *REPL) Evaluate(src string) (interp.Value, error) {
	node, err := parseInput(src)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("evaluating %s", node.Kind)

	global := r.in.Global()
	v, err := r.in.Eval(node, global)
	global.ClearReturn()
	if err != nil {
		return nil, err
	}
	if node.Kind == parsetree.Def {
		fmt.Fprintf(r.out, "defined %s\n", node.Lexeme())
		return nil, nil
	}
	return v, nil
}

// Execute evaluates src and prints its result or error
func (r *REPL) Execute(src string) bool {
	r.AddToHistory(src)
	v, err := r.Evaluate(src)
	if err != nil {
		r.report(src, err)
		return false
	}
	if v != nil {
		fmt.Fprintf(r.out, "=> %s\n", interp.Format(v))
	}
	return true
}

func (r *REPL) report(src string, err error) {
	rd := &diagnostic.Renderer{
		ShowSource: true,
		ShowCode:   r.logger.DebugMode,
		Source:     position.NewSourceFile("<repl>", src),
	}
	if rerr := rd.Render(r.errOut, err); rerr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

// HandleCommand runs a ':' command and reports whether the session should
// end.
func (r *REPL) HandleCommand(cmd string) bool {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false
	}

	switch parts[0] {
	case ":help", ":h":
		r.PrintHelp()
	case ":quit", ":q", ":exit":
		fmt.Fprintln(r.out, "Goodbye!")
		return true
	case ":reset":
		r.in.Reset()
		fmt.Fprintln(r.out, "Environment reset")
	case ":load":
		if len(parts) < 2 {
			fmt.Fprintln(r.out, "Usage: :load <file>")
		} else if err := r.LoadFile(parts[1]); err != nil {
			fmt.Fprintf(r.errOut, "Error loading file: %v\n", err)
		}
	case ":history":
		r.ShowHistory()
	case ":vars":
		r.ShowVariables()
	case ":debug":
		if len(parts) < 2 {
			fmt.Fprintf(r.out, "Debug mode: %v\n", r.logger.DebugMode)
			break
		}
		switch parts[1] {
		case "on", "true", "1":
			r.logger.DebugMode = true
			fmt.Fprintln(r.out, "Debug mode enabled")
		case "off", "false", "0":
			r.logger.DebugMode = false
			fmt.Fprintln(r.out, "Debug mode disabled")
		default:
			fmt.Fprintln(r.out, "Usage: :debug on|off")
		}
	default:
		fmt.Fprintf(r.out, "Unknown command: %s\n", parts[0])
		fmt.Fprintln(r.out, "Type :help for available commands")
	}

	return false
}

// PrintHelp lists the REPL commands
func (r *REPL) PrintHelp() {
	fmt.Fprintln(r.out, "REPL Commands:")
	fmt.Fprintln(r.out, "  :help, :h          Show this help")
	fmt.Fprintln(r.out, "  :quit, :q, :exit   Exit REPL")
	fmt.Fprintln(r.out, "  :reset             Reset environment")
	fmt.Fprintln(r.out, "  :load <file>       Run a program and keep its functions")
	fmt.Fprintln(r.out, "  :history           Show command history")
	fmt.Fprintln(r.out, "  :vars              Show current variables")
	fmt.Fprintln(r.out, "  :debug on|off      Toggle debug mode")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Enter a statement, with or without < >, or a dragon ... extinguish definition.")
}

// LoadFile runs a program in the session. Its functions stay defined
// afterwards.
func (r *REPL) LoadFile(filename string) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	program, err := parser.FromString(string(content), filename).Parse()
	if err != nil {
		r.report(string(content), err)
		return fmt.Errorf("%s does not parse", filename)
	}
	v, err := r.in.Run(program)
	r.in.Global().ClearReturn()
	if err != nil {
		r.report(string(content), err)
		return fmt.Errorf("%s stopped with an error", filename)
	}

	fmt.Fprintf(r.out, "Loaded file: %s\n", filename)
	if v != nil {
		fmt.Fprintf(r.out, "=> %s\n", interp.Format(v))
	}
	return nil
}

// AddToHistory records an input for :history
func (r *REPL) AddToHistory(line string) {
	r.history = append(r.history, line)
	if len(r.history) > maxHistory {
		r.history = r.history[1:]
	}
}

// ShowHistory prints the inputs of this session
func (r *REPL) ShowHistory() {
	if len(r.history) == 0 {
		fmt.Fprintln(r.out, "No history")
		return
	}

	fmt.Fprintln(r.out, "Command history:")
	for i, cmd := range r.history {
		fmt.Fprintf(r.out, "%3d: %s\n", i+1, cmd)
	}
}

// ShowVariables prints every global binding
func (r *REPL) ShowVariables() {
	global := r.in.Global()
	names := global.Names()
	if len(names) == 0 {
		fmt.Fprintln(r.out, "No variables defined")
		return
	}

	fmt.Fprintln(r.out, "Current variables:")
	for _, name := range names {
		ref, _ := global.Lookup(name)
		if ref.Kind == interp.RefFunction {
			fmt.Fprintf(r.out, "  %s = <function>\n", name)
			continue
		}
		fmt.Fprintf(r.out, "  %s = %s\n", name, interp.Format(ref.Value))
	}
}
