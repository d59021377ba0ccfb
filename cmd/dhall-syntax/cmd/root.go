package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/metaphox/dhall-go/ast"
	"github.com/metaphox/dhall-go/config"
	"github.com/metaphox/dhall-go/parser"
	"github.com/metaphox/dhall-go/render"
)

// errReported is returned by commands that already printed their
// diagnostics. Execute only sets the exit status for it.
var errReported = errors.New("errors reported")

// options are the persistent flags plus the state derived from them before a
// subcommand runs.
type options struct {
	cfgFile  string
	verbose  bool
	maxDepth int
	format   string

	cfg *config.Config
	log *slog.Logger
}

// NewRootCmd builds the dhall-syntax command tree. Every call returns an
// independent tree, so tests can run commands side by side.
func NewRootCmd() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:   "dhall-syntax",
		Short: "Syntax tools for the Dhall configuration language",
		Long: `dhall-syntax parses Dhall source files without evaluating them.

Commands:
  check    - report syntax errors in one or more files
  parse    - dump the syntax tree as JSON or YAML
  fmt      - print a file back as Dhall source`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&o.cfgFile, "config", "", "Config file (TOML or YAML)")
	root.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "Verbose output")
	root.PersistentFlags().IntVar(&o.maxDepth, "max-depth", 0, "Maximum expression nesting depth (default from config)")
	root.PersistentFlags().StringVar(&o.format, "format", "", "AST output format: json or yaml (default from config)")

	root.AddCommand(newCheckCmd(o))
	root.AddCommand(newParseCmd(o))
	root.AddCommand(newFmtCmd(o))
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the command line and prints any error that was not reported
// already.
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil && !errors.Is(err, errReported) {
		printError(root.ErrOrStderr(), err)
	}
	return err
}

func (o *options) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if o.cfgFile != "" {
		loaded, err := config.Load(o.cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if o.maxDepth < 0 {
		return fmt.Errorf("--max-depth must not be negative, got %d", o.maxDepth)
	}
	if o.maxDepth > 0 {
		cfg.Parser.MaxDepth = o.maxDepth
	}
	switch o.format {
	case "":
	case "json", "yaml":
		cfg.Output.Format = o.format
	default:
		return fmt.Errorf("--format must be json or yaml, got %q", o.format)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	if o.verbose {
		level = slog.LevelDebug
	}
	o.cfg = cfg
	o.log = newLogger(cmd.ErrOrStderr(), cfg.Log.Format, level)
	return nil
}

func newLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// parseFile parses src with the configured options.
func (o *options) parseFile(name, src string) (*ast.File, error) {
	return parser.Parse(name, src, o.cfg.ParserOptions(o.log)...)
}

// report prints err for src. Syntax errors get a source excerpt.
func (o *options) report(w io.Writer, src string, err error) error {
	var se *parser.SyntaxError
	if errors.As(err, &se) {
		fmt.Fprint(w, render.Diagnostic(src, se, o.cfg.Output.Color))
		return errReported
	}
	return err
}

// readInput returns the contents of the single file argument, or of stdin
// when there is none or it is "-".
func readInput(cmd *cobra.Command, args []string) (name, src string, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return "<stdin>", string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return args[0], string(data), nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}
