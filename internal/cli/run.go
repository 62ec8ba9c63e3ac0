// Package cli wires configuration, logging, the store and the terminal into
// the interactive session.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/calvinalkan/jira-tui/internal/config"
	"github.com/calvinalkan/jira-tui/internal/logging"
	"github.com/calvinalkan/jira-tui/internal/nav"
	"github.com/calvinalkan/jira-tui/internal/store"
	"github.com/calvinalkan/jira-tui/internal/ui"
)

// ErrUnexpectedArgs is returned for positional arguments.
var ErrUnexpectedArgs = errors.New("unexpected arguments")

type globalOptions struct {
	workDir    string
	configPath string
	dbPath     string
	logFile    string
	logLevel   string

	printConfig bool
}

func globalFlagSet(opts *globalOptions) *flag.FlagSet {
	fs := flag.NewFlagSet("jira", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVarP(&opts.workDir, "cwd", "C", "", "Run as if started in `dir`")
	fs.StringVarP(&opts.configPath, "config", "c", "", "Use specified config `file`")
	fs.StringVar(&opts.dbPath, "db", "", "Database file `path` (default data/db.json)")
	fs.StringVar(&opts.logFile, "log-file", "", "Write structured logs to `path`")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log `level`: debug, info, warn, error")
	fs.BoolVar(&opts.printConfig, "print-config", false, "Print the effective config and exit")
	fs.BoolP("help", "h", false, "Show help")

	return fs
}

// Run is the main entry point. Returns exit code.
//
// in and out are the interactive terminal when both are TTYs; otherwise
// input is read line by line, which is how scripted sessions and tests
// drive the program.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string) int {
	o := NewIO(out, errOut)

	var opts globalOptions

	fs := globalFlagSet(&opts)

	err := fs.Parse(args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(out, fs)

			return 0
		}

		o.ErrPrintln("error:", err)
		printUsage(errOut, fs)

		return 1
	}

	if fs.NArg() > 0 {
		o.ErrPrintln("error:", fmt.Errorf("%w: %s", ErrUnexpectedArgs, strings.Join(fs.Args(), " ")))
		printUsage(errOut, fs)

		return 1
	}

	cfg, err := config.Load(config.Input{
		WorkDirOverride: opts.workDir,
		ConfigPath:      opts.configPath,
		DBPathOverride:  opts.dbPath,
		LogFileOverride: opts.logFile,
		LogLevel:        opts.logLevel,
		Env:             env,
	})
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	if opts.printConfig {
		err = printConfig(o, cfg)
		if err != nil {
			o.ErrPrintln("error:", err)

			return 1
		}

		return 0
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	logger, logCloser, err := logging.Open(cfg.LogFileAbs, level)
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	defer func() { _ = logCloser.Close() }()

	terminal := openTerminal(in, out)

	defer func() { _ = terminal.Close() }()

	logger.Info("session started", "cwd", cfg.EffectiveCwd, "db", cfg.DBPathAbs, "global_config", cfg.Sources.Global, "project_config", cfg.Sources.Project)

	s := store.New(store.NewJSONFile(cfg.DBPathAbs), logger)
	navigator := nav.New(s, ui.NewLinePrompter(terminal), logger)

	err = runLoop(terminal, navigator)
	if err != nil && !ui.IsEndOfInput(err) {
		logger.Error("session failed", "err", err)
		o.ErrPrintln("error:", err)

		return 1
	}

	logger.Info("session ended")

	return 0
}

func printConfig(o *IO, cfg config.Config) error {
	formatted, err := config.Format(cfg)
	if err != nil {
		return err
	}

	o.Println(formatted)
	o.Println("")
	o.Println("# cwd:", cfg.EffectiveCwd)
	o.Println("# Sources:")

	if cfg.Sources.Global != "" {
		o.Println("#   global:", cfg.Sources.Global)
	}

	if cfg.Sources.Project != "" {
		o.Println("#   project:", cfg.Sources.Project)
	}

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		o.Println("#   (using defaults only)")
	}

	return nil
}

// openTerminal picks line editing for a real terminal and plain line
// reading for anything else.
func openTerminal(in io.Reader, out io.Writer) ui.Terminal {
	if in == nil {
		in = strings.NewReader("")
	}

	inFile, inOK := in.(*os.File)
	outFile, outOK := out.(*os.File)

	if inOK && outOK && term.IsTerminal(int(inFile.Fd())) && term.IsTerminal(int(outFile.Fd())) {
		return ui.NewLinerTerminal(out)
	}

	return ui.NewStreamTerminal(in, out)
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	_, _ = fmt.Fprintln(w, `jira - terminal epic and story tracker

Usage: jira [flags]

Starts an interactive session on the database file.

Global flags:`)
	_, _ = fmt.Fprint(w, fs.FlagUsages())
}
