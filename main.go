package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/chainguard-dev/clog"
	"github.com/fatih/color"

	"github.com/mcncl/jsonmodel/internal/config"
	"github.com/mcncl/jsonmodel/internal/errors"
	"github.com/mcncl/jsonmodel/internal/formatter"
	"github.com/mcncl/jsonmodel/internal/generator"
	"github.com/mcncl/jsonmodel/internal/models"
	"github.com/mcncl/jsonmodel/internal/naming"
	"github.com/mcncl/jsonmodel/internal/parser"
	"github.com/mcncl/jsonmodel/internal/prompt"
	"github.com/mcncl/jsonmodel/internal/sqlcheck"
	"github.com/mcncl/jsonmodel/internal/watch"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to a file holding the JSON object, one member per line. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string `help:"Path to the output file. If not specified, writes to stdout." short:"o" type:"path"`
	Class       string `help:"Name of the generated class." short:"c"`
	Database    bool   `help:"Generate the table definition and database methods." short:"b"`
	Master      bool   `help:"Add getObjById and getNameList to the database methods." short:"m"`
	FilterField string `help:"JSON key getObj filters on (case-insensitive match)." short:"F" name:"filter-field"`
	IDField     string `help:"JSON key whose field is renamed to id." name:"id-field"`
	Config      string `help:"Path to a config file. Defaults to the nearest .jsonmodel.yml." type:"path"`
	NoFormat    bool   `help:"Print the generated class without reformatting it." name:"no-format"`
	Verify      bool   `help:"Run the generated SQL against an in-memory SQLite database."`
	Watch       bool   `help:"Regenerate whenever the input file changes. Requires --input." short:"w"`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Ask for the class name, options and JSON one question at a time." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
}

// Version information
const (
	Version = "0.1.0"
)

// promptOnTerminal starts the console flow when no flags were given and stdin is a terminal
var promptOnTerminal bool

func main() {
	app := kong.Must(&CLI,
		kong.Name("jsonmodel"),
		kong.Description("Generate a data class with fromJson and database methods from a JSON object"),
		kong.UsageOnError(),
	)

	_, err := app.Parse(os.Args[1:])
	app.FatalIfErrorf(err)

	// No arguments at all means the console flow when stdin is a terminal
	promptOnTerminal = len(os.Args) == 1

	if CLI.Version {
		fmt.Printf("jsonmodel version %s\n", Version)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
	ctx = withLogger(ctx, cfg.Dev.Debug)

	rc := &Context{Debug: cfg.Dev.Debug, Config: cfg}
	if CLI.Watch {
		err = runWatch(ctx, rc)
	} else {
		err = run(ctx, rc)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsonmodel --help\n")
		os.Exit(1)
	}
}

// loadConfig layers the config file, JSONMODEL_* variables and CLI flags
func loadConfig(ctx context.Context) (*config.Config, error) {
	path := CLI.Config
	if path == "" {
		path = config.FindConfigFile()
	}

	cfg, err := config.LoadConfigWithCLI(ctx, path, nil, config.CLIOverrides{
		ClassName:   CLI.Class,
		Database:    CLI.Database,
		Master:      CLI.Master,
		FilterField: CLI.FilterField,
		IDField:     CLI.IDField,
		NoFormat:    CLI.NoFormat,
		Verify:      CLI.Verify,
		Debug:       CLI.Debug,
	})
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to load configuration from '%s'", path), err)
	}
	return cfg, nil
}

func withLogger(ctx context.Context, debug bool) context.Context {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return clog.WithLogger(ctx, clog.New(handler))
}

// run executes the main program logic
func run(ctx context.Context, rc *Context) error {
	// 1. Collect the request
	req, interactive, err := parseInput(rc.Config)
	if err != nil {
		return err
	}

	// 2. Generate, verify and format the class
	code, err := generate(ctx, rc.Config, req)
	if err != nil {
		return err
	}

	// 3. Output the result
	return writeOutput(code, rc.Config.Output.Banner || interactive)
}

// runWatch regenerates the output every time the input file changes
func runWatch(ctx context.Context, rc *Context) error {
	if CLI.Input == "" {
		return errors.NewInputError("watch mode needs an input file", errors.ErrNoInput)
	}
	return watch.New(CLI.Input, func(ctx context.Context) error {
		return run(ctx, rc)
	}).Run(ctx)
}

// parseInput builds the generation request from a file, the interactive prompt or piped
// stdin. With --interactive the prompt reads stdin in any mode. The boolean reports whether
// the prompt was used.
func parseInput(cfg *config.Config) (models.Request, bool, error) {
	req := models.Request{
		ClassName: cfg.ResolvedClassName(),
		Options:   cfg.Options(),
	}

	if CLI.Input != "" {
		lines, err := parser.ParseFile(CLI.Input)
		if err != nil {
			return req, false, err
		}
		req.Lines = lines
		return req, false, nil
	}

	if CLI.Interactive {
		return collect(cfg, req)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return req, false, errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		if !promptOnTerminal {
			return req, false, errors.NewInputError("no input provided", errors.ErrNoInput)
		}
		return collect(cfg, req)
	}

	lines, err := parser.Parse(os.Stdin)
	if err != nil {
		return req, false, err
	}
	req.Lines = lines
	return req, false, nil
}

// collect runs the console flow on stdin, whether it is a terminal or a file of answers
func collect(cfg *config.Config, defaults models.Request) (models.Request, bool, error) {
	req, err := prompt.New(os.Stdin, os.Stderr).Collect(defaults)
	if err != nil {
		return req, true, err
	}
	if cfg.Naming.NormalizeClassName {
		req.ClassName = naming.ClassName(req.ClassName)
	}
	return req, true, nil
}

// generate turns the request into the final document
func generate(ctx context.Context, cfg *config.Config, req models.Request) (string, error) {
	log := clog.FromContext(ctx).With("class", req.ClassName)

	if strings.TrimSpace(req.ClassName) == "" {
		return "", errors.NewInputError("no class name given, pass one with -c", errors.ErrMissingClassName)
	}

	result, err := generator.NewGeneratorWithTemplate(cfg.Template()).Generate(req)
	if err != nil {
		return "", errors.NewGenerateError(fmt.Sprintf("failed to generate class %s", req.ClassName), err)
	}

	log.Debugf("discovered %d field(s)", len(result.Fields))
	for _, f := range result.Fields {
		log.Debug("field", "json_key", f.JSONKey, "name", f.Name, "type", f.Type.String(), "column", f.StorageName)
	}

	if cfg.Persistence.Verify {
		if result.Statements == nil {
			log.Warnf("nothing to verify: database output is off")
		} else {
			report, err := sqlcheck.Verify(ctx, *result.Statements)
			if err != nil {
				return "", errors.NewVerifyError(fmt.Sprintf("table %s was rejected", result.Statements.TableName), err)
			}
			log.Infof("schema verified: %d statement(s) ran against table %s", len(report.Executed), report.Table)
		}
	}

	code := result.Code
	if cfg.Output.Format {
		code, err = formatter.NewFormatterWithIndent(cfg.Output.Indent).Format(code)
		if err != nil {
			return "", errors.NewFormatError("failed to format generated class", err)
		}
	}
	return code, nil
}

// writeOutput writes the generated code to a file or stdout
func writeOutput(code string, banner bool) error {
	if CLI.Output != "" {
		err := os.WriteFile(CLI.Output, []byte(code), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Generated class written to %s\n", CLI.Output)
		return nil
	}

	marker := color.New(color.FgGreen, color.Bold)
	if banner {
		fmt.Println()
		marker.Fprintln(os.Stdout, "======== COPY BELOW =======")
		fmt.Println()
	}
	if _, err := fmt.Println(strings.TrimSpace(code)); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	if banner {
		fmt.Println()
		marker.Fprintln(os.Stdout, "======== COPY ABOVE =======")
	}
	return nil
}
