package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/timothyrenner/svl/config"
	"github.com/timothyrenner/svl/diag"
	"github.com/timothyrenner/svl/engine"
	"github.com/timothyrenner/svl/location"
)

// options collects every flag cli.py's click command declares.
type options struct {
	debug     bool
	backend   string
	output    string
	datasets  []string
	noBrowser bool
	offlineJS bool
}

// Execute builds and runs the svl command, returning the process exit code.
func Execute() int {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		printCompileError(err)
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "svl SOURCE",
		Short:         "Compile an SVL chart specification into a self-contained HTML document",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.debug, "debug", false, "print the parsed program instead of compiling it")
	flags.StringVarP(&opts.backend, "backend", "b", "", "rendering backend: plotly or vega")
	flags.StringVarP(&opts.output, "output-file", "o", "", "path to write the rendered HTML document to")
	flags.StringArrayVarP(&opts.datasets, "dataset", "d", nil, "additional dataset override, NAME=PATH (repeatable)")
	flags.BoolVar(&opts.noBrowser, "no-browser", false, "don't open the rendered document in a browser")
	flags.BoolVar(&opts.offlineJS, "offline-js", false, "embed the plotting library instead of linking the CDN")

	return cmd
}

func run(sourcePath string, opts options) error {
	cfg, err := config.Load(config.FileName)
	if err != nil {
		return err
	}

	backend := firstNonEmpty(opts.backend, cfg.Backend, "plotly")
	output := firstNonEmpty(opts.output, cfg.OutputFile, "visualization.html")
	var datasets []string
	for name, path := range cfg.Datasets {
		datasets = append(datasets, fmt.Sprintf("%s=%s", name, path))
	}
	datasets = append(datasets, opts.datasets...)

	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return err
	}

	rendered, err := engine.Compile(location.NewSourceID(sourcePath), string(src), engine.Options{
		Backend:   backend,
		Datasets:  datasets,
		OfflineJS: opts.offlineJS,
		Debug:     opts.debug,
	})
	if err != nil {
		return err
	}

	if opts.debug {
		fmt.Println(rendered)
		return nil
	}

	if err := os.WriteFile(output, []byte(rendered), 0o644); err != nil {
		return err
	}

	if !opts.noBrowser {
		openBrowser(output)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// errorPrefixes maps each diagnostic category cli.py's except clauses name
// to the printed prefix it uses, preserved verbatim.
var errorPrefixes = map[diag.Code]string{
	diag.E_SVL_SYNTAX:                     "Syntax error:",
	diag.E_SVL_MISSING_VALUE:              "Syntax error:",
	diag.E_SVL_MISSING_PAREN:              "Syntax error:",
	diag.E_SVL_TYPE:                       "Syntax error:",
	diag.E_SVL_UNSUPPORTED_DECLARATION:    "Syntax error:",
	diag.E_SVL_INVALID_TIME_UNIT:          "Syntax error:",
	diag.E_SVL_INVALID_AGGREGATION:        "Syntax error:",
	diag.E_SVL_INVALID_SORT:               "Syntax error:",
	diag.E_SVL_MISSING_FILE:               "Missing file error:",
	diag.E_SVL_MISSING_DATASET:            "Missing dataset error:",
	diag.E_SVL_DATA_LOAD:                  "Data load error:",
	diag.E_SVL_PLOT:                       "Plot error:",
	diag.E_SVL_DATA_PROCESSING:            "Data processing error:",
	diag.E_SVL_NOT_IMPLEMENTED:            "Not implemented error:",
	diag.E_SVL_CONFIG:                     "Configuration error:",
}

func printCompileError(err error) {
	var dsErr *engine.DatasetSpecError
	if errors.As(err, &dsErr) {
		fmt.Println("Dataset specification error:")
		fmt.Println(dsErr.Error())
		return
	}

	var engErr *engine.Error
	if errors.As(err, &engErr) {
		prefix, ok := errorPrefixes[engErr.Code]
		if !ok {
			prefix = "Error:"
		}
		fmt.Println(prefix)
		fmt.Println(engErr.Error())
		return
	}

	var cfgErr *config.Error
	if errors.As(err, &cfgErr) {
		fmt.Println("Configuration error:")
		fmt.Println(cfgErr.Error())
		return
	}

	fmt.Println("Error:")
	fmt.Println(err.Error())
}

// openBrowser opens path's file:// URL in the default browser, mirroring
// cli.py's webbrowser.open. No pack dependency offers this (it's an OS
// shell-out, not a domain library), so it dispatches directly to each
// platform's standard opener command.
func openBrowser(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	url := "file://" + abs

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
