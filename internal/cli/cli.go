package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/symparam/internal/app"
	"github.com/specialistvlad/symparam/internal/sweep"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// pathList collects a flag that may be given more than once.
type pathList []string

func (p *pathList) String() string { return strings.Join(*p, ",") }

func (p *pathList) Set(v string) error {
	if v == "" {
		return errors.New("path must not be empty")
	}
	*p = append(*p, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("symparam", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
symparam - Substitute parameter values into symbolic model equations.

Usage:
  symparam [options] MODEL_PATH

Arguments:
  MODEL_PATH
    Path to a single .hcl model file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	var params pathList
	flagSet.Var(&params, "params", "Parameter file or directory (.csv, .hcl). May be repeated.")
	modelFlag := flagSet.String("model", "", "Path to the model file or directory.")
	mFlag := flagSet.String("m", "", "Path to the model file or directory (shorthand).")
	storeFlag := flagSet.String("store", "", "Path to the parameter set database.")
	saveFlag := flagSet.String("save-set", "", "Save the populated parameter table under this name.")
	loadFlag := flagSet.String("load-set", "", "Start from the parameter set saved under this name.")
	sweepFlag := flagSet.String("sweep", "", "Sweep a parameter over values: 'name=v1,v2,...'.")
	plotFlag := flagSet.String("plot", "", "Write a chart of the sweep to this file (png, svg, pdf).")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *modelFlag != "" {
		path = *modelFlag
	} else if *mFlag != "" {
		path = *mFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Model path determined.", "path", path)

	if path == "" {
		slog.Debug("No model path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	// A CLI run is one process, so saved sets need a file to outlive it.
	if (*saveFlag != "" || *loadFlag != "") && *storeFlag == "" {
		return nil, false, &ExitError{Code: 2, Message: "saving or loading a parameter set requires a store path"}
	}

	var spec *sweep.Spec
	if *sweepFlag != "" {
		s, err := sweep.ParseSpec(*sweepFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		spec = &s
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ModelPath:  path,
		ParamPaths: params,
		StorePath:  *storeFlag,
		SaveSet:    *saveFlag,
		LoadSet:    *loadFlag,
		Sweep:      spec,
		PlotPath:   *plotFlag,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
