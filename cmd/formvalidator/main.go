package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/formvalidator/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(execute(newRootCmd()))
}

// execute runs cmd and writes a returned error to its error stream in the
// format selected by --error-format. It returns the exit code.
func execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	name, _ := cmd.PersistentFlags().GetString("error-format")
	out, perr := errors.ParseOutput(name)
	if perr != nil {
		out = errors.OutputAuto
	}
	errors.Fprint(cmd.ErrOrStderr(), err, out)
	return 1
}

func newRootCmd() *cobra.Command {
	var (
		verbose     bool
		errorFormat string
	)

	rootCmd := &cobra.Command{
		Use:   "formvalidator",
		Short: "Declarative form validation",
		Long: `formvalidator checks HTML forms against declarative rules.

Rules are declared in formvalidator.json (or formvalidator.yaml) next to
the page holding the form. The same rules drive:

  • check: validate a page offline with given field values
  • serve: a live server validating the page as the user types
  • init:  a starter project with a registration form`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := errors.ParseOutput(errorFormat); err != nil {
				return err
			}
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), verbose))
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&errorFormat, "error-format", string(errors.OutputAuto),
		"Error output: auto, pretty, compact or json")

	rootCmd.AddCommand(
		checkCmd(),
		serveCmd(),
		initCmd(),
		versionCmd(),
	)

	return rootCmd
}

// newLogger returns a text logger on w at info level, or debug when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
