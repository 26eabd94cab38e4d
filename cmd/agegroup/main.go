package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	agegroup "github.com/reoring/agegroup"
	"github.com/reoring/agegroup/extract"
	"github.com/reoring/agegroup/internal/config"
	"github.com/reoring/agegroup/internal/logging"
	"github.com/reoring/agegroup/transform"
)

// Exit codes. Read and decode failures are kept apart so scripts can tell a
// missing file from a malformed one.
const (
	exitOK          = 0
	exitError       = 1
	exitUsage       = 2
	exitReadFailure = 3
	exitDecode      = 4
	exitConversion  = 5
	exitInvalidAge  = 6
)

// app carries state shared by all subcommands of one invocation.
type app struct {
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", agegroup.Report(err))
		return exitCode(err)
	}
	return exitOK
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "agegroup",
		Short: "Classify people in JSON or YAML files by age group",
		Long: `agegroup reads a list of {name, age} objects from JSON or YAML, derives
each person's age group (Child, Teen, Adult, Senior) and writes the result.

The input format is chosen explicitly with --format; content is never sniffed.
Any invalid record fails the whole run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Log, a.verbose)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger.With(zap.String("run_id", uuid.NewString()))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.AddCommand(
		newTransformCmd(a),
		newClassifyCmd(a),
		newSchemaCmd(),
		newWatchCmd(a),
	)
	return root
}

// usageError marks bad flags or arguments.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// usageArgs wraps a cobra argument validator so its failures map to exitUsage.
func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

func exitCode(err error) int {
	var (
		ue *usageError
		ie *transform.InvalidAgeError
		ce *transform.ConversionError
		de *extract.DecodeError
		fe *extract.FileExtractionError
	)
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &ue):
		return exitUsage
	case errors.As(err, &ie):
		return exitInvalidAge
	case errors.As(err, &ce):
		return exitConversion
	case errors.As(err, &de):
		return exitDecode
	case errors.As(err, &fe) && fe.Step == extract.StepRead:
		return exitReadFailure
	default:
		return exitError
	}
}
