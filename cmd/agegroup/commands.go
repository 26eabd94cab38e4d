package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	j "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	agegroup "github.com/reoring/agegroup"
	"github.com/reoring/agegroup/extract"
	"github.com/reoring/agegroup/internal/render"
	"github.com/reoring/agegroup/internal/watch"
	"github.com/reoring/agegroup/transform"
)

// formatFlags are the --format/--output/--strict flags shared by transform
// and watch.
type formatFlags struct {
	input  string
	output string
	strict bool
}

func (f *formatFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "format", "f", "", "input format: json or yaml (default from config)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output format: json or yaml (default from config)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "reject input that does not match the JSON Schema exactly")
}

// resolve applies the flags over the loaded config.
func (f *formatFlags) resolve(a *app) (in, out extract.Format, strict bool, err error) {
	in, out, strict = a.cfg.Input.Format, a.cfg.Output.Format, a.cfg.Input.Strict || f.strict
	if f.input != "" {
		if in, err = extract.ParseFormat(f.input); err != nil {
			return in, out, strict, &usageError{err: fmt.Errorf("--format: %w", err)}
		}
	}
	if f.output != "" {
		if out, err = extract.ParseFormat(f.output); err != nil {
			return in, out, strict, &usageError{err: fmt.Errorf("--output: %w", err)}
		}
	}
	return in, out, strict, nil
}

func newTransformCmd(a *app) *cobra.Command {
	var (
		ff      formatFlags
		content string
	)
	cmd := &cobra.Command{
		Use:   "transform [path]",
		Short: "Classify every person in a file, a string, or stdin",
		Long: `Reads people from path, from --string, or from stdin when neither is given,
and writes them with their age group in the output format.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out, strict, err := ff.resolve(a)
			if err != nil {
				return err
			}
			if len(args) == 1 && cmd.Flags().Changed("string") {
				return &usageError{err: fmt.Errorf("give either a path or --string, not both")}
			}
			tr := transform.New(transform.WithLogger(a.logger), transform.WithStrictShape(strict))

			var people []transform.Person
			switch {
			case len(args) == 1:
				people, err = tr.TransformFile(args[0], in)
			case cmd.Flags().Changed("string"):
				people, err = tr.TransformString(content, in)
			default:
				b, rerr := io.ReadAll(cmd.InOrStdin())
				if rerr != nil {
					return fmt.Errorf("read stdin: %w", rerr)
				}
				people, err = tr.TransformString(string(b), in)
			}
			if err != nil {
				return err
			}
			a.logger.Info("transformed", zap.Int("people", len(people)))
			return render.Write(cmd.OutOrStdout(), people, out)
		},
	}
	ff.register(cmd)
	cmd.Flags().StringVarP(&content, "string", "s", "", "inline input content")
	return cmd
}

func newClassifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify AGE...",
		Short: "Print the age group of each age",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				age, err := strconv.ParseUint(arg, 10, 8)
				if err != nil {
					return &usageError{err: fmt.Errorf("age %q: %w", arg, err)}
				}
				g, err := transform.FromAge(uint8(age))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", age, g)
			}
			a.logger.Debug("classified", zap.Int("ages", len(args)))
			return nil
		},
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of accepted input",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := j.MarshalIndent(transform.Schema(), "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", b)
			return err
		},
	}
}

func newWatchCmd(a *app) *cobra.Command {
	var ff formatFlags
	cmd := &cobra.Command{
		Use:   "watch path",
		Short: "Transform a file now and again on every change",
		Long: `Runs transform on path, then again after every change until interrupted.
Failures are logged and do not stop the watch.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out, strict, err := ff.resolve(a)
			if err != nil {
				return err
			}
			tr := transform.New(transform.WithLogger(a.logger), transform.WithStrictShape(strict))

			once := func(_ context.Context, path string) {
				people, err := tr.TransformFile(path, in)
				if err != nil {
					a.logger.Error("transform failed", zap.String("path", path), zap.Int("exit_code", exitCode(err)), zap.String("report", agegroup.Report(err)))
					return
				}
				if err := render.Write(cmd.OutOrStdout(), people, out); err != nil {
					a.logger.Error("render failed", zap.Error(err))
				}
			}

			w, err := watch.New(args[0], a.cfg.Watch.Debounce, once, a.logger)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			once(ctx, args[0])
			return w.Run(ctx)
		},
	}
	ff.register(cmd)
	return cmd
}
