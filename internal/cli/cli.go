// Package cli implements the command-line interface for content-filter.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/eunmann/content-filter/internal/config"
	"github.com/eunmann/content-filter/internal/logctx"
	"github.com/eunmann/content-filter/pkg/fileutil"
	"github.com/eunmann/content-filter/pkg/history"
	"github.com/eunmann/content-filter/pkg/logging"
	"github.com/eunmann/content-filter/pkg/pipeline"
	"github.com/eunmann/content-filter/pkg/report"
	"github.com/eunmann/content-filter/pkg/source"
)

// UsageError reports bad or missing arguments. The usage text has already
// been printed when it is returned.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

// Run executes the CLI with the given arguments against the process
// standard streams.
func Run(ctx context.Context, args []string) error {
	return Execute(ctx, args, os.Stdin, os.Stdout, os.Stderr)
}

// Execute runs the CLI with explicit streams. The statistics report goes to
// stdout; usage text and logs go to stderr.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := newRootCommand(stdin, stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	v := config.NewViper()

	cmd := &cobra.Command{
		Use:   "content-filter [flags] <input>...",
		Short: "Split text lines into integer, float and string files",
		Long: fmt.Sprintf(`content-filter reads the given inputs line by line and writes every
non-empty trimmed line to one of integer.txt, floats.txt or strings.txt.
Lines end at "\n", "\r" or "\r\n".

Inputs are local files, "-" for standard input, or s3://bucket/key objects.
Files ending in .gz or .zst are decompressed. A single line may be at most
%d MiB; reading stops at a longer line and the rest of that input is skipped.

Every flag can also be set via a CONTENT_FILTER_<FLAG> environment variable,
e.g. CONTENT_FILTER_OUTPUT.`, source.MaxLineSize>>20),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageError(cmd, "no input files specified")
			}

			envFile, _ := cmd.Flags().GetString(config.KeyEnvFile)
			if err := config.LoadEnvFile(envFile); err != nil {
				return err
			}

			cfg := config.FromViper(v, args)
			if err := cfg.Validate(); err != nil {
				return usageError(cmd, err.Error())
			}
			if err := checkInputs(cfg.Inputs); err != nil {
				return err
			}

			return runFilter(cmd.Context(), cfg, stdin, stdout, stderr)
		},
	}

	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return usageError(c, fmt.Sprintf("error parsing arguments: %v", err))
	})

	fs := cmd.Flags()
	fs.StringP(config.KeyOutput, "o", ".", "output path (default is current directory)")
	fs.StringP(config.KeyPrefix, "p", "", "prefix for output file names")
	fs.BoolP(config.KeyAppend, "a", false, "append to existing output files")
	fs.BoolP(config.KeyStats, "s", false, "print short statistics")
	fs.BoolP(config.KeyFullStats, "f", false, "print full statistics")
	fs.Bool(config.KeyPreserveExisting, false, "in append mode, keep existing output files that receive no new lines")
	fs.String(config.KeyLogLevel, "warn", "log level (trace, debug, info, warn, error, disabled)")
	fs.Bool(config.KeyLogHuman, false, "human-friendly console logs")
	fs.String(config.KeyEnvFile, "", "dotenv file to load (default .env when present)")
	fs.String(config.KeyHistoryDB, "", "SQLite file to record run statistics in")

	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == config.KeyEnvFile {
			return
		}
		// Bind errors only occur for a nil flag.
		_ = v.BindPFlag(f.Name, f)
	})

	return cmd
}

func usageError(cmd *cobra.Command, msg string) error {
	errOut := cmd.ErrOrStderr()
	fmt.Fprintln(errOut, msg)
	fmt.Fprint(errOut, cmd.UsageString())
	return &UsageError{Msg: msg}
}

// checkInputs verifies that every local input is an existing regular file
// before any output is touched.
func checkInputs(inputs []string) error {
	for _, in := range inputs {
		switch {
		case in == source.Stdin:
			continue
		case source.IsS3URI(in):
			if _, _, err := source.ParseS3URI(in); err != nil {
				return err
			}
			continue
		}
		if err := fileutil.CheckRegular(in); err != nil {
			return fmt.Errorf("input file does not exist or is not a regular file: %s", in)
		}
	}
	return nil
}

func runFilter(ctx context.Context, cfg config.Config, stdin io.Reader, stdout, stderr io.Writer) error {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logging.InitTo(stderr, level, cfg.LogHuman)

	ctx = logctx.WithLogger(ctx, *logging.L())
	ctx = logctx.WithRunID(ctx)
	log := logctx.FromContext(ctx)

	if err := fileutil.EnsureDir(cfg.OutputDir); err != nil {
		return err
	}

	log.Info().
		Int("inputs", len(cfg.Inputs)).
		Str("output", cfg.OutputDir).
		Str("prefix", cfg.Prefix).
		Bool("append", cfg.Append).
		Str("stats", cfg.StatsLevel().String()).
		Msg("starting run")

	router := source.NewRouter()
	router.Stdin = stdin

	opts := cfg.PipelineOptions()
	res, err := pipeline.New(opts, router).Run(ctx, cfg.Inputs)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return errors.New("interrupted")
		}
		return err
	}

	if failed := res.Failed(); len(failed) > 0 {
		log.Warn().Int("failed_inputs", len(failed)).Msg("some inputs could not be read")
	}

	if err := report.Write(stdout, res, cfg.StatsLevel()); err != nil {
		return err
	}

	if cfg.HistoryDB == "" {
		return nil
	}
	return recordHistory(ctx, cfg.HistoryDB, history.RunFromResult(logctx.RunID(ctx), opts, res))
}

func recordHistory(ctx context.Context, path string, run history.Run) error {
	store, err := history.Open(history.DefaultConfig(path))
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	if err := store.Record(ctx, run); err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	return nil
}
