// Package pipeline routes input lines to per-category output files and
// accumulates per-category statistics.
//
// A run reads its inputs strictly in order on the calling goroutine:
//
//	p := pipeline.New(opts, source.NewRouter())
//	res, err := p.Run(ctx, inputs)
//
// Output files for categories that received no lines are removed when the
// run ends.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/eunmann/content-filter/internal/logctx"
	"github.com/eunmann/content-filter/pkg/classify"
	"github.com/eunmann/content-filter/pkg/logging"
	"github.com/eunmann/content-filter/pkg/sink"
	"github.com/eunmann/content-filter/pkg/source"
)

// Output file names, prefixed with Options.Prefix.
const (
	IntegerFile = "integer.txt"
	FloatFile   = "floats.txt"
	StringFile  = "strings.txt"
)

// cancelCheckInterval is how many lines are read between context checks.
const cancelCheckInterval = 4096

// FileName returns the unprefixed output file name for c.
func FileName(c classify.Category) string {
	switch c {
	case classify.Integer:
		return IntegerFile
	case classify.Float:
		return FloatFile
	default:
		return StringFile
	}
}

// PrunePolicy decides which empty output files are removed at the end of a run.
type PrunePolicy int

const (
	// PruneAlways removes every output file whose category received no lines.
	PruneAlways PrunePolicy = iota
	// PrunePreserveExisting keeps, in append mode, files that already had
	// content before the run even if they received no new lines.
	PrunePreserveExisting
)

// Options configures a run.
type Options struct {
	OutputDir string
	Prefix    string
	Append    bool
	Prune     PrunePolicy
}

// OutputPath returns the output file path for c.
func (o Options) OutputPath(c classify.Category) string {
	dir := o.OutputDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, o.Prefix+FileName(c))
}

// InputOpener opens an input by name.
type InputOpener interface {
	Open(ctx context.Context, name string) (source.Reader, error)
}

// Pipeline classifies lines from its inputs into three output files.
type Pipeline struct {
	opts   Options
	opener InputOpener
}

// New creates a pipeline.
func New(opts Options, opener InputOpener) *Pipeline {
	return &Pipeline{opts: opts, opener: opener}
}

// run holds the state of a single Run call.
type run struct {
	sinks  [len(classify.Categories)]*sink.Sink
	result *Result
}

// Run processes inputs in order and returns the per-category statistics.
//
// An input that cannot be opened or read is logged, recorded in
// Result.Inputs and skipped. Failing to open, write or close an output
// file, or cancellation, aborts the run: outputs that already received
// lines are left in place, the others are pruned as at the end of a run.
func (p *Pipeline) Run(ctx context.Context, inputs []string) (*Result, error) {
	start := time.Now()
	tracker := logging.NewProgressTracker(int64(len(inputs)))
	log := logctx.FromContext(ctx).With().Str("phase", "classify").Logger()

	r := &run{result: newResult()}
	if err := r.openSinks(p.opts); err != nil {
		return nil, r.abort(ctx, p.opts.Prune, err)
	}

	for i, name := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, r.abort(ctx, p.opts.Prune, err)
		}

		log.Debug().Str("input", name).Int64("remaining", tracker.Remaining()).Msg("reading input")
		in, err := p.processInput(logctx.WithInt(ctx, "input_index", i), r, name)
		if err != nil {
			return nil, r.abort(ctx, p.opts.Prune, err)
		}
		r.result.Inputs = append(r.result.Inputs, in)
		if in.Err != nil {
			tracker.RecordFailure(in.Lines)
		} else {
			tracker.RecordCompletion(in.Lines)
		}
	}

	if err := r.closeSinks(); err != nil {
		return nil, r.abort(ctx, p.opts.Prune, err)
	}
	var written int64
	for _, s := range r.sinks {
		written += s.Bytes()
	}
	if err := r.prune(ctx, p.opts.Prune); err != nil {
		return nil, err
	}

	res := r.result
	res.Started = start
	res.Elapsed = tracker.Elapsed()
	logging.PhaseComplete(log, "classify", res.Elapsed).
		ProgressFromTracker(tracker).
		Count("lines", tracker.Lines()).
		Count("blank_lines", res.BlankLines).
		CountUint64("integers", res.Integers.Count()).
		CountUint64("floats", res.Floats.Count()).
		CountUint64("strings", res.Strings.Count()).
		Bytes("output_bytes", written).
		LineRate(tracker.Lines()).
		Log("run complete")

	return res, nil
}

func (r *run) openSinks(opts Options) error {
	for _, c := range classify.Categories {
		s, err := sink.Open(opts.OutputPath(c), opts.Append)
		if err != nil {
			return err
		}
		r.sinks[c] = s
	}
	return nil
}

// closeSinks closes every open sink and returns the first error.
func (r *run) closeSinks() error {
	var firstErr error
	for _, s := range r.sinks {
		if s == nil {
			continue
		}
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// processInput reads one input. Read errors are reported in the returned
// InputResult; only output failures and cancellation are returned as errors.
func (p *Pipeline) processInput(ctx context.Context, r *run, name string) (InputResult, error) {
	start := time.Now()
	ctx = logctx.WithStr(ctx, "input", name)
	log := logctx.FromContext(ctx)
	in := InputResult{Name: name}

	reader, err := p.opener.Open(ctx, name)
	if err != nil {
		in.Err = err
		log.Error().Err(err).Msg("skipping input")
		return in, nil
	}
	defer reader.Close()

	for {
		if in.Lines%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return in, err
			}
		}

		line, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			in.Err = err
			log.Error().Err(err).Int64("lines_read", in.Lines).Msg("skipping rest of input")
			return in, nil
		}
		in.Lines++

		if err := r.route(line); err != nil {
			return in, err
		}
	}

	logging.FileProcessed(log, "classify", time.Since(start)).
		Str("input", name).
		Count("lines", in.Lines).
		LineRate(in.Lines).
		LogDebug("input processed")
	return in, nil
}

// isTrimmed reports whether r is stripped from line ends: ASCII space and
// control characters up to U+0020. Unicode spaces such as U+00A0 are kept.
func isTrimmed(r rune) bool {
	return r <= ' '
}

// route classifies one raw line and feeds the matching sink and accumulator.
func (r *run) route(raw string) error {
	trimmed := strings.TrimFunc(raw, isTrimmed)
	if trimmed == "" {
		r.result.BlankLines++
		return nil
	}

	line := classify.Parse(trimmed)
	if err := r.sinks[line.Category].Write(line.Raw); err != nil {
		return err
	}

	switch line.Category {
	case classify.Integer:
		r.result.Integers.Add(line.Int)
	case classify.Float:
		r.result.Floats.Add(line.Float)
	default:
		r.result.Strings.Add(line.Raw)
	}
	return nil
}

// abort closes the sinks and prunes outputs that received no lines before
// the run stopped. Cleanup failures are logged; err is returned unchanged.
func (r *run) abort(ctx context.Context, policy PrunePolicy, err error) error {
	log := logctx.FromContext(ctx)
	if closeErr := r.closeSinks(); closeErr != nil && closeErr != err {
		log.Warn().Err(closeErr).Msg("closing outputs of aborted run")
	}
	if pruneErr := r.prune(ctx, policy); pruneErr != nil {
		log.Warn().Err(pruneErr).Msg("pruning outputs of aborted run")
	}
	return err
}

// prune removes output files of categories that received no lines.
func (r *run) prune(ctx context.Context, policy PrunePolicy) error {
	log := logctx.FromContext(ctx).With().Str("phase", "prune").Logger()

	for _, c := range classify.Categories {
		s := r.sinks[c]
		if s == nil || r.result.Count(c) > 0 {
			continue
		}
		if policy == PrunePreserveExisting && s.AppendMode() && s.Existed() {
			log.Debug().Str("path", s.Path()).Msg("keeping existing output with no new lines")
			continue
		}

		start := time.Now()
		removed, err := s.Remove()
		if err != nil {
			return fmt.Errorf("remove empty %s output: %w", c, err)
		}
		if removed {
			r.result.Removed = append(r.result.Removed, s.Path())
			logging.FileRemoved(log, "prune", time.Since(start)).
				Str("path", s.Path()).
				Str("category", c.String()).
				LogDebug("removed empty output")
		}
	}
	return nil
}
