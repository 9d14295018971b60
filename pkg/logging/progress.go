package logging

import (
	"time"

	"github.com/eunmann/content-filter/pkg/humanfmt"
	"github.com/rs/zerolog"
)

// ProgressTracker tracks progress over the input files of a run.
// A run is single-threaded, so the tracker is not safe for concurrent use.
type ProgressTracker struct {
	total     int64
	completed int64
	failed    int64
	lines     int64
	startTime time.Time
}

// NewProgressTracker creates a tracker for total inputs.
func NewProgressTracker(total int64) *ProgressTracker {
	return &ProgressTracker{
		total:     total,
		startTime: time.Now(),
	}
}

// RecordCompletion records that an input was read to the end.
func (pt *ProgressTracker) RecordCompletion(lines int64) {
	pt.completed++
	pt.lines += lines
}

// RecordFailure records that an input was skipped because of an error.
// Lines read before the error still count.
func (pt *ProgressTracker) RecordFailure(lines int64) {
	pt.failed++
	pt.lines += lines
}

// Progress returns current progress stats.
func (pt *ProgressTracker) Progress() (completed, failed, total int64) {
	return pt.completed, pt.failed, pt.total
}

// ProgressPct returns the progress percentage (0-100).
func (pt *ProgressTracker) ProgressPct() float64 {
	if pt.total == 0 {
		return 100.0
	}
	return float64(pt.completed+pt.failed) * 100.0 / float64(pt.total)
}

// Lines returns the number of lines read so far.
func (pt *ProgressTracker) Lines() int64 {
	return pt.lines
}

// Elapsed returns time since tracking started.
func (pt *ProgressTracker) Elapsed() time.Duration {
	return time.Since(pt.startTime)
}

// Remaining returns how many inputs are left.
func (pt *ProgressTracker) Remaining() int64 {
	return pt.total - pt.completed - pt.failed
}

// CompletionEvent helps build consistent completion log events.
type CompletionEvent struct {
	log     zerolog.Logger
	event   string
	phase   string
	elapsed time.Duration
	fields  map[string]interface{}
}

// NewCompletionEvent creates a new completion event builder.
func NewCompletionEvent(log zerolog.Logger, event, phase string, elapsed time.Duration) *CompletionEvent {
	return &CompletionEvent{
		log:     log,
		event:   event,
		phase:   phase,
		elapsed: elapsed,
		fields:  make(map[string]interface{}),
	}
}

// Str adds a string field.
func (ce *CompletionEvent) Str(key, val string) *CompletionEvent {
	ce.fields[key] = val
	return ce
}

// Int adds an int field.
func (ce *CompletionEvent) Int(key string, val int) *CompletionEvent {
	ce.fields[key] = val
	return ce
}

// Count adds count with optional human-readable companion.
func (ce *CompletionEvent) Count(key string, n int64) *CompletionEvent {
	ce.fields[key] = n
	if IsPrettyMode() {
		ce.fields[key+"_h"] = humanfmt.Count(n)
	}
	return ce
}

// CountUint64 adds a uint64 count field.
func (ce *CompletionEvent) CountUint64(key string, n uint64) *CompletionEvent {
	return ce.Count(key, int64(n))
}

// Bytes adds byte count with optional human-readable companion.
func (ce *CompletionEvent) Bytes(key string, bytes int64) *CompletionEvent {
	ce.fields[key] = bytes
	if IsPrettyMode() {
		ce.fields[key+"_h"] = humanfmt.Bytes(bytes)
	}
	return ce
}

// LineRate adds a lines-per-second field computed from the event duration.
func (ce *CompletionEvent) LineRate(lines int64) *CompletionEvent {
	if ce.elapsed > 0 {
		ce.fields["lines_per_sec"] = float64(lines) / ce.elapsed.Seconds()
		if IsPrettyMode() {
			ce.fields["lines_per_sec_h"] = humanfmt.Rate(lines, ce.elapsed, "lines")
		}
	}
	return ce
}

// ProgressFromTracker adds progress fields from a ProgressTracker.
func (ce *CompletionEvent) ProgressFromTracker(pt *ProgressTracker) *CompletionEvent {
	completed, failed, total := pt.Progress()
	ce.fields["completed"] = completed
	ce.fields["failed"] = failed
	ce.fields["total"] = total
	ce.fields["progress_pct"] = pt.ProgressPct()
	return ce
}

// Log emits the completion event.
func (ce *CompletionEvent) Log(msg string) {
	ce.emit(ce.log.Info(), msg)
}

// LogDebug emits the completion event at debug level.
func (ce *CompletionEvent) LogDebug(msg string) {
	ce.emit(ce.log.Debug(), msg)
}

func (ce *CompletionEvent) emit(e *zerolog.Event, msg string) {
	e = e.Str("event", ce.event).
		Str("phase", ce.phase).
		Int64("duration_ms", ce.elapsed.Milliseconds())

	if IsPrettyMode() {
		e = e.Str("duration_h", humanfmt.Duration(ce.elapsed))
	}

	for k, v := range ce.fields {
		e = e.Interface(k, v)
	}

	e.Msg(msg)
}

// PhaseComplete logs a phase completion event.
func PhaseComplete(log zerolog.Logger, phase string, elapsed time.Duration) *CompletionEvent {
	return NewCompletionEvent(log, "phase_completed", phase, elapsed)
}

// FileProcessed logs the completion of one input file.
func FileProcessed(log zerolog.Logger, phase string, elapsed time.Duration) *CompletionEvent {
	return NewCompletionEvent(log, "file_processed", phase, elapsed)
}

// FileRemoved logs the removal of an output file that received no lines.
func FileRemoved(log zerolog.Logger, phase string, elapsed time.Duration) *CompletionEvent {
	return NewCompletionEvent(log, "file_removed", phase, elapsed)
}
