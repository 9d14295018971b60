// Package sink writes classified lines to a per-category output file.
package sink

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/eunmann/content-filter/pkg/fileutil"
)

// bufferSize is the write buffer per sink.
const bufferSize = 64 * 1024

// LineSeparator is the platform line terminator written after every line.
var LineSeparator = func() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}()

// Sink is an append-or-truncate output file bound to one category.
// It is not safe for concurrent use.
type Sink struct {
	path    string
	append  bool
	existed bool

	f     *os.File
	w     *bufio.Writer
	lines int64
	bytes int64
}

// Open creates parent directories and opens path for writing. The file is
// truncated unless appendMode is set, in which case writes extend it.
func Open(path string, appendMode bool) (*Sink, error) {
	s := &Sink{
		path:    path,
		append:  appendMode,
		existed: fileutil.IsNonEmpty(path),
	}
	if err := s.open(appendMode); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sink) open(appendMode bool) error {
	if err := fileutil.EnsureDir(filepath.Dir(s.path)); err != nil {
		return err
	}

	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(s.path, flags, 0644)
	if err != nil {
		return fmt.Errorf("open sink %s: %w", s.path, err)
	}
	s.f = f
	s.w = bufio.NewWriterSize(f, bufferSize)
	return nil
}

// Write appends line and a line separator. A closed sink is reopened in
// append mode so earlier output is kept.
func (s *Sink) Write(line string) error {
	if s.f == nil {
		if err := s.open(true); err != nil {
			return err
		}
	}
	n, err := s.w.WriteString(line)
	if err == nil {
		var m int
		m, err = s.w.WriteString(LineSeparator)
		n += m
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	s.lines++
	s.bytes += int64(n)
	return nil
}

// Close flushes and closes the file. Calling Close more than once is a no-op.
func (s *Sink) Close() error {
	if s.f == nil {
		return nil
	}
	f, w := s.f, s.w
	s.f, s.w = nil, nil

	flushErr := w.Flush()
	closeErr := f.Close()
	if flushErr != nil {
		return fmt.Errorf("flush %s: %w", s.path, flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", s.path, closeErr)
	}
	return nil
}

// Remove closes the sink and deletes its file. A missing file is not an error.
func (s *Sink) Remove() (bool, error) {
	if err := s.Close(); err != nil {
		return false, err
	}
	return fileutil.RemoveIfExists(s.path)
}

// Path returns the destination path.
func (s *Sink) Path() string { return s.path }

// Lines returns the number of lines written since Open.
func (s *Sink) Lines() int64 { return s.lines }

// Bytes returns the number of bytes written since Open.
func (s *Sink) Bytes() int64 { return s.bytes }

// Existed reports whether the file had content before Open.
func (s *Sink) Existed() bool { return s.existed }

// AppendMode reports whether the sink was opened in append mode.
func (s *Sink) AppendMode() bool { return s.append }
