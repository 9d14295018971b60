// Package source opens pipeline inputs and reads them line by line.
//
// An input name is a local path, "-" for standard input, or an
// s3://bucket/key URI. Names ending in .gz or .zst are decompressed.
package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Stdin is the input name that reads standard input.
const Stdin = "-"

// MaxLineSize bounds a single input line. A longer line fails the read
// with bufio.ErrTooLong.
const MaxLineSize = 16 * 1024 * 1024

// Opener opens the raw byte stream behind an input name.
type Opener interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// Reader reads lines from one input.
type Reader interface {
	// Next returns the next line without its terminator. Returns io.EOF when done.
	Next() (string, error)
	// Close releases resources.
	Close() error
}

// lineReader reads lines from a possibly decompressed stream.
type lineReader struct {
	scanner *bufio.Scanner
	closers []io.Closer
}

// Compression identifies how an input stream is encoded.
type Compression int

// Supported input encodings.
const (
	Plain Compression = iota
	Gzip
	Zstd
)

// CompressionFor picks the encoding from the input name suffix.
func CompressionFor(name string) Compression {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".gz"):
		return Gzip
	case strings.HasSuffix(lower, ".zst"):
		return Zstd
	default:
		return Plain
	}
}

// NewReader wraps r in a line reader, decompressing according to
// CompressionFor(name). The returned reader closes r.
func NewReader(r io.ReadCloser, name string) (Reader, error) {
	var stream io.Reader = r
	closers := []io.Closer{r}

	switch CompressionFor(name) {
	case Gzip:
		gzr, err := gzip.NewReader(r)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		closers = append(closers, gzr)
		stream = gzr
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("create zstd reader: %w", err)
		}
		closers = append(closers, zstdCloser{zr})
		stream = zr
	}

	sc := bufio.NewScanner(stream)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	sc.Split(scanLines)

	return &lineReader{scanner: sc, closers: closers}, nil
}

// scanLines is a bufio.SplitFunc that ends a line at "\n", a lone "\r" or
// "\r\n". The terminator is not part of the token.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// A "\r" at the end of the buffer may be the first half of "\r\n".
		if i+1 == len(data) && !atEOF {
			return 0, nil, nil
		}
		if i+1 < len(data) && data[i+1] == '\n' {
			return i + 2, data[:i], nil
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Next returns the next line.
func (r *lineReader) Next() (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", fmt.Errorf("read line: %w", err)
	}
	return "", io.EOF
}

// Close releases resources.
func (r *lineReader) Close() error {
	var firstErr error
	// Decompressor before the underlying stream.
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// zstd.Decoder.Close has no error result.
type zstdCloser struct{ d *zstd.Decoder }

func (z zstdCloser) Close() error {
	z.d.Close()
	return nil
}

// Router dispatches input names to the local, stdin and S3 openers.
type Router struct {
	Local Opener
	Stdin io.Reader
	// S3 is used for s3:// names. Nil means S3 inputs fail to open.
	S3 Opener
}

// ErrS3Unavailable is returned for s3:// inputs when no S3 opener is configured.
var ErrS3Unavailable = errors.New("s3 inputs are not available")

// NewRouter returns a router over the local file system and os.Stdin.
// The S3 opener is created on first use.
func NewRouter() *Router {
	return &Router{
		Local: LocalOpener{},
		Stdin: os.Stdin,
		S3:    &LazyS3Opener{},
	}
}

// Open opens name and returns a line reader over it.
func (rt *Router) Open(ctx context.Context, name string) (Reader, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	switch {
	case name == Stdin:
		if rt.Stdin == nil {
			return nil, errors.New("standard input is not available")
		}
		rc = io.NopCloser(rt.Stdin)
	case IsS3URI(name):
		if rt.S3 == nil {
			return nil, fmt.Errorf("%s: %w", name, ErrS3Unavailable)
		}
		rc, err = rt.S3.Open(ctx, name)
	default:
		rc, err = rt.Local.Open(ctx, name)
	}
	if err != nil {
		return nil, err
	}
	return NewReader(rc, name)
}

// LocalOpener opens files on the local file system.
type LocalOpener struct{}

// Open opens the file at name for reading.
func (LocalOpener) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}
