package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// StdinPath is the path that selects standard input
const StdinPath = "-"

// ErrStdinTwice is returned when both sides of a comparison ask for stdin
var ErrStdinTwice = errors.New("stdin can supply only one side of a comparison")

// ErrTooLarge is returned when an input exceeds the configured size limit
var ErrTooLarge = errors.New("input exceeds size limit")

// Loader reads pasted account lists from files or stdin
type Loader struct {
	stdin    io.Reader
	maxBytes int64
}

// NewLoader creates a loader; maxBytes <= 0 disables the size limit
func NewLoader(stdin io.Reader, maxBytes int64) *Loader {
	if stdin == nil {
		stdin = os.Stdin
	}
	return &Loader{stdin: stdin, maxBytes: maxBytes}
}

// LoadResult contains the loaded text and where it came from
type LoadResult struct {
	Text    string
	Path    string
	Subject string // Human-readable name derived from the path
}

// Load reads the text at path ("-" for stdin)
func (l *Loader) Load(ctx context.Context, path string) (*LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var r io.Reader
	if path == StdinPath {
		r = l.stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	data, err := l.readAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", displayPath(path), err)
	}

	return &LoadResult{
		Text:    string(bytes.TrimPrefix(data, []byte("\uFEFF"))),
		Path:    displayPath(path),
		Subject: extractSubject(path),
	}, nil
}

// LoadPair reads both sides of a comparison
func (l *Loader) LoadPair(ctx context.Context, sourcePath, targetPath string) (*LoadResult, *LoadResult, error) {
	if sourcePath == StdinPath && targetPath == StdinPath {
		return nil, nil, ErrStdinTwice
	}

	source, err := l.Load(ctx, sourcePath)
	if err != nil {
		return nil, nil, fmt.Errorf("source: %w", err)
	}
	target, err := l.Load(ctx, targetPath)
	if err != nil {
		return nil, nil, fmt.Errorf("target: %w", err)
	}
	return source, target, nil
}

func (l *Loader) readAll(r io.Reader) ([]byte, error) {
	if l.maxBytes <= 0 {
		return io.ReadAll(r)
	}

	// Read one byte past the limit to detect oversized input
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, l.maxBytes)
	}
	return data, nil
}

func displayPath(path string) string {
	if path == StdinPath {
		return "<stdin>"
	}
	return path
}

// extractSubject derives a human-readable name from a file path
func extractSubject(path string) string {
	if path == StdinPath {
		return "stdin"
	}

	base := filepath.Base(path)

	// Remove file extensions
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}

	// De-slugify: replace underscores and hyphens with spaces
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")

	return base
}
