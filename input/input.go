// Package input provides the sources of raw timestamp tokens read by the CLI.
package input

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Source is an iterator over whitespace separated timestamp tokens.
type Source interface {
	// Name identifies the source in log and error messages.
	Name() string
	Scan() bool
	Token() string
	// Line is the 1-based line of the current token, 0 for argument lists.
	Line() int
	Err() error
	Close() error
}

// -------------------- ARGUMENTS --------------------

type args struct {
	tokens []string
	pos    int
}

// NewArgs creates a Source over command line arguments. Every argument is
// one token, even when it contains spaces.
func NewArgs(tokens []string) Source {
	return &args{tokens: tokens, pos: -1}
}

// Name implements Source interface.
func (a *args) Name() string { return "args" }

// Scan implements Source interface.
func (a *args) Scan() bool {
	if a.pos+1 >= len(a.tokens) {
		a.pos = len(a.tokens)
		return false
	}
	a.pos++
	return true
}

// Token implements Source interface.
func (a *args) Token() string {
	if a.pos < 0 || a.pos >= len(a.tokens) {
		return ""
	}
	return a.tokens[a.pos]
}

// Line implements Source interface.
func (a *args) Line() int { return 0 }

// Err implements Source interface.
func (a *args) Err() error { return nil }

// Close implements Source interface.
func (a *args) Close() error { return nil }

// -------------------- READER --------------------

type reader struct {
	name    string
	scanner *bufio.Scanner
	closer  io.Closer
	pending []string
	token   string
	line    int
	err     error
}

// NewReader creates a Source reading lines from r. Text after '#' is a comment.
func NewReader(name string, r io.Reader) Source {
	rd := &reader{name: name, scanner: bufio.NewScanner(r)}
	if c, ok := r.(io.Closer); ok && r != os.Stdin {
		rd.closer = c
	}
	return rd
}

// NewFile opens the file at path as a Source.
func NewFile(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening input '%s' failed", path)
	}
	return NewReader(path, f), nil
}

// Name implements Source interface.
func (r *reader) Name() string { return r.name }

// Scan implements Source interface.
func (r *reader) Scan() bool {
	for len(r.pending) == 0 {
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				r.err = errors.Wrapf(err, "reading %s failed", r.name)
			}
			r.token = ""
			return false
		}
		r.line++
		text := r.scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		r.pending = strings.Fields(text)
	}
	r.token, r.pending = r.pending[0], r.pending[1:]
	return true
}

// Token implements Source interface.
func (r *reader) Token() string { return r.token }

// Line implements Source interface.
func (r *reader) Line() int { return r.line }

// Err implements Source interface.
func (r *reader) Err() error { return r.err }

// Close implements Source interface.
func (r *reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
