// Package lineio reads annotation text line by line from plain, gzip or
// bgzip-compressed sources, detected by content rather than file name.
package lineio

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/bgzf"
)

// Scanner buffer bound, large enough for attribute-heavy lines.
const maxLineBytes = 8 * 1000000

// Reader yields input one line at a time with one line of lookahead,
// line terminators stripped.
type Reader struct {
	scanner *bufio.Scanner
	closers []io.Closer

	next    string
	hasNext bool
	err     error
}

// Open opens path and sniffs its compression.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closers = append(r.closers, f)
	return r, nil
}

// NewReader wraps r, transparently decompressing gzip and bgzip input.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	plain, err := decompressed(br)
	if err != nil {
		return nil, err
	}

	lr := &Reader{scanner: bufio.NewScanner(plain)}
	if c, ok := plain.(io.Closer); ok {
		lr.closers = append(lr.closers, c)
	}
	lr.scanner.Buffer(make([]byte, maxLineBytes), maxLineBytes)
	lr.advance()
	return lr, nil
}

// decompressed inspects the stream's magic bytes and returns a reader
// over the uncompressed content.
func decompressed(br *bufio.Reader) (io.Reader, error) {
	head, err := br.Peek(18)
	if err != nil {
		// Short inputs cannot hold a compression header.
		return br, nil
	}
	if head[0] != 0x1f || head[1] != 0x8b {
		return br, nil
	}
	if isBgzf(head) {
		zr, err := bgzf.NewReader(br, 1)
		if err != nil {
			return nil, fmt.Errorf("open bgzip stream: %w", err)
		}
		return zr, nil
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	return zr, nil
}

// isBgzf reports whether a gzip header carries the BC extra subfield
// that marks bgzip block compression.
func isBgzf(head []byte) bool {
	const flgExtra = 0x04
	return head[3]&flgExtra != 0 && head[12] == 'B' && head[13] == 'C'
}

func (r *Reader) advance() {
	if r.scanner.Scan() {
		r.next = r.scanner.Text()
		r.hasNext = true
		return
	}
	r.next = ""
	r.hasNext = false
	r.err = r.scanner.Err()
}

// HasNext reports whether another line is available.
func (r *Reader) HasNext() bool { return r.hasNext }

// Peek returns the next line without consuming it.
func (r *Reader) Peek() (string, bool) {
	return r.next, r.hasNext
}

// Next consumes and returns the next line.
func (r *Reader) Next() (string, error) {
	if !r.hasNext {
		if r.err != nil {
			return "", r.err
		}
		return "", io.EOF
	}
	line := r.next
	r.advance()
	return line, nil
}

// Err returns the first read error encountered, if any. io.EOF is not
// reported as an error.
func (r *Reader) Err() error { return r.err }

// Close closes the underlying file and decompressor, if any.
func (r *Reader) Close() error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
