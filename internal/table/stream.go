package table

// stream.go wraps downloaded sample files so the CSV reader sees clean text:
//
//   - a leading UTF-8 BOM (0xEF 0xBB 0xBF) written by Excel on Windows is dropped
//   - invalid UTF-8 bytes are replaced with '?' without buffering the whole file
//   - reads beyond a byte limit fail with ErrTooLarge
//
// Use Sanitize to apply BOM removal and UTF-8 repair in the correct order.

import (
	"bufio"
	"errors"
	"io"
	"unicode/utf8"
)

// ErrTooLarge is returned by a LimitReader once its byte budget is exceeded.
var ErrTooLarge = errors.New("file exceeds maximum size")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Sanitize returns a reader with the BOM stripped and invalid UTF-8 repaired.
func Sanitize(r io.Reader) io.Reader {
	return NewUTF8Sanitizer(SkipBOM(r))
}

// SkipBOM returns a reader that omits a leading UTF-8 byte order mark.
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil &&
		head[0] == utf8BOM[0] && head[1] == utf8BOM[1] && head[2] == utf8BOM[2] {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// UTF8Sanitizer replaces invalid UTF-8 bytes with '?' as data streams through.
// A multi-byte sequence split across two reads is carried to the next read.
type UTF8Sanitizer struct {
	reader  io.Reader
	pending []byte
}

// NewUTF8Sanitizer wraps r.
func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	return &UTF8Sanitizer{reader: r, pending: make([]byte, 0, utf8.UTFMax)}
}

// Read implements io.Reader.
func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	offset := 0
	if len(s.pending) > 0 {
		offset = copy(p, s.pending)
		s.pending = s.pending[:0]
	}

	n, err := s.reader.Read(p[offset:])
	n += offset
	if n == 0 {
		return 0, err
	}
	if isASCII(p[:n]) {
		return n, err
	}
	return s.repair(p[:n], err == io.EOF), err
}

// repair rewrites data in place and returns the number of bytes to emit.
func (s *UTF8Sanitizer) repair(data []byte, atEOF bool) int {
	write := 0
	for read := 0; read < len(data); {
		if !atEOF && startsPartialRune(data[read:]) {
			s.pending = append(s.pending, data[read:]...)
			return write
		}

		r, size := utf8.DecodeRune(data[read:])
		if r == utf8.RuneError && size == 1 {
			data[write] = '?'
			write++
			read++
			continue
		}
		copy(data[write:], data[read:read+size])
		write += size
		read += size
	}
	return write
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// startsPartialRune reports whether data is a valid prefix of a multi-byte
// sequence that has not been fully read yet.
func startsPartialRune(data []byte) bool {
	if len(data) >= utf8.UTFMax || utf8.FullRune(data) {
		return false
	}
	return data[0] >= 0xC0
}

// LimitReader fails with ErrTooLarge once more than max bytes have been read.
// A max of zero or less disables the limit.
type LimitReader struct {
	reader io.Reader
	max    int64
	read   int64
}

// NewLimitReader wraps r with a byte budget.
func NewLimitReader(r io.Reader, max int64) *LimitReader {
	return &LimitReader{reader: r, max: max}
}

// Read implements io.Reader.
func (l *LimitReader) Read(p []byte) (int, error) {
	n, err := l.reader.Read(p)
	l.read += int64(n)
	if l.max > 0 && l.read > l.max {
		return n, ErrTooLarge
	}
	return n, err
}

// BytesRead returns the number of bytes consumed so far.
func (l *LimitReader) BytesRead() int64 { return l.read }
