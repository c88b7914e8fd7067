package csv

// reader.go prepares remote CSV bodies for decoding.
//
// Published spreadsheets are exported by tools we don't control, so the body
// is wrapped before it reaches Decode:
//
//   - the raw stream is capped at a configured size
//   - a leading UTF-8 BOM (0xEF 0xBB 0xBF) is dropped
//   - invalid UTF-8 bytes are replaced with '?'
//
// Use NewReader to apply all three in the correct order.

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"unicode/utf8"
)

// ErrTooLarge is returned when a body exceeds the size passed to NewReader.
var ErrTooLarge = errors.New("csv body too large")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NewReader wraps r with size capping, BOM skipping and UTF-8 sanitizing.
// A maxBytes of zero or less disables the cap.
func NewReader(r io.Reader, maxBytes int64) io.Reader {
	if maxBytes > 0 {
		r = &cappedReader{src: r, left: maxBytes}
	}
	return NewUTF8Sanitizer(NewBOMSkippingReader(r))
}

// BOMSkippingReader drops a UTF-8 BOM at the start of the stream.
// Partial BOM prefixes are passed through untouched.
type BOMSkippingReader struct {
	src     *bufio.Reader
	checked bool
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{src: bufio.NewReader(r)}
}

// Read implements io.Reader.
func (b *BOMSkippingReader) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true
		if head, err := b.src.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
			if _, err := b.src.Discard(len(utf8BOM)); err != nil {
				return 0, err
			}
		}
	}
	return b.src.Read(p)
}

// UTF8Sanitizer replaces invalid UTF-8 bytes with '?' as the stream is read.
// Multi-byte sequences split across reads of the underlying reader are
// carried over so they are not mistaken for invalid bytes.
type UTF8Sanitizer struct {
	src   io.Reader
	carry []byte
	out   []byte
	err   error
}

// NewUTF8Sanitizer creates a new streaming UTF-8 sanitizer.
func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	return &UTF8Sanitizer{src: r, carry: make([]byte, 0, utf8.UTFMax)}
}

// Read implements io.Reader.
func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(s.out) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		s.fill(len(p))
	}
	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

func (s *UTF8Sanitizer) fill(size int) {
	if size < utf8.UTFMax {
		size = utf8.UTFMax
	}
	buf := make([]byte, len(s.carry), len(s.carry)+size)
	copy(buf, s.carry)
	s.carry = s.carry[:0]

	n, err := s.src.Read(buf[len(buf):cap(buf)])
	buf = buf[:len(buf)+n]
	s.err = err

	if err == nil {
		if k := incompleteTail(buf); k > 0 {
			s.carry = append(s.carry, buf[len(buf)-k:]...)
			buf = buf[:len(buf)-k]
		}
	}
	s.out = sanitizeUTF8(buf)
}

// incompleteTail returns how many bytes at the end of b start a multi-byte
// sequence that is not complete yet.
func incompleteTail(b []byte) int {
	for i := len(b) - 1; i >= 0 && i > len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return len(b) - i
			}
			return 0
		}
	}
	return 0
}

func sanitizeUTF8(b []byte) []byte {
	if utf8.Valid(b) {
		return b
	}
	out := make([]byte, 0, len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			out = append(out, '?')
		} else {
			out = append(out, b[:size]...)
		}
		b = b[size:]
	}
	return out
}

// cappedReader fails with ErrTooLarge instead of silently truncating.
type cappedReader struct {
	src  io.Reader
	left int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	if c.left <= 0 {
		var probe [1]byte
		n, err := c.src.Read(probe[:])
		if n > 0 {
			return 0, ErrTooLarge
		}
		return 0, err
	}
	if int64(len(p)) > c.left {
		p = p[:c.left]
	}
	n, err := c.src.Read(p)
	c.left -= int64(n)
	return n, err
}
