package dump

// streaming.go provides the resilient decoding layer for dump files.
//
// Dumps in the wild mix encodings, carry Windows BOMs, and contain bytes
// that are not valid in any declared charset. Reads never fail on bad
// bytes: invalid sequences are substituted so an unattended conversion run
// can finish. The cost is fidelity, which is acceptable for triage output.
//
//   - bomSkipper: removes a leading UTF-8 BOM (0xEF 0xBB 0xBF)
//   - utf8Sanitizer: replaces invalid UTF-8 sequences with '?'
//   - countingReader: tracks raw bytes consumed for progress reporting
//   - decodeReader / openEncodedWriter: charset conversion via x/text,
//     with unsupported runes replaced rather than rejected

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// isUTF8 reports whether charset names plain UTF-8, the default.
func isUTF8(charset string) bool {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}

func lookupEncoding(charset string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", charset, err)
	}
	return enc, nil
}

// decodeReader wraps r so that reads yield valid UTF-8 regardless of the
// declared charset. UTF-8 input is BOM-stripped and sanitized in place;
// other charsets go through an x/text decoder, which substitutes
// undecodable bytes instead of failing.
func decodeReader(r io.Reader, charset string) (io.Reader, error) {
	if isUTF8(charset) {
		return newUTF8Sanitizer(newBOMSkipper(r)), nil
	}
	enc, err := lookupEncoding(charset)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// openEncodedWriter opens path with flag and returns a writer that encodes
// output in the given charset. Runes the charset cannot represent are
// replaced. Close flushes the encoder before closing the file.
func openEncodedWriter(path string, flag int, charset string) (io.WriteCloser, error) {
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, err
	}
	if isUTF8(charset) {
		return f, nil
	}
	enc, err := lookupEncoding(charset)
	if err != nil {
		f.Close()
		return nil, err
	}
	t := transform.NewWriter(f, encoding.ReplaceUnsupported(enc.NewEncoder()))
	return &chainedCloser{Writer: t, closers: []io.Closer{t, f}}, nil
}

// chainedCloser closes its closers in order, returning the first error.
type chainedCloser struct {
	io.Writer
	closers []io.Closer
}

func (c *chainedCloser) Close() error {
	var first error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// countingReader wraps an io.Reader to track raw bytes consumed. The
// indexer installs it below the decoding layer so progress is measured
// against the file size on disk.
type countingReader struct {
	reader    io.Reader
	bytesRead int64
	total     int64 // 0 if unknown
}

func newCountingReader(r io.Reader, total int64) *countingReader {
	return &countingReader{reader: r, total: total}
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.bytesRead += int64(n)
	return n, err
}

// bomSkipper wraps an io.Reader and skips a leading UTF-8 BOM, which
// Windows tools commonly prepend to text files.
type bomSkipper struct {
	reader  io.Reader
	checked bool
	pending []byte // bytes read during the BOM check that must be replayed
}

func newBOMSkipper(r io.Reader) *bomSkipper {
	return &bomSkipper{reader: r}
}

func (b *bomSkipper) Read(p []byte) (int, error) {
	if !b.checked {
		b.checked = true

		var head [3]byte
		n, err := io.ReadFull(b.reader, head[:])
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if n == 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
			// BOM found, drop it.
		} else {
			b.pending = append(b.pending, head[:n]...)
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
		if len(b.pending) == 0 && err == io.EOF {
			return 0, io.EOF
		}
	}

	if len(b.pending) > 0 {
		n := copy(p, b.pending)
		b.pending = b.pending[n:]
		return n, nil
	}
	return b.reader.Read(p)
}

// utf8Sanitizer wraps an io.Reader and replaces invalid UTF-8 sequences
// with '?' on the fly, keeping memory usage at O(buffer size) instead of
// loading the whole file. A single-byte substitute avoids expanding the
// data mid-stream.
type utf8Sanitizer struct {
	reader io.Reader

	// Trailing bytes from the previous read that may start a multi-byte
	// sequence completed by the next read.
	pending []byte
}

func newUTF8Sanitizer(r io.Reader) *utf8Sanitizer {
	return &utf8Sanitizer{
		reader:  r,
		pending: make([]byte, 0, utf8.UTFMax),
	}
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
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

	// Fast path: pure ASCII needs no checking.
	if allASCII(p[:n]) {
		return n, err
	}

	return s.sanitize(p[:n], err == io.EOF), err
}

// sanitize rewrites data in place and returns the number of valid bytes.
// Unless atEOF, an incomplete sequence at the end is held back in pending
// rather than judged invalid.
func (s *utf8Sanitizer) sanitize(data []byte, atEOF bool) int {
	if utf8.Valid(data) {
		if !atEOF {
			if trailing := incompleteTrailing(data); trailing > 0 {
				s.pending = append(s.pending, data[len(data)-trailing:]...)
				return len(data) - trailing
			}
		}
		return len(data)
	}

	write := 0
	for read := 0; read < len(data); {
		r, size := utf8.DecodeRune(data[read:])

		if !atEOF && read+size >= len(data) && seqLen(data[read]) > len(data)-read {
			s.pending = append(s.pending, data[read:]...)
			return write
		}

		if r == utf8.RuneError && size == 1 {
			data[write] = '?'
			write++
			read++
		} else {
			copy(data[write:], data[read:read+size])
			write += size
			read += size
		}
	}
	return write
}

func allASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}

// incompleteTrailing returns how many bytes at the end of data form the
// start of an incomplete multi-byte sequence, or 0 if the tail is
// complete.
func incompleteTrailing(data []byte) int {
	for i := 1; i <= 3 && i <= len(data); i++ {
		b := data[len(data)-i]
		if b >= 0xC0 {
			if i < seqLen(b) {
				return i
			}
			return 0
		}
		if b&0xC0 != 0x80 {
			return 0
		}
	}
	return 0
}

// seqLen returns the expected length of a UTF-8 sequence starting with b,
// or 0 for a continuation byte.
func seqLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xC0:
		return 0
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	}
	return 4
}
