package source

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/csvutils-cli/internal/profile"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Source yields the records of one delimited file. Rows may differ in
// length. A Source must be closed.
type Source struct {
	path    string
	opt     Options
	header  profile.Header
	closers []io.Closer

	csv   *csv.Reader
	lines *bufio.Reader

	records    int // records read so far, header included
	done       bool
	strictUTF8 bool
}

// Open validates opt, opens path and, when opt.SkipHeader is set, consumes
// the header record. Paths ending in .gz are decompressed.
func Open(path string, opt Options) (*Source, error) {
	if opt.Delimiter == 0 {
		opt.Delimiter = ','
	}
	if err := validDelimiter(opt.Delimiter); err != nil {
		return nil, err
	}
	dec, err := decoder(opt.Encoding)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	s := &Source{path: path, opt: opt, closers: []io.Closer{f}}

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			_ = s.Close()
			return nil, &OpenError{Path: path, Err: fmt.Errorf("gzip: %w", err)}
		}
		s.closers = append(s.closers, gz)
		r = gz
	}
	if dec == nil {
		r = skipBOM(r)
		s.strictUTF8 = true
	} else {
		r = transform.NewReader(r, dec)
	}

	if opt.Quotes {
		cr := csv.NewReader(r)
		cr.Comma = opt.Delimiter
		cr.FieldsPerRecord = -1
		cr.ReuseRecord = true
		cr.LazyQuotes = true
		s.csv = cr
	} else {
		s.lines = bufio.NewReader(r)
	}

	if opt.SkipHeader {
		rec, err := s.read()
		switch {
		case errors.Is(err, io.EOF):
			s.done = true
		case err != nil:
			_ = s.Close()
			return nil, err
		default:
			s.header = append(profile.Header(nil), rec...)
		}
	}
	return s, nil
}

// Header returns the header labels, or nil when no header was requested.
func (s *Source) Header() profile.Header { return s.header }

// Path is the path the source was opened with.
func (s *Source) Path() string { return s.path }

// Next returns the next data record or io.EOF. The returned slice is only
// valid until the following call.
func (s *Source) Next() ([]string, error) {
	if s.done {
		return nil, io.EOF
	}
	rec, err := s.read()
	if errors.Is(err, io.EOF) {
		s.done = true
	}
	return rec, err
}

// Close releases the underlying file. It is safe to call more than once.
func (s *Source) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}

func (s *Source) read() ([]string, error) {
	s.records++
	var (
		rec []string
		err error
	)
	if s.csv != nil {
		rec, err = s.csv.Read()
	} else {
		rec, err = s.readLine()
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			s.records--
			return nil, io.EOF
		}
		return nil, &RowError{Row: s.records, Err: err}
	}
	if s.strictUTF8 {
		for _, f := range rec {
			if !utf8.ValidString(f) {
				return nil, &RowError{Row: s.records, Err: ErrInvalidUTF8}
			}
		}
	}
	return rec, nil
}

// readLine splits a physical line on the delimiter with no quote handling.
// Blank lines are skipped, as the quoted reader does.
func (s *Source) readLine() ([]string, error) {
	for {
		line, err := s.lines.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "" {
			if err != nil {
				return nil, io.EOF
			}
			continue
		}
		return strings.Split(trimmed, string(s.opt.Delimiter)), nil
	}
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// skipBOM drops a leading UTF-8 byte order mark.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// decoder returns nil for UTF-8 input, which is read as is and validated
// per record.
func decoder(name string) (transform.Transformer, error) {
	switch n := normalizeEncoding(name); n {
	case "", "utf-8", "utf8":
		return nil, nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder(), nil
	default:
		enc, err := htmlindex.Get(n)
		if err != nil {
			return nil, &ConfigError{Field: "encoding", Value: name, Msg: "unknown character set"}
		}
		return enc.NewDecoder(), nil
	}
}
