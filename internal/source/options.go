package source

import (
	"strings"
	"unicode/utf8"
)

// Options configures how a Source tokenizes its input.
type Options struct {
	// Delimiter separates cells; 0 means ','.
	Delimiter rune
	// Quotes enables RFC 4180 quoting. When false, quote characters are data.
	Quotes bool
	// SkipHeader treats the first record as column titles instead of data.
	SkipHeader bool
	// Encoding names the input character set ("" or "utf-8" by default).
	Encoding string
}

// DefaultOptions returns comma-delimited, unquoted, headerless UTF-8.
func DefaultOptions() Options {
	return Options{Delimiter: ','}
}

// ParseDelimiter turns a user-supplied delimiter into a rune. The two-char
// escape `\t`, a literal tab and the word "tab" all select tab.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return ',', nil
	case `\t`, "\t", "tab", "TAB":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, &ConfigError{Field: "delimiter", Value: s, Msg: "must be a single character"}
	}
	r, _ := utf8.DecodeRuneInString(s)
	if err := validDelimiter(r); err != nil {
		return 0, err
	}
	return r, nil
}

func validDelimiter(r rune) error {
	if r == '\r' || r == '\n' || r == '"' || r == utf8.RuneError {
		return &ConfigError{Field: "delimiter", Value: string(r), Msg: "not usable as a field separator"}
	}
	return nil
}

// DisplayDelimiter renders a delimiter the way a user would type it.
func DisplayDelimiter(r rune) string {
	if r == '\t' {
		return `\t`
	}
	return string(r)
}

func normalizeEncoding(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
