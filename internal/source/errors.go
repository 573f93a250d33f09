package source

import (
	"errors"
	"fmt"
)

// ErrInvalidUTF8 is the cause of a RowError for a UTF-8 record holding
// bytes that are not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// OpenError indicates the input could not be opened or decoded before any
// row was read.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string { return fmt.Sprintf("open csv: %v", e.Err) }
func (e *OpenError) Unwrap() error { return e.Err }

// RowError indicates a record that could not be tokenized. Row is the
// 1-based record number counted from the start of the input, header included.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string { return fmt.Sprintf("read row %d: %v", e.Row, e.Err) }
func (e *RowError) Unwrap() error { return e.Err }

// ConfigError indicates invalid source options such as a bad delimiter.
type ConfigError struct {
	Field string
	Value string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Msg)
}
