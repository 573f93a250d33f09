package analysis

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/csvutils-cli/internal/logging"
	"github.com/KaramelBytes/csvutils-cli/internal/profile"
	"github.com/KaramelBytes/csvutils-cli/internal/source"
	"github.com/google/uuid"
)

// DefaultPrecision is the number of decimals used for percentages.
const DefaultPrecision = 4

// Options controls a profiling run.
type Options struct {
	Source source.Options
	// MaxRecords stops ingestion after that many data rows; 0 means unlimited.
	MaxRecords int
}

// DefaultOptions returns the tool defaults: comma delimited, unquoted,
// no header, no row ceiling.
func DefaultOptions() Options {
	return Options{Source: source.DefaultOptions()}
}

// Report is the final state of a profiling run.
type Report struct {
	RunID      string
	Name       string
	Path       string
	Delimiter  rune
	Quoted     bool
	HasHeader  bool
	Rows       int
	MaxRecords int
	// Truncated is set when ingestion stopped at the MaxRecords ceiling.
	Truncated bool
	Cols      []profile.Column
	StartedAt time.Time
	Elapsed   time.Duration
}

// ProfileCSV folds every data row of the file at path into column profiles.
// Reaching opt.MaxRecords is a normal stop. Any open or tokenizing failure
// aborts the run and no report is returned.
func ProfileCSV(path string, opt Options) (*Report, error) {
	if opt.MaxRecords < 0 {
		return nil, fmt.Errorf("max records must be positive, got %d", opt.MaxRecords)
	}
	if opt.Source.Delimiter == 0 {
		opt.Source.Delimiter = ','
	}
	if opt.Source.Quotes {
		logging.Info("Data is quoted.")
	}
	if opt.Source.SkipHeader {
		logging.Info("Skipping header record in file.")
	}
	if opt.MaxRecords > 0 {
		logging.Info(fmt.Sprintf("Stopping after %d records", opt.MaxRecords))
	}

	src, err := source.Open(path, opt.Source)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	rep := &Report{
		RunID:      uuid.NewString(),
		Name:       filepath.Base(path),
		Path:       path,
		Delimiter:  opt.Source.Delimiter,
		Quoted:     opt.Source.Quotes,
		HasHeader:  opt.Source.SkipHeader,
		MaxRecords: opt.MaxRecords,
		StartedAt:  time.Now(),
	}
	agg := profile.NewAggregator(src.Header())
	for {
		rec, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		agg.Ingest(rec)
		if opt.MaxRecords > 0 && agg.Rows() == opt.MaxRecords {
			logging.Info("Hit record stop count.")
			rep.Truncated = true
			break
		}
	}
	rep.Rows = agg.Rows()
	rep.Cols = agg.Columns()
	rep.Elapsed = time.Since(rep.StartedAt)
	logging.Debug("profiled file", "path", path, "rows", rep.Rows, "columns", len(rep.Cols), "elapsed", rep.Elapsed)
	return rep, nil
}
