package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/KaramelBytes/csvutils-cli/internal/source"
	"github.com/KaramelBytes/csvutils-cli/internal/utils"
	"gopkg.in/yaml.v3"
)

// Document is the machine-readable form of a Report.
type Document struct {
	RunID     string           `json:"run_id" yaml:"run_id"`
	File      string           `json:"file" yaml:"file"`
	Delimiter string           `json:"delimiter" yaml:"delimiter"`
	Quoted    bool             `json:"quoted" yaml:"quoted"`
	HasHeader bool             `json:"has_header" yaml:"has_header"`
	Rows      int              `json:"rows" yaml:"rows"`
	Truncated bool             `json:"truncated" yaml:"truncated"`
	StartedAt time.Time        `json:"started_at" yaml:"started_at"`
	Columns   []ColumnDocument `json:"columns" yaml:"columns"`
}

// ColumnDocument is one column with its shares already computed.
type ColumnDocument struct {
	Position     int     `json:"position" yaml:"position"`
	Title        string  `json:"title" yaml:"title"`
	MaxWidth     int     `json:"max_width" yaml:"max_width"`
	Integer      int     `json:"integer_count" yaml:"integer_count"`
	Float        int     `json:"float_count" yaml:"float_count"`
	Text         int     `json:"text_count" yaml:"text_count"`
	IntegerPct   float64 `json:"integer_pct" yaml:"integer_pct"`
	FloatPct     float64 `json:"float_pct" yaml:"float_pct"`
	TextPct      float64 `json:"text_pct" yaml:"text_pct"`
	EverNonEmpty bool    `json:"ever_nonempty" yaml:"ever_nonempty"`
}

// Document converts the report, rounding shares to precision decimals.
// Positions are 1-based to match the text report.
func (r *Report) Document(precision int) Document {
	precision = clampPrecision(precision)
	d := Document{
		RunID:     r.RunID,
		File:      r.Name,
		Delimiter: source.DisplayDelimiter(r.delimiter()),
		Quoted:    r.Quoted,
		HasHeader: r.HasHeader,
		Rows:      r.Rows,
		Truncated: r.Truncated,
		StartedAt: r.StartedAt,
		Columns:   make([]ColumnDocument, 0, len(r.Cols)),
	}
	for _, c := range r.Cols {
		i, f, t := c.Percentages()
		d.Columns = append(d.Columns, ColumnDocument{
			Position:     c.Position + 1,
			Title:        c.Title,
			MaxWidth:     c.MaxWidth,
			Integer:      c.Tally.Integer,
			Float:        c.Tally.Float,
			Text:         c.Tally.Text,
			IntegerPct:   round(i, precision),
			FloatPct:     round(f, precision),
			TextPct:      round(t, precision),
			EverNonEmpty: c.EverNonEmpty,
		})
	}
	return d
}

// JSON renders the report as indented JSON.
func (r *Report) JSON(precision int) ([]byte, error) {
	return utils.PrettyJSON(r.Document(precision))
}

// YAML renders the report as YAML.
func (r *Report) YAML(precision int) ([]byte, error) {
	b, err := yaml.Marshal(r.Document(precision))
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return b, nil
}

func round(v float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Round(v*p) / p
}
