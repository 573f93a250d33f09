package profile

import "math"

// Placeholder is the title used for columns with no matching header label.
const Placeholder = "unknown"

// Tally counts how many cells at a position classified as each Kind.
type Tally struct {
	Integer int `json:"integer" yaml:"integer"`
	Float   int `json:"float" yaml:"float"`
	Text    int `json:"text" yaml:"text"`
}

// Sum is the number of cells folded into the tally.
func (t Tally) Sum() int { return t.Integer + t.Float + t.Text }

func (t *Tally) add(k Kind) {
	switch k {
	case KindInteger:
		t.Integer++
	case KindFloat:
		t.Float++
	default:
		t.Text++
	}
}

// Column holds the accumulated statistics for one column position.
type Column struct {
	Position int    `json:"position" yaml:"position"`
	Title    string `json:"title" yaml:"title"`
	MaxWidth int    `json:"max_width" yaml:"max_width"`
	Tally    Tally  `json:"tally" yaml:"tally"`
	// EverNonEmpty only moves from false to true; see markNonEmpty.
	EverNonEmpty bool `json:"ever_nonempty" yaml:"ever_nonempty"`
}

// Percentages returns the integer, float and text shares of the tally in
// percent. A column with an empty tally yields NaN for all three.
func (c Column) Percentages() (integer, float, text float64) {
	sum := c.Tally.Sum()
	if sum == 0 {
		nan := math.NaN()
		return nan, nan, nan
	}
	s := float64(sum)
	return float64(c.Tally.Integer) / s * 100,
		float64(c.Tally.Float) / s * 100,
		float64(c.Tally.Text) / s * 100
}

func (c *Column) markNonEmpty() { c.EverNonEmpty = true }

func (c *Column) fold(width int, k Kind) {
	if width > c.MaxWidth {
		c.MaxWidth = width
	}
	c.Tally.add(k)
	if width > 0 {
		c.markNonEmpty()
	}
}
