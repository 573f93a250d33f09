package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/KaramelBytes/csvutils-cli/internal/analysis"
	"github.com/KaramelBytes/csvutils-cli/internal/history"
	"github.com/KaramelBytes/csvutils-cli/internal/logging"
	"github.com/KaramelBytes/csvutils-cli/internal/source"
	"github.com/KaramelBytes/csvutils-cli/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	profDelim     delimiterValue
	profSkip      bool
	profQuotes    bool
	profMax       int
	profEncoding  string
	profFormat    string
	profPrecision int
	profOutput    string
	profChart     string
	profHistory   bool
)

// delimiterValue validates --delim while flags are parsed, so a bad
// delimiter fails before any file is opened.
type delimiterValue struct {
	raw  string
	char rune
}

var _ pflag.Value = (*delimiterValue)(nil)

func (d *delimiterValue) String() string {
	if d.raw == "" {
		return ","
	}
	return d.raw
}

func (d *delimiterValue) Set(s string) error {
	r, err := source.ParseDelimiter(s)
	if err != nil {
		return err
	}
	d.raw, d.char = s, r
	return nil
}

func (d *delimiterValue) Type() string { return "char" }

func runProfile(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	path := args[0]
	c := effectiveConfig()
	flags := cmd.Flags()

	opt := analysis.DefaultOptions()
	if flags.Changed("delim") {
		opt.Source.Delimiter = profDelim.char
	} else {
		r, err := source.ParseDelimiter(c.Delimiter)
		if err != nil {
			return err
		}
		opt.Source.Delimiter = r
	}
	opt.Source.Quotes = pickBool(flags, "quotes", profQuotes, c.Quotes)
	opt.Source.SkipHeader = pickBool(flags, "skip", profSkip, c.SkipHeader)
	opt.Source.Encoding = pickString(flags, "encoding", profEncoding, c.Encoding)
	opt.MaxRecords = c.MaxRecords
	if flags.Changed("max") {
		if profMax <= 0 {
			return fmt.Errorf("--max must be a positive integer, got %d", profMax)
		}
		opt.MaxRecords = profMax
	}
	format := strings.ToLower(pickString(flags, "format", profFormat, c.Format))
	precision := c.Precision
	if flags.Changed("precision") {
		precision = profPrecision
	}

	rep, err := analysis.ProfileCSV(path, opt)
	if err != nil {
		return err
	}

	out, err := renderReport(rep, format, precision)
	if err != nil {
		return err
	}
	if profOutput != "" {
		if err := utils.SafeWriteFile(profOutput, out); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s report to %s\n", format, profOutput)
	} else {
		if _, err := cmd.OutOrStdout().Write(out); err != nil {
			return err
		}
	}

	if profChart != "" {
		var buf bytes.Buffer
		if err := rep.WriteChart(&buf); err != nil {
			return err
		}
		if err := utils.SafeWriteFile(profChart, buf.Bytes()); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote chart to %s\n", profChart)
	}

	if pickBool(flags, "history", profHistory, c.HistoryEnabled) {
		if err := recordRun(c.HistoryDB, rep); err != nil {
			logging.Warn("run history not saved", "error", err)
		}
	}
	return nil
}

func renderReport(rep *analysis.Report, format string, precision int) ([]byte, error) {
	switch format {
	case "", "text", "txt":
		return []byte(rep.Text(precision)), nil
	case "markdown", "md":
		return []byte(rep.Markdown(precision)), nil
	case "json":
		b, err := rep.JSON(precision)
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case "yaml", "yml":
		return rep.YAML(precision)
	default:
		return nil, fmt.Errorf("unsupported --format: %s (use text|markdown|json|yaml)", format)
	}
}

func recordRun(dbPath string, rep *analysis.Report) error {
	st, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Record(rep); err != nil {
		return err
	}
	logging.Debug("run recorded", "run_id", rep.RunID, "db", dbPath)
	return nil
}

func pickBool(flags *pflag.FlagSet, name string, flagVal, cfgVal bool) bool {
	if flags.Changed(name) {
		return flagVal
	}
	return cfgVal
}

func pickString(flags *pflag.FlagSet, name, flagVal, cfgVal string) string {
	if flags.Changed(name) {
		return flagVal
	}
	return cfgVal
}

func init() {
	f := rootCmd.Flags()
	f.VarP(&profDelim, "delim", "d", `field delimiter, default ','; use '\t' or 'tab' for tabs`)
	f.BoolVarP(&profSkip, "skip", "s", false, "skip the first record (header) and use it for titles")
	f.BoolVarP(&profQuotes, "quotes", "q", false, "data is quoted")
	f.IntVarP(&profMax, "max", "m", 0, "stop gathering data after N records")
	f.StringVar(&profEncoding, "encoding", "utf-8", "input character set, e.g. utf-8, utf-16, latin1, windows-1252")
	f.StringVarP(&profFormat, "format", "f", "text", "report format: text|markdown|json|yaml")
	f.IntVar(&profPrecision, "precision", analysis.DefaultPrecision, "decimals for type percentages")
	f.StringVarP(&profOutput, "output", "o", "", "write the report to this path instead of stdout")
	f.StringVar(&profChart, "chart", "", "also write an HTML chart of column types to this path")
	f.BoolVar(&profHistory, "history", false, "record this run in the history database")
}
