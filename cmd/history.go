package cmd

import (
	"fmt"

	"github.com/KaramelBytes/csvutils-cli/internal/analysis"
	"github.com/KaramelBytes/csvutils-cli/internal/history"
	"github.com/KaramelBytes/csvutils-cli/internal/profile"
	"github.com/KaramelBytes/csvutils-cli/internal/source"
	"github.com/spf13/cobra"
)

var (
	histLimit     int
	histPrecision int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect previously recorded profiling runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := history.Open(effectiveConfig().HistoryDB)
		if err != nil {
			return err
		}
		defer st.Close()
		runs, err := st.Recent(histLimit)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(w, "(no runs)")
			return nil
		}
		for _, r := range runs {
			note := ""
			if r.Truncated {
				note = " (stopped at --max)"
			}
			fmt.Fprintf(w, "- %s %s %s: %d rows, %d columns%s\n",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.File, r.Rows, r.Columns, note)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print the text report of a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := history.Open(effectiveConfig().HistoryDB)
		if err != nil {
			return err
		}
		defer st.Close()
		run, err := st.Get(args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		cols := make([]profile.Column, len(run.Cols))
		for i, c := range run.Cols {
			cols[i] = c.Profile()
		}
		rep := &analysis.Report{
			RunID:     run.ID,
			Name:      run.File,
			Path:      run.Path,
			Delimiter: delimiterRune(run.Delimiter),
			Rows:      run.Rows,
			Truncated: run.Truncated,
			StartedAt: run.CreatedAt,
			Cols:      cols,
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), rep.Text(histPrecision))
		return err
	},
}

func delimiterRune(s string) rune {
	r, err := source.ParseDelimiter(s)
	if err != nil {
		return ','
	}
	return r
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyListCmd.Flags().IntVarP(&histLimit, "limit", "n", 20, "number of runs to list")
	historyShowCmd.Flags().IntVar(&histPrecision, "precision", analysis.DefaultPrecision, "decimals for type percentages")
}
