package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/csvutils-cli/internal/config"
	"github.com/KaramelBytes/csvutils-cli/internal/source"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set csvutils configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := cfg
		if c == nil {
			loaded, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			c = loaded
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "delimiter: %s\n", c.Delimiter)
		fmt.Fprintf(w, "quotes: %t\n", c.Quotes)
		fmt.Fprintf(w, "skip_header: %t\n", c.SkipHeader)
		if c.MaxRecords > 0 {
			fmt.Fprintf(w, "max_records: %d\n", c.MaxRecords)
		}
		fmt.Fprintf(w, "encoding: %s\n", c.Encoding)
		fmt.Fprintf(w, "format: %s\n", c.Format)
		fmt.Fprintf(w, "precision: %d\n", c.Precision)
		fmt.Fprintf(w, "history_enabled: %t\n", c.HistoryEnabled)
		fmt.Fprintf(w, "history_db: %s\n", c.HistoryDB)
		fmt.Fprintf(w, "log_level: %s\n", c.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "delimiter":
			if _, err := source.ParseDelimiter(val); err != nil {
				return err
			}
			cfg.Delimiter = val
		case "quotes", "skip_header", "history_enabled":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for %s: %v", key, val)
			}
			switch key {
			case "quotes":
				cfg.Quotes = b
			case "skip_header":
				cfg.SkipHeader = b
			default:
				cfg.HistoryEnabled = b
			}
		case "max_records":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_records: %v", val)
			}
			cfg.MaxRecords = i
		case "precision":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for precision: %v", val)
			}
			cfg.Precision = i
		case "encoding":
			cfg.Encoding = val
		case "format":
			switch strings.ToLower(val) {
			case "text", "markdown", "json", "yaml":
				cfg.Format = strings.ToLower(val)
			default:
				return fmt.Errorf("invalid format: %s (use text|markdown|json|yaml)", val)
			}
		case "history_db":
			cfg.HistoryDB = val
		case "log_level":
			cfg.LogLevel = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
