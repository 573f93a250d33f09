package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/csvutils-cli/internal/config"
	"github.com/KaramelBytes/csvutils-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile  string
	debug    bool
	logLevel string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "csvutils <file>",
	Short: "Shows some info on CSV files",
	Long: `csvutils reads a delimited text file and reports, per column position, the
widest value seen, how often values looked like integers, floats or text, and
whether the column ever held a value. Rows may have differing lengths.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runProfile,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.csvutils/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = defaultConfig()
	}
	cfg = c

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	if debug {
		level = "debug"
	}
	logging.SetLevel(level)
	logging.Debug("config loaded", "file", cfgFile, "history_db", cfg.HistoryDB)
}

// effectiveConfig returns the loaded config, or defaults when none was loaded.
func effectiveConfig() *cfgpkg.Global {
	if cfg == nil {
		return defaultConfig()
	}
	return cfg
}

func defaultConfig() *cfgpkg.Global {
	c := &cfgpkg.Global{
		Delimiter: ",",
		Encoding:  "utf-8",
		Format:    "text",
		Precision: 4,
		LogLevel:  "info",
	}
	if db, err := cfgpkg.DefaultHistoryDB(); err == nil {
		c.HistoryDB = db
	}
	return c
}
