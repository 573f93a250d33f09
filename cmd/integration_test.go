package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cfgpkg "github.com/KaramelBytes/csvutils-cli/internal/config"
	"github.com/KaramelBytes/csvutils-cli/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetCommandState clears sticky flag values and globals between invocations.
func resetCommandState() {
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	for _, c := range []*cobra.Command{rootCmd, configShowCmd, configSetCmd, historyListCmd, historyShowCmd} {
		reset(c.Flags())
		reset(c.PersistentFlags())
	}
	cfgFile = ""
}

// execute runs the root command with c as the loaded config (nil means none
// was loaded) and returns what it printed.
func execute(t *testing.T, c *cfgpkg.Global, args ...string) (string, error) {
	t.Helper()
	resetCommandState()
	cfg = c
	logging.SetOutput(io.Discard)
	t.Cleanup(func() { logging.SetOutput(os.Stderr) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return execute(t, nil, args...)
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCmd(t, args...)
	require.NoErrorf(t, err, "command %v", args)
	return out
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestCLI_SimpleFileWithHeader(t *testing.T) {
	dir := t.TempDir()
	p := writeInput(t, dir, "simple.csv", "id,price,name,notes\n1,2.5,abc,\n3,x,def,\n")

	out := mustRun(t, p, "--skip")
	want := "2 records in file (, delim), 4 columns.\n" +
		"Field\tMax\tTypes % (i, f, c)\t\t\tTitle\n" +
		"1\t1\t(100.0000, 0.0000, 0.0000)\t\tid\n" +
		"2\t3\t(0.0000, 50.0000, 50.0000)\t\tprice\n" +
		"3\t3\t(0.0000, 0.0000, 100.0000)\t\tname\n" +
		"4\t0\t(0.0000, 0.0000, 100.0000)\tempty\tnotes\n"
	assert.Equal(t, want, out)
}

func TestCLI_FileDoesNotExist(t *testing.T) {
	_, err := runCmd(t, filepath.Join(t.TempDir(), "404.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such file or directory", "error should carry the I/O cause")
}

func TestCLI_InvalidDelimiter(t *testing.T) {
	p := writeInput(t, t.TempDir(), "ok.csv", "1\n")
	_, err := runCmd(t, p, "--delim", "ab")
	assert.Error(t, err, "two-char delimiter")
}

func TestCLI_TabAliasAndQuotes(t *testing.T) {
	p := writeInput(t, t.TempDir(), "q.tsv", "\"a\tb\"\t1\n")
	out := mustRun(t, p, "-d", `\t`, "-q")
	assert.Contains(t, out, "1 records in file (\\t delim), 2 columns.")
	assert.Contains(t, out, "1\t3\t(0.0000, 0.0000, 100.0000)\t\tunknown", "quoted cell with tab should be one value")
}

func TestCLI_StrayQuoteWithQuotesOn(t *testing.T) {
	p := writeInput(t, t.TempDir(), "sizes.csv", "id,size\n1,15\" screen\n2,17\n")
	out := mustRun(t, p, "-q", "-s")
	assert.True(t, strings.HasPrefix(out, "2 records in file"), out)
	assert.Contains(t, out, "2\t10\t(50.0000, 0.0000, 50.0000)\t\tsize")
}

func TestCLI_InvalidUTF8Fails(t *testing.T) {
	p := writeInput(t, t.TempDir(), "bad.csv", "a\xff,1\n")
	out, err := runCmd(t, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read row 1")
	assert.Empty(t, out, "no partial report")
}

func TestCLI_RowCeiling(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "%d,v%d\n", i, i)
	}
	p := writeInput(t, t.TempDir(), "twenty.csv", b.String())
	out := mustRun(t, p, "--max", "10")
	assert.True(t, strings.HasPrefix(out, "10 records in file"), out)

	_, err := runCmd(t, p, "--max", "0")
	assert.Error(t, err, "--max 0 should be rejected")
}

func TestCLI_JSONOutputAndChart(t *testing.T) {
	dir := t.TempDir()
	p := writeInput(t, dir, "data.csv", "1,a\n2,b\n")
	jsonPath := filepath.Join(dir, "out", "report.json")
	chartPath := filepath.Join(dir, "out", "chart.html")

	out := mustRun(t, p, "--format", "json", "-o", jsonPath, "--chart", chartPath)
	assert.Contains(t, out, "✓ Wrote json report")
	assert.Contains(t, out, "✓ Wrote chart")

	b, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var doc struct {
		Rows    int `json:"rows"`
		Columns []struct {
			IntegerPct float64 `json:"integer_pct"`
		} `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, 2, doc.Rows)
	require.Len(t, doc.Columns, 2)
	assert.Equal(t, 100.0, doc.Columns[0].IntegerPct)

	_, err = os.Stat(chartPath)
	assert.NoError(t, err, "chart missing")
}

func TestCLI_UnsupportedFormat(t *testing.T) {
	p := writeInput(t, t.TempDir(), "ok.csv", "1\n")
	_, err := runCmd(t, p, "--format", "xml")
	assert.Error(t, err)
}

func TestCLI_HistoryRecordListShow(t *testing.T) {
	home := t.TempDir()
	p := writeInput(t, home, "h.csv", "n\n1\n2\n")
	c := defaultConfig()
	c.HistoryDB = filepath.Join(home, "hist.db")

	_, err := execute(t, c, p, "--skip", "--history")
	require.NoError(t, err)

	listing, err := execute(t, c, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, listing, "h.csv: 2 rows, 1 columns")
	runID := strings.Fields(strings.TrimPrefix(listing, "- "))[0]

	shown, err := execute(t, c, "history", "show", runID)
	require.NoError(t, err)
	assert.Contains(t, shown, "1\t1\t(100.0000, 0.0000, 0.0000)\t\tn")

	_, err = execute(t, c, "history", "show", "missing-id")
	assert.Error(t, err, "unknown run id")
}

func TestDefaultConfigHistoryDB(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	assert.Equal(t, filepath.Join(home, ".csvutils", "history.db"), defaultConfig().HistoryDB)
}

func TestCLI_HistoryWithoutLoadedConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	p := writeInput(t, home, "h.csv", "1\n")

	mustRun(t, p, "--history")
	_, err := os.Stat(filepath.Join(home, ".csvutils", "history.db"))
	require.NoError(t, err, "history db should land in the default location")

	listing := mustRun(t, "history", "list")
	assert.Contains(t, listing, "h.csv: 1 rows, 1 columns")
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfgPath := filepath.Join(home, "cfg.yaml")

	mustRun(t, "--config", cfgPath, "config", "set", "delimiter", ";")
	_, err := runCmd(t, "--config", cfgPath, "config", "set", "delimiter", "ab")
	assert.Error(t, err, "invalid delimiter")
	_, err = runCmd(t, "--config", cfgPath, "config", "set", "nope", "1")
	assert.Error(t, err, "unknown key")
	mustRun(t, "--config", cfgPath, "config", "set", "skip_header", "true")

	shown := mustRun(t, "--config", cfgPath, "config", "show")
	assert.Contains(t, shown, "delimiter: ;\n")
	assert.Contains(t, shown, "skip_header: true\n")
}
