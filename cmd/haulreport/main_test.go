package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"haulpulse/internal/config"
	"haulpulse/internal/services"
	"haulpulse/internal/shared/testutil"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.ExecutableDir = t.TempDir()
	return cfg
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-data", "trips.csv", "-year", "2024", "-month", "3", "-format", "XLSX", "-out", "/tmp/r"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, options{data: "trips.csv", year: 2024, month: 3, format: "xlsx", out: "/tmp/r"}, opts)

	var stderr bytes.Buffer
	_, err = parseFlags([]string{"-year", "soon"}, &stderr)
	assert.Error(t, err)
	assert.Contains(t, stderr.String(), "-year")
}

func TestOptionsPeriod(t *testing.T) {
	tests := []struct {
		name    string
		opts    options
		wantNil bool
		wantErr bool
	}{
		{name: "absent", opts: options{}, wantNil: true},
		{name: "valid", opts: options{year: 2024, month: 2}},
		{name: "month only", opts: options{month: 2}, wantErr: true},
		{name: "month out of range", opts: options{year: 2024, month: 13}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.opts.period()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNil, p == nil)
		})
	}
}

func TestRun_CSV(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	data := testutil.WriteDatasetCSV(t, testutil.SampleRecords())
	out := t.TempDir()

	files, err := run(context.Background(), testConfig(t), options{data: data, format: services.FormatCSV, out: out}, logger)
	require.NoError(t, err)

	want := []string{
		"haulage_summary_2024-03.csv",
		"haulage_ranking_2024-03.csv",
		"haulage_loaders_2024-03.csv",
		"haulage_metrics_2024-03.csv",
	}
	require.Len(t, files, len(want))
	for i, name := range want {
		assert.Equal(t, filepath.Join(out, name), files[i])
		_, err := os.Stat(files[i])
		assert.NoError(t, err)
	}

	ranking, err := os.ReadFile(files[1])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(string(ranking), "\ufeff")), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], testutil.TruckC+","), lines[1])
}

func TestRun_SingleTableForPeriod(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	data := testutil.WriteDatasetCSV(t, testutil.SampleRecords())
	out := t.TempDir()

	files, err := run(context.Background(), testConfig(t),
		options{data: data, year: 2024, month: 2, format: services.FormatCSV, table: "summary", out: out}, logger)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(out, "haulage_summary_2024-02.csv")}, files)
}

func TestRun_XLSX(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	data := testutil.WriteDatasetCSV(t, testutil.SampleRecords())
	out := t.TempDir()

	files, err := run(context.Background(), testConfig(t),
		options{data: data, year: 2024, month: 3, format: services.FormatXLSX, out: out}, logger)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(out, "haulage_2024-03.xlsx")}, files)

	f, err := excelize.OpenFile(files[0])
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Summary", "Ranking", "Loaders", "Metrics"}, f.GetSheetList())
}

func TestRun_Errors(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	data := testutil.WriteDatasetCSV(t, testutil.SampleRecords())

	tests := []struct {
		name string
		opts options
	}{
		{name: "unsupported format", opts: options{data: data, format: "pdf"}},
		{name: "unknown table", opts: options{data: data, format: services.FormatCSV, table: "trips", out: t.TempDir()}},
		{name: "missing dataset", opts: options{data: filepath.Join(t.TempDir(), "none.csv"), format: services.FormatCSV}},
		{name: "bad period", opts: options{data: data, year: 2024, format: services.FormatCSV}},
		{name: "output is a file", opts: options{data: data, format: services.FormatCSV, out: data}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(context.Background(), testConfig(t), tt.opts, logger)
			assert.Error(t, err)
		})
	}
}
