package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFileValidator_ValidateFile(t *testing.T) {
	dir := t.TempDir()
	v := NewFileValidator(nil)

	tests := []struct {
		name          string
		path          string
		errorContains string
	}{
		{"readable file", writeFile(t, dir, "ok.csv", "a,b\n"), ""},
		{"missing file", filepath.Join(dir, "missing.csv"), "does not exist"},
		{"directory", dir, "is a directory"},
		{"empty file", writeFile(t, dir, "empty.csv", ""), "is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateFile(tt.path)
			if tt.errorContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestFileValidator_ValidateDatasetFile(t *testing.T) {
	dir := t.TempDir()
	v := NewFileValidator(nil)

	tests := []struct {
		name    string
		path    string
		wantExt string
		wantErr bool
	}{
		{"csv", writeFile(t, dir, "haul.csv", "x"), ExtCSV, false},
		{"upper case csv", writeFile(t, dir, "HAUL.CSV", "x"), ExtCSV, false},
		{"xlsx", writeFile(t, dir, "haul.xlsx", "x"), ExtXLSX, false},
		{"excel lock file", writeFile(t, dir, "~$haul.xlsx", "x"), ExtXLSX, true},
		{"legacy xls", writeFile(t, dir, "haul.xls", "x"), ".xls", true},
		{"json", writeFile(t, dir, "haul.json", "{}"), ".json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := v.ValidateDatasetFile(tt.path)
			assert.Equal(t, tt.wantExt, ext)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	v := NewFileValidator(nil)
	dir := filepath.Join(t.TempDir(), "reports", "2024")

	require.NoError(t, v.ValidateOutputDirectory(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = os.Stat(filepath.Join(dir, ".write_test"))
	assert.True(t, os.IsNotExist(err))
}
