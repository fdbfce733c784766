package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/expense-analysis/internal/common"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	v := viper.New()
	SetDefaults(v)

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "expenses-full-2022-2024.csv", s.DataPath)
	assert.Equal(t, "corrections.json", s.CorrectionsPath)
	assert.Equal(t, "/home/tester/.local/share/expense/expense.db", s.DatabasePath)
	assert.Equal(t, 2022, s.Report.BaseYear)
	assert.Equal(t, 2024, s.Report.CompareYear)
	assert.Equal(t, []int{4, 5, 6, 7, 8}, s.Report.Months)
	assert.Equal(t, 30*time.Second, s.HTTP.Timeout)
	assert.Equal(t, 3, s.HTTP.Retries)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
data:
  path: https://cloud.example.org/s/abc
corrections:
  path: ~/fixes.json
report:
  base_year: 2023
  compare_year: 2024
  months: [1, 2]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("HOME", dir)

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "https://cloud.example.org/s/abc", s.DataPath)
	assert.Equal(t, filepath.Join(dir, "fixes.json"), s.CorrectionsPath)
	assert.Equal(t, 2023, s.Report.BaseYear)
	assert.Equal(t, []int{1, 2}, s.Report.Months)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		set  func(v *viper.Viper)
	}{
		{"same years", func(v *viper.Viper) { v.Set("report.compare_year", 2022) }},
		{"bad month", func(v *viper.Viper) { v.Set("report.months", []int{0}) }},
		{"no retries", func(v *viper.Viper) { v.Set("http.retries", 0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			tt.set(v)

			_, err := Load(v)
			require.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("EXPENSE_DIR", "/data")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, "/home/tester", ExpandPath("~"))
	assert.Equal(t, "/home/tester/x.db", ExpandPath("~/x.db"))
	assert.Equal(t, "/data/x.csv", ExpandPath("$EXPENSE_DIR/x.csv"))
}
