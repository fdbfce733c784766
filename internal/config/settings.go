package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/expense-analysis/internal/analysis"
	"github.com/Veraticus/expense-analysis/internal/common"
)

// Settings holds everything the commands read from configuration.
type Settings struct {
	DataPath        string
	CorrectionsPath string
	DatabasePath    string
	Report          ReportSettings
	HTTP            HTTPSettings
}

// ReportSettings configures the year-over-year comparison.
type ReportSettings struct {
	Months      []int
	BaseYear    int
	CompareYear int
}

// HTTPSettings configures remote data downloads.
type HTTPSettings struct {
	Timeout time.Duration
	Retries int
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data.path", "expenses-full-2022-2024.csv")
	v.SetDefault("corrections.path", "corrections.json")
	v.SetDefault("database.path", "$HOME/.local/share/expense/expense.db")
	v.SetDefault("report.base_year", 2022)
	v.SetDefault("report.compare_year", 2024)
	v.SetDefault("report.months", []int{4, 5, 6, 7, 8})
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.retries", 3)
}

// Load reads settings from v, expanding paths.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		DataPath:        v.GetString("data.path"),
		CorrectionsPath: ExpandPath(v.GetString("corrections.path")),
		DatabasePath:    ExpandPath(v.GetString("database.path")),
		Report: ReportSettings{
			BaseYear:    v.GetInt("report.base_year"),
			CompareYear: v.GetInt("report.compare_year"),
			Months:      v.GetIntSlice("report.months"),
		},
		HTTP: HTTPSettings{
			Timeout: v.GetDuration("http.timeout"),
			Retries: v.GetInt("http.retries"),
		},
	}

	// Remote locations are left untouched
	if loc, remote := resolve(s.DataPath); !remote {
		s.DataPath = ExpandPath(loc)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks settings for obvious mistakes.
func (s *Settings) Validate() error {
	if s.DatabasePath == "" {
		return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	if s.Report.BaseYear == s.Report.CompareYear {
		return fmt.Errorf("%w: report.base_year and report.compare_year are both %d", common.ErrInvalidConfig, s.Report.BaseYear)
	}
	opts := analysis.DefaultOptions()
	opts.Months = s.Report.Months
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("report.months: %w", err)
	}
	if s.HTTP.Retries < 1 {
		return fmt.Errorf("%w: http.retries must be at least 1", common.ErrInvalidConfig)
	}
	return nil
}

func resolve(location string) (string, bool) {
	if len(location) >= 4 && location[:4] == "http" {
		return location, true
	}
	return location, false
}
