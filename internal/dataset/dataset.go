// Package dataset loads and exports the semicolon-separated transaction exports the
// dashboard works on.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/expense-analysis/internal/common"
	"github.com/Veraticus/expense-analysis/internal/model"
)

// Separator is the column separator of transaction exports.
const Separator = ';'

// Column names, in export order.
const (
	ColDate         = "date"
	ColWeek         = "week"
	ColMonth        = "month"
	ColYear         = "year"
	ColBankName     = "bank_name"
	ColLabel        = "label"
	ColAmount       = "amount"
	ColShared       = "shared"
	ColRealAmount   = "real_amount"
	ColMainCategory = "main_category"
	ColCategoryName = "category_name"
)

// Columns lists every exported column in order.
var Columns = []string{
	ColDate, ColWeek, ColMonth, ColYear, ColBankName, ColLabel,
	ColAmount, ColShared, ColRealAmount, ColMainCategory, ColCategoryName,
}

var requiredColumns = []string{ColDate, ColLabel, ColCategoryName}

// Loader reads transaction exports from disk or over HTTP.
type Loader struct {
	client *http.Client
	retry  common.RetryOptions
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient overrides the client used for remote locations.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		l.client = client
	}
}

// WithRetry overrides the retry policy for remote locations.
func WithRetry(opts common.RetryOptions) Option {
	return func(l *Loader) {
		l.retry = opts
	}
}

// NewLoader creates a loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		client: &http.Client{Timeout: 30 * time.Second},
		retry: common.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Multiplier:   2,
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ResolveLocation normalizes a user-supplied location. Share links need the
// "/download" suffix to return the raw file.
func ResolveLocation(location string) (string, bool) {
	location = strings.TrimSpace(location)
	if !strings.HasPrefix(location, "http") {
		return location, false
	}
	if !strings.HasSuffix(location, "download") {
		location += "/download"
	}
	return location, true
}

// Load reads the export at location into a record set.
func (l *Loader) Load(ctx context.Context, location string) (*model.RecordSet, error) {
	resolved, remote := ResolveLocation(location)
	if resolved == "" {
		return nil, fmt.Errorf("%w: data location", common.ErrMissingConfig)
	}

	var records []model.Record
	var err error
	if remote {
		records, err = l.fetch(ctx, resolved)
	} else {
		records, err = readFile(resolved)
	}
	if err != nil {
		return nil, err
	}

	slog.Info("Loaded transactions", "location", resolved, "rows", len(records))
	return model.NewRecordSet(records)
}

func readFile(path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]model.Record, error) {
	var records []model.Record
	err := common.WithRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return &common.RetryableError{Err: err, Retryable: false}
		}

		resp, err := l.client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return common.ErrRateLimit
		case resp.StatusCode >= 500:
			return fmt.Errorf("server returned %s", resp.Status)
		case resp.StatusCode != http.StatusOK:
			return &common.RetryableError{Err: fmt.Errorf("server returned %s", resp.Status), Retryable: false}
		}

		parsed, err := Read(resp.Body)
		if err != nil {
			return &common.RetryableError{Err: err, Retryable: false}
		}
		records = parsed
		return nil
	}, l.retry)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	return records, nil
}

// Read parses an export. Row ids are the zero-based row positions.
func Read(r io.Reader) ([]model.Record, error) {
	reader := csv.NewReader(r)
	reader.Comma = Separator
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", common.ErrMalformedFile)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedFile, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", common.ErrMalformedFile, name)
		}
	}

	var records []model.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrMalformedFile, err)
		}

		rec, err := parseRow(cols, row, len(records))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", common.ErrMalformedFile, line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseRow(cols map[string]int, row []string, id int) (model.Record, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := model.Record{
		ID:           id,
		Date:         get(ColDate),
		BankName:     get(ColBankName),
		Label:        get(ColLabel),
		Shared:       get(ColShared),
		MainCategory: get(ColMainCategory),
		CategoryName: get(ColCategoryName),
	}

	var err error
	if rec.Amount, err = parseFloat(get(ColAmount)); err != nil {
		return rec, fmt.Errorf("amount: %w", err)
	}
	if rec.RealAmount, err = parseFloat(get(ColRealAmount)); err != nil {
		return rec, fmt.Errorf("real_amount: %w", err)
	}
	if rec.Week, err = parseInt(get(ColWeek)); err != nil {
		return rec, fmt.Errorf("week: %w", err)
	}
	if rec.Month, err = parseInt(get(ColMonth)); err != nil {
		return rec, fmt.Errorf("month: %w", err)
	}
	if rec.Year, err = parseInt(get(ColYear)); err != nil {
		return rec, fmt.Errorf("year: %w", err)
	}

	FillCalendar(&rec)
	return rec, nil
}

// FillCalendar derives missing year, month and week values from the record date.
func FillCalendar(rec *model.Record) {
	if rec.Year != 0 && rec.Month != 0 && rec.Week != 0 {
		return
	}
	date, err := time.Parse("2006-01-02", rec.Date)
	if err != nil {
		return
	}
	if rec.Year == 0 {
		rec.Year = date.Year()
	}
	if rec.Month == 0 {
		rec.Month = int(date.Month())
	}
	if rec.Week == 0 {
		_, rec.Week = date.ISOWeek()
	}
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	// Exports written by dataframe tools sometimes carry integral floats.
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
		return int(f), nil
	}
	return strconv.Atoi(s)
}

// Write exports records in column order.
func Write(w io.Writer, records []model.Record) error {
	writer := csv.NewWriter(w)
	writer.Comma = Separator

	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Date,
			strconv.Itoa(r.Week),
			strconv.Itoa(r.Month),
			strconv.Itoa(r.Year),
			r.BankName,
			r.Label,
			strconv.FormatFloat(r.Amount, 'f', -1, 64),
			r.Shared,
			strconv.FormatFloat(r.RealAmount, 'f', -1, 64),
			r.MainCategory,
			r.CategoryName,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile exports records to path, replacing any existing file.
func WriteFile(path string, records []model.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export: %w", err)
	}
	if err := Write(f, records); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
