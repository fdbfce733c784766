package dataset

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/expense-analysis/internal/common"
	"github.com/Veraticus/expense-analysis/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `date;week;month;year;bank_name;label;amount;shared;real_amount;main_category;category_name
2022-04-02;13;4;2022;bnp;Starbucks Coffee;-4.5;perso;-4.5;dailyLife;restaurant
2022-04-03;13;4;2022;bnp;STARBUCKS;-3.2;share;-1.6;dailyLife;restaurant
2024-04-05;14;4;2024;revolut;Loyer avril;-900;share;-450;appartment;rent
`

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "expenses.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func fastLoader(opts ...Option) *Loader {
	opts = append([]Option{WithRetry(common.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
	})}, opts...)
	return NewLoader(opts...)
}

func TestRead(t *testing.T) {
	records, err := Read(strings.NewReader(sampleExport))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, model.Record{
		ID:           1,
		Date:         "2022-04-03",
		Week:         13,
		Month:        4,
		Year:         2022,
		BankName:     "bnp",
		Label:        "STARBUCKS",
		Amount:       -3.2,
		Shared:       "share",
		RealAmount:   -1.6,
		MainCategory: "dailyLife",
		CategoryName: "restaurant",
	}, records[1])
	assert.Equal(t, 2, records[2].ID)
}

func TestRead_DerivesCalendarColumns(t *testing.T) {
	content := "date;label;amount;real_amount;category_name\n2024-03-04;x;-1;-1;misc\n"
	records, err := Read(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, 2024, records[0].Year)
	assert.Equal(t, 3, records[0].Month)
	assert.Equal(t, 10, records[0].Week)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"missing required column", "date;amount\n2024-01-01;3\n"},
		{"bad amount", "date;label;amount;category_name\n2024-01-01;x;abc;misc\n"},
		{"bad year", "date;label;year;category_name\n2024-01-01;x;twenty;misc\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.content))
			require.ErrorIs(t, err, common.ErrMalformedFile)
		})
	}
}

func TestRead_EmptyLabelIsEmptyString(t *testing.T) {
	records, err := Read(strings.NewReader("date;label;category_name\n2024-01-01;;misc\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0].Label)
}

func TestWriteThenRead(t *testing.T) {
	records, err := Read(strings.NewReader(sampleExport))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records))

	again, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, records, again)
}

func TestResolveLocation(t *testing.T) {
	tests := []struct {
		in         string
		want       string
		wantRemote bool
	}{
		{"  expenses.csv ", "expenses.csv", false},
		{"https://cloud.example.org/s/abc", "https://cloud.example.org/s/abc/download", true},
		{"https://cloud.example.org/s/abc/download", "https://cloud.example.org/s/abc/download", true},
	}

	for _, tt := range tests {
		got, remote := ResolveLocation(tt.in)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.wantRemote, remote)
	}
}

func TestLoader_LoadFile(t *testing.T) {
	path := writeExport(t, sampleExport)

	set, err := fastLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())
}

func TestLoader_LoadMissingFile(t *testing.T) {
	_, err := fastLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = fastLoader().Load(context.Background(), "  ")
	require.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestLoader_LoadRemote(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "/s/abc/download", r.URL.Path)
		_, _ = w.Write([]byte(sampleExport))
	}))
	defer server.Close()

	set, err := fastLoader(WithHTTPClient(server.Client())).Load(context.Background(), server.URL+"/s/abc")
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())
	assert.Equal(t, int32(2), calls.Load())
}

func TestLoader_LoadRemoteNotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := fastLoader(WithHTTPClient(server.Client())).Load(context.Background(), server.URL+"/download")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWriteFile(t *testing.T) {
	records, err := Read(strings.NewReader(sampleExport))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteFile(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), strings.Join(Columns, ";")+"\n"))
}
