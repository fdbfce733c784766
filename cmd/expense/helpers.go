package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/expense-analysis/internal/common"
	"github.com/Veraticus/expense-analysis/internal/config"
	"github.com/Veraticus/expense-analysis/internal/correction"
	"github.com/Veraticus/expense-analysis/internal/dataset"
	"github.com/Veraticus/expense-analysis/internal/model"
	"github.com/Veraticus/expense-analysis/internal/storage"
)

// loadSettings reads the settings from the global viper instance.
func loadSettings() (*config.Settings, error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("invalid configuration", err)
	}
	return settings, nil
}

// initStorage initializes the storage service and runs migrations.
func initStorage(ctx context.Context, settings *config.Settings) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newLoader creates a dataset loader honoring the HTTP settings.
func newLoader(settings *config.Settings) *dataset.Loader {
	return dataset.NewLoader(
		dataset.WithHTTPClient(&http.Client{Timeout: settings.HTTP.Timeout}),
		dataset.WithRetry(common.RetryOptions{
			MaxAttempts:  settings.HTTP.Retries,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Multiplier:   2,
		}),
	)
}

// loadData loads the configured transaction export.
func loadData(ctx context.Context, settings *config.Settings) (*model.RecordSet, error) {
	records, err := newLoader(settings).Load(ctx, settings.DataPath)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("could not load data from %s", settings.DataPath), err)
	}
	return records, nil
}

// loadCorrections reads the configured corrections file.
func loadCorrections(settings *config.Settings) (*correction.Document, error) {
	doc, err := correction.ReadDocument(settings.CorrectionsPath)
	if err != nil {
		return nil, common.NewUserError("could not load corrections", err)
	}
	if !doc.HashMatches() {
		slog.Warn("Corrections file was edited by hand, stored hash does not match",
			"path", settings.CorrectionsPath,
			"stored", doc.StoredHash,
			"computed", doc.Set.Hash())
	}
	return doc, nil
}

// loadCorrectionsOrEmpty reads the corrections file, starting an empty set when it does not exist yet.
func loadCorrectionsOrEmpty(settings *config.Settings) (*correction.Set, error) {
	set, err := correction.ReadFile(settings.CorrectionsPath)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("Starting a new corrections file", "path", settings.CorrectionsPath)
		return correction.NewSet(), nil
	}
	if err != nil {
		return nil, common.NewUserError("could not load corrections", err)
	}
	return set, nil
}

// loadCorrected loads the data and applies the corrections to it.
func loadCorrected(ctx context.Context, settings *config.Settings) (*model.RecordSet, *correction.Set, error) {
	records, err := loadData(ctx, settings)
	if err != nil {
		return nil, nil, err
	}
	doc, err := loadCorrections(settings)
	if err != nil {
		return nil, nil, err
	}
	if err := doc.Set.Apply(records); err != nil {
		return nil, nil, common.NewUserError("corrections do not apply to this data", err)
	}
	return records, doc.Set, nil
}

// loadSnapshotRecords returns the stored records for source.
func loadSnapshotRecords(ctx context.Context, settings *config.Settings, source string) ([]model.Record, error) {
	store, err := initStorage(ctx, settings)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	_, records, err := store.LoadSnapshot(ctx, source)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.NewUserError(fmt.Sprintf("no snapshot for %s, run expense import or expense corrections apply first", source), err)
	}
	return records, err
}
