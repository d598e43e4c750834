package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
)

// Setting keys as stored in the settings table.
const (
	keyEnableStreaming = "enable_streaming"
	keyShowCitations   = "show_citations"
	keyUseRAGByDefault = "use_rag_by_default"
	keyPlaceholder     = "placeholder"
)

// Settings holds the dynamic widget settings persisted in SQLite. They
// seed every newly created widget session.
type Settings struct {
	EnableStreaming bool   `json:"enable_streaming"`
	ShowCitations   bool   `json:"show_citations"`
	UseRAGByDefault bool   `json:"use_rag_by_default"`
	Placeholder     string `json:"placeholder"`
}

type SettingsService struct {
	db *sql.DB
}

func NewSettingsService(db *sql.DB) *SettingsService {
	return &SettingsService{db: db}
}

// InitAndGet returns the stored settings, seeding the table from the
// given defaults on first run.
func (s *SettingsService) InitAndGet(ctx context.Context, defaults Settings) (*Settings, error) {
	stored, count, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		if err := s.Save(ctx, &defaults); err != nil {
			return nil, fmt.Errorf("failed to save initial settings: %w", err)
		}
		slog.Info("Initialized widget settings from configuration.")
		return &defaults, nil
	}
	return stored, nil
}

// Get retrieves the current settings.
func (s *SettingsService) Get(ctx context.Context) (*Settings, error) {
	stored, _, err := s.load(ctx)
	return stored, err
}

// Save persists all settings in one transaction.
func (s *SettingsService) Save(ctx context.Context, settings *Settings) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value")
	if err != nil {
		return fmt.Errorf("could not prepare settings statement: %w", err)
	}
	defer stmt.Close()

	pairs := []struct {
		key   string
		value string
	}{
		{keyEnableStreaming, strconv.FormatBool(settings.EnableStreaming)},
		{keyShowCitations, strconv.FormatBool(settings.ShowCitations)},
		{keyUseRAGByDefault, strconv.FormatBool(settings.UseRAGByDefault)},
		{keyPlaceholder, settings.Placeholder},
	}
	for _, p := range pairs {
		if _, err := stmt.ExecContext(ctx, p.key, p.value); err != nil {
			return fmt.Errorf("could not save setting %q: %w", p.key, err)
		}
	}

	return tx.Commit()
}

// load reads all stored settings, returning how many rows were present
// so InitAndGet can detect a first run.
func (s *SettingsService) load(ctx context.Context) (*Settings, int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return nil, 0, fmt.Errorf("could not query settings: %w", err)
	}
	defer rows.Close()

	settings := &Settings{}
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, 0, err
		}
		count++
		switch key {
		case keyEnableStreaming:
			settings.EnableStreaming = parseBoolSetting(key, value)
		case keyShowCitations:
			settings.ShowCitations = parseBoolSetting(key, value)
		case keyUseRAGByDefault:
			settings.UseRAGByDefault = parseBoolSetting(key, value)
		case keyPlaceholder:
			settings.Placeholder = value
		default:
			slog.Warn("Ignoring unknown settings key", "key", key)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return settings, count, nil
}

func parseBoolSetting(key, value string) bool {
	b, err := strconv.ParseBool(value)
	if err != nil {
		slog.Warn("Invalid boolean settings value, treating as false", "key", key, "value", value)
		return false
	}
	return b
}
