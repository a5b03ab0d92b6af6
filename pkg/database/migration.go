package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type MigrationRecord struct {
	Version   string
	Name      string
	AppliedAt time.Time
}

type migrationFile struct {
	Version string
	Name    string
	File    string
}

// RunMigrations applies every *.sql file in migrationsDir that has not been recorded
// in the migrations table, in file name order, each in its own transaction.
func RunMigrations(ctx context.Context, db *pgxpool.Pool, migrationsDir string, logger *zap.Logger) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS migrations (
			version VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	rows, err := db.Query(ctx, "SELECT version, name, applied_at FROM migrations ORDER BY version")
	if err != nil {
		return fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var record MigrationRecord
		if err := rows.Scan(&record.Version, &record.Name, &record.AppliedAt); err != nil {
			return fmt.Errorf("scan migration record: %w", err)
		}
		applied[record.Version] = true
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("read migration records: %w", err)
	}

	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	for _, m := range pendingMigrations(names, applied, logger) {
		content, err := os.ReadFile(filepath.Join(migrationsDir, m.File))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", m.File, err)
		}

		logger.Info("applying migration", zap.String("version", m.Version), zap.String("name", m.Name))

		tx, err := db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}

		if _, err = tx.Exec(ctx, string(content)); err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("apply migration %s: %w", m.File, err)
		}

		_, err = tx.Exec(ctx,
			"INSERT INTO migrations (version, name, applied_at) VALUES ($1, $2, $3)",
			m.Version, m.Name, time.Now(),
		)
		if err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("record migration %s: %w", m.File, err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit migration %s: %w", m.File, err)
		}

		logger.Info("migration applied", zap.String("version", m.Version), zap.String("name", m.Name))
	}

	return nil
}

// pendingMigrations picks the NNNN_name.sql files not yet applied, sorted by name.
func pendingMigrations(files []string, applied map[string]bool, logger *zap.Logger) []migrationFile {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	var pending []migrationFile
	for _, file := range sorted {
		if !strings.HasSuffix(file, ".sql") {
			continue
		}

		parts := strings.SplitN(file, "_", 2)
		if len(parts) != 2 {
			logger.Warn("bad migration file name", zap.String("file", file))
			continue
		}

		version := parts[0]
		name := strings.TrimSuffix(parts[1], ".sql")

		if applied[version] {
			logger.Debug("migration already applied", zap.String("version", version), zap.String("name", name))
			continue
		}

		pending = append(pending, migrationFile{Version: version, Name: name, File: file})
	}

	return pending
}
