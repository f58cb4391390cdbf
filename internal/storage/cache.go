/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "screenflow/internal/log"
	"screenflow/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// CacheDirName stores all per-project local cache data under the
	// workspace root.
	CacheDirName  = ".sfc"
	CacheFileName = "cache.sqlite"

	// schemaVersion tracks the local SQLite schema. Bump on breaking
	// schema changes.
	schemaVersion = 1
)

// CachePath returns the full path to the workspace cache database file.
func CachePath(root string) string {
	return filepath.Join(root, CacheDirName, CacheFileName)
}

// InitOrOpenCache ensures the cache database exists at .sfc/cache.sqlite,
// opens it, enables WAL mode, and ensures the schema. The returned *sql.DB
// is ready for use; callers close it when no longer needed.
func InitOrOpenCache(root string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "cache_init").With(
		slog.String("root", root),
	)
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("workspace root is required")
	}
	if err := os.MkdirAll(filepath.Join(root, CacheDirName), 0o755); err != nil {
		l.Error("create .sfc dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .sfc dir: %w", err)
	}

	path := CachePath(root)
	uriPath := filepath.ToSlash(path)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Single connection for embedded usage.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		l.Warn("enable foreign_keys failed", slog.Any("err", err))
	}

	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureCacheSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure cache schema failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("cache ready", slog.String("path", path))
	return db, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id         INTEGER PRIMARY KEY CHECK(id=1),
			schema     INTEGER NOT NULL,
			app        TEXT,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure meta: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := db.ExecContext(ctx,
		`INSERT INTO version (id, schema, app, updated_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET schema = excluded.schema, app = excluded.app, updated_at = excluded.updated_at`,
		schemaVersion, version.String(), now); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	return nil
}

func ensureCacheSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS canvas_snapshots (
			id         INTEGER PRIMARY KEY,
			project_id TEXT NOT NULL,
			ts         TEXT NOT NULL,
			snapshot   BLOB NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_canvas_snapshots_project
			ON canvas_snapshots (project_id, ts DESC);`,
		`CREATE TABLE IF NOT EXISTS previews (
			id          INTEGER PRIMARY KEY,
			card_key    TEXT NOT NULL,
			mode        TEXT NOT NULL,
			markup      BLOB NOT NULL,
			size        INTEGER NOT NULL,
			updated_at  TEXT NOT NULL,
			last_access TEXT,
			UNIQUE (card_key, mode)
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure cache schema: %w", err)
		}
	}
	return nil
}
