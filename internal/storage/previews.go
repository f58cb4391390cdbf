/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strconv"
	"time"
)

// Preview modes mirror the composition variants: thumbnails for card
// iframes, full documents for the preview modal.
const (
	PreviewModeThumb = "thumb"
	PreviewModeFull  = "full"
)

// ErrPreviewMiss is returned when no cached markup exists for a key.
var ErrPreviewMiss = errors.New("preview cache miss")

// PutMarkup stores composed markup for a card key and mode, replacing any
// previous entry.
func PutMarkup(ctx context.Context, db *sql.DB, cardKey, mode string, markup []byte) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := db.ExecContext(ctx,
		`INSERT INTO previews (card_key, mode, markup, size, updated_at, last_access)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(card_key, mode) DO UPDATE SET
		   markup = excluded.markup, size = excluded.size,
		   updated_at = excluded.updated_at, last_access = excluded.last_access`,
		cardKey, mode, markup, len(markup), now, now)
	return err
}

// GetMarkup returns cached markup and refreshes its access time for LRU
// accounting.
func GetMarkup(ctx context.Context, db *sql.DB, cardKey, mode string) ([]byte, error) {
	var markup []byte
	row := db.QueryRowContext(ctx,
		`SELECT markup FROM previews WHERE card_key = ? AND mode = ?`, cardKey, mode)
	switch err := row.Scan(&markup); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrPreviewMiss
	case err != nil:
		return nil, err
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, _ = db.ExecContext(ctx,
		`UPDATE previews SET last_access = ? WHERE card_key = ? AND mode = ?`, now, cardKey, mode)
	return markup, nil
}

// GetOrCreateMarkup returns cached markup, generating and storing it on a
// miss.
func GetOrCreateMarkup(ctx context.Context, db *sql.DB, cardKey, mode string, gen func() ([]byte, error)) ([]byte, error) {
	markup, err := GetMarkup(ctx, db, cardKey, mode)
	if err == nil {
		return markup, nil
	}
	if !errors.Is(err, ErrPreviewMiss) {
		return nil, err
	}
	markup, err = gen()
	if err != nil {
		return nil, err
	}
	if err := PutMarkup(ctx, db, cardKey, mode, markup); err != nil {
		return nil, err
	}
	return markup, nil
}

// InvalidateMarkup drops all cached variants of a card (after an AI edit).
func InvalidateMarkup(ctx context.Context, db *sql.DB, cardKey string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM previews WHERE card_key = ?`, cardKey)
	return err
}

// TotalPreviewBytes returns the current cache payload size.
func TotalPreviewBytes(ctx context.Context, db *sql.DB) (int64, error) {
	var total sql.NullInt64
	if err := db.QueryRowContext(ctx, `SELECT SUM(size) FROM previews`).Scan(&total); err != nil {
		return 0, err
	}
	return total.Int64, nil
}

// EvictPreviewsToFit deletes least-recently-accessed entries until the
// cache payload fits capBytes. capBytes <= 0 disables eviction.
func EvictPreviewsToFit(ctx context.Context, db *sql.DB, capBytes int64) error {
	if capBytes <= 0 {
		return nil
	}
	total, err := TotalPreviewBytes(ctx, db)
	if err != nil {
		return err
	}
	for total > capBytes {
		var (
			id   int64
			size int64
		)
		row := db.QueryRowContext(ctx,
			`SELECT id, size FROM previews ORDER BY COALESCE(last_access, updated_at) ASC, id ASC LIMIT 1`)
		switch err := row.Scan(&id, &size); {
		case errors.Is(err, sql.ErrNoRows):
			return nil
		case err != nil:
			return err
		}
		if _, err := db.ExecContext(ctx, `DELETE FROM previews WHERE id = ?`, id); err != nil {
			return err
		}
		total -= size
	}
	return nil
}

// MaxPreviewBytesFromEnv reads the cache cap from SFC_MAX_PREVIEW_BYTES,
// defaulting to 32 MiB.
func MaxPreviewBytesFromEnv() int64 {
	if v := os.Getenv("SFC_MAX_PREVIEW_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return 32 * 1024 * 1024
}
