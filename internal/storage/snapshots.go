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
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"screenflow/internal/domain"
)

// ErrNoSnapshot is returned when a project has no cached snapshot.
var ErrNoSnapshot = errors.New("no cached snapshot")

// SnapshotPayload is the offline cache of one project's board state:
// everything needed to render canvases without the backend.
type SnapshotPayload struct {
	ProjectID string           `json:"project_id"`
	SavedAt   time.Time        `json:"saved_at"`
	Canvases  []domain.Canvas  `json:"canvases"`
	Features  []domain.Feature `json:"features"`
}

// language=SQL
const insertSnapshotSQL = `INSERT INTO canvas_snapshots (project_id, ts, snapshot) VALUES (?, ?, ?)`

// language=SQL
const selectLatestSnapshotSQL = `SELECT ts, snapshot FROM canvas_snapshots WHERE project_id = ? ORDER BY ts DESC, id DESC LIMIT 1`

// language=SQL
const pruneSnapshotsSQL = `DELETE FROM canvas_snapshots WHERE project_id = ? AND id NOT IN (
	SELECT id FROM canvas_snapshots WHERE project_id = ? ORDER BY ts DESC, id DESC LIMIT ?
)`

// SaveSnapshot validates and persists a board snapshot. Invalid payloads
// are rejected so a corrupt cache entry can never shadow good server data.
func SaveSnapshot(ctx context.Context, db *sql.DB, p SnapshotPayload) error {
	if p.ProjectID == "" {
		return errors.New("project id is required")
	}
	if p.SavedAt.IsZero() {
		p.SavedAt = time.Now()
	}
	blob, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := ValidateSnapshot(blob); err != nil {
		return fmt.Errorf("snapshot rejected: %w", err)
	}
	_, err = db.ExecContext(ctx, insertSnapshotSQL,
		p.ProjectID, p.SavedAt.UTC().Format(time.RFC3339Nano), blob)
	return err
}

// LoadLatestSnapshot returns the most recent cached snapshot for a project.
func LoadLatestSnapshot(ctx context.Context, db *sql.DB, projectID string) (SnapshotPayload, error) {
	var (
		ts   string
		blob []byte
	)
	row := db.QueryRowContext(ctx, selectLatestSnapshotSQL, projectID)
	switch err := row.Scan(&ts, &blob); {
	case errors.Is(err, sql.ErrNoRows):
		return SnapshotPayload{}, ErrNoSnapshot
	case err != nil:
		return SnapshotPayload{}, err
	}
	var p SnapshotPayload
	if err := json.Unmarshal(blob, &p); err != nil {
		return SnapshotPayload{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return p, nil
}

// PruneSnapshots keeps the newest `keep` snapshots for a project and drops
// the rest.
func PruneSnapshots(ctx context.Context, db *sql.DB, projectID string, keep int) error {
	if keep < 1 {
		keep = 1
	}
	_, err := db.ExecContext(ctx, pruneSnapshotsSQL, projectID, projectID, keep)
	return err
}
