// Package journal persists a local history of placement actions so a planner
// can review what was predicted, cleared, and moved in a working session.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"shelfcraft/internal/retail"
)

// Journal records server-confirmed placement actions in SQLite.
type Journal struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// Entry is one recorded action with the zone state the server confirmed.
type Entry struct {
	ID        int64
	Action    string // predict, clear, move
	ZoneID    string
	Layout    retail.Layout
	Metrics   retail.Metrics
	CreatedAt time.Time
}

// Open initializes the SQLite journal at the given path.
func Open(path string) (*Journal, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set synchronous: %w", err)
	}

	j := &Journal{db: db, dbPath: path}
	if err := j.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return j, nil
}

// initialize creates the required tables.
func (j *Journal) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS actions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		zone_id TEXT NOT NULL,
		layout_json TEXT NOT NULL,
		metrics_json TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_actions_zone ON actions(zone_id);
	CREATE INDEX IF NOT EXISTS idx_actions_created ON actions(created_at);
	`
	if _, err := j.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create actions table: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends one confirmed action with its resulting zone state.
func (j *Journal) Record(ctx context.Context, action, zoneID string, st retail.ZoneState) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	layoutJSON, err := json.Marshal(st.Layout)
	if err != nil {
		return fmt.Errorf("failed to encode layout: %w", err)
	}
	metricsJSON, err := json.Marshal(st.Metrics)
	if err != nil {
		return fmt.Errorf("failed to encode metrics: %w", err)
	}

	_, err = j.db.ExecContext(ctx,
		"INSERT INTO actions (action, zone_id, layout_json, metrics_json) VALUES (?, ?, ?, ?)",
		action, zoneID, string(layoutJSON), string(metricsJSON),
	)
	return err
}

// ListRecent returns the most recent entries, newest first. A zoneID filters
// to one zone; empty returns all zones.
func (j *Journal) ListRecent(ctx context.Context, zoneID string, limit int) ([]Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	query := "SELECT id, action, zone_id, layout_json, metrics_json, created_at FROM actions"
	args := []interface{}{}
	if zoneID != "" {
		query += " WHERE zone_id = ?"
		args = append(args, zoneID)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var layoutJSON, metricsJSON string
		if err := rows.Scan(&e.ID, &e.Action, &e.ZoneID, &layoutJSON, &metricsJSON, &e.CreatedAt); err != nil {
			continue
		}
		json.Unmarshal([]byte(layoutJSON), &e.Layout)
		json.Unmarshal([]byte(metricsJSON), &e.Metrics)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// CountByAction returns how many entries exist per action name.
func (j *Journal) CountByAction(ctx context.Context) (map[string]int64, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx, "SELECT action, COUNT(*) FROM actions GROUP BY action")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var action string
		var n int64
		if err := rows.Scan(&action, &n); err != nil {
			continue
		}
		counts[action] = n
	}

	return counts, rows.Err()
}
