// Package playerdb stores player inventories in SQLite. A player is
// hydrated from here when their session starts and flushed back when it
// ends; the authoritative in-memory copy is never read back mid-session.
package playerdb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"sojourn.world/internal/sim/inventory"
)

type DB struct {
	db *sql.DB
}

// record is the serialized inventory shape. Empty slots are stored
// explicitly so a hydrated grid never contains ambiguous entries.
type record struct {
	Rows  int              `json:"rows"`
	Cols  int              `json:"cols"`
	Slots []inventory.Item `json:"slots"`
	Quick []inventory.Item `json:"quick"`
	Gold  int64            `json:"gold"`
}

func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS players (
		player_id TEXT PRIMARY KEY,
		inventory_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`)
	return err
}

func (d *DB) Close() error { return d.db.Close() }

// Load hydrates a player's inventory. The second return is false when the
// player has never been saved.
func (d *DB) Load(playerID string) (*inventory.Inventory, bool, error) {
	var raw string
	err := d.db.QueryRow(
		`SELECT inventory_json FROM players WHERE player_id = ?`, playerID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, false, fmt.Errorf("player %s: corrupt inventory record: %w", playerID, err)
	}

	if rec.Cols < 1 {
		rec.Cols = 1
	}
	inv := inventory.New(rec.Rows, rec.Cols, len(rec.Quick))
	for i, it := range rec.Slots {
		if i >= inv.Capacity() {
			break
		}
		if err := inv.Set(i/rec.Cols, i%rec.Cols, it); err != nil {
			return nil, false, err
		}
	}
	for i, it := range rec.Quick {
		if err := inv.SetQuick(i, it); err != nil {
			return nil, false, err
		}
	}
	inv.SetGold(rec.Gold)
	inv.Sanitize()
	return inv, true, nil
}

// Save flushes a player's inventory. The container is sanitized first so a
// malformed slot can never reach storage.
func (d *DB) Save(playerID string, inv *inventory.Inventory) error {
	if playerID == "" {
		return fmt.Errorf("empty player id")
	}
	inv.Sanitize()
	rec := record{
		Rows:  inv.Rows(),
		Cols:  inv.Cols(),
		Slots: inv.Slots(),
		Quick: inv.QuickSlots(),
		Gold:  inv.Gold(),
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(
		`INSERT INTO players (player_id, inventory_json, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(player_id) DO UPDATE SET inventory_json=excluded.inventory_json, updated_at=excluded.updated_at`,
		playerID, string(raw), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}
