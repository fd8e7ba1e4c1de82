// Package persistence provides SQLite-based storage for the Terminal
// Network's persistent state: the transfer ledger, terminal EMAs, and
// the tier snapshot.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/terminalnet/internal/network"
	"github.com/talgya/terminalnet/internal/resource"
)

// DB wraps a SQLite connection for Terminal Network state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS transfers (
		resource TEXT NOT NULL,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		units INTEGER NOT NULL,
		cost INTEGER NOT NULL,
		PRIMARY KEY (resource, origin, destination)
	);

	CREATE TABLE IF NOT EXISTS terminal_stats (
		colony TEXT PRIMARY KEY,
		avg_cooldown REAL NOT NULL,
		overload REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tier_snapshot (
		tier TEXT NOT NULL,
		colony TEXT NOT NULL,
		resources_json TEXT NOT NULL,
		PRIMARY KEY (tier, colony)
	);

	CREATE TABLE IF NOT EXISTS network_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transfers_origin ON transfers(origin);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// transferRow mirrors one row of the transfers table.
type transferRow struct {
	Resource    string `db:"resource"`
	Origin      string `db:"origin"`
	Destination string `db:"destination"`
	Units       uint64 `db:"units"`
	Cost        uint64 `db:"cost"`
}

// terminalStatsRow mirrors one row of the terminal_stats table.
type terminalStatsRow struct {
	Colony      string  `db:"colony"`
	AvgCooldown float64 `db:"avg_cooldown"`
	Overload    float64 `db:"overload"`
}

// tierSnapshotRow mirrors one row of the tier_snapshot table.
type tierSnapshotRow struct {
	Tier          string `db:"tier"`
	Colony        string `db:"colony"`
	ResourcesJSON string `db:"resources_json"`
}

// SavePersistentState performs a full replace of the Terminal
// Network's persistent state.
func (db *DB) SavePersistentState(state *network.PersistentState) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := saveTransfers(tx, state); err != nil {
		return fmt.Errorf("save transfers: %w", err)
	}
	if err := saveTerminalStats(tx, state); err != nil {
		return fmt.Errorf("save terminal stats: %w", err)
	}
	if err := saveTierSnapshot(tx, state); err != nil {
		return fmt.Errorf("save tier snapshot: %w", err)
	}

	return tx.Commit()
}

func saveTransfers(tx *sqlx.Tx, state *network.PersistentState) error {
	if _, err := tx.Exec("DELETE FROM transfers"); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO transfers (resource, origin, destination, units, cost)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for r, byOrigin := range state.Transfers {
		for origin, byDest := range byOrigin {
			for dest, units := range byDest {
				cost := state.Costs[origin][dest]
				if _, err := stmt.Exec(r.String(), origin, dest, units, cost); err != nil {
					return fmt.Errorf("insert transfer %s %s->%s: %w", r.String(), origin, dest, err)
				}
			}
		}
	}
	return nil
}

func saveTerminalStats(tx *sqlx.Tx, state *network.PersistentState) error {
	if _, err := tx.Exec("DELETE FROM terminal_stats"); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO terminal_stats (colony, avg_cooldown, overload) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	colonies := make(map[string]bool)
	for c := range state.AvgCooldown {
		colonies[c] = true
	}
	for c := range state.Overload {
		colonies[c] = true
	}
	for c := range colonies {
		if _, err := stmt.Exec(c, state.AvgCooldown[c], state.Overload[c]); err != nil {
			return fmt.Errorf("insert terminal stats %s: %w", c, err)
		}
	}
	return nil
}

func saveTierSnapshot(tx *sqlx.Tx, state *network.PersistentState) error {
	if _, err := tx.Exec("DELETE FROM tier_snapshot"); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO tier_snapshot (tier, colony, resources_json) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for tier, byColony := range state.TierSnapshot {
		for colonyName, resources := range byColony {
			names := make([]string, 0, len(resources))
			for _, r := range resources {
				names = append(names, r.String())
			}
			blob, err := json.Marshal(names)
			if err != nil {
				return err
			}
			if _, err := stmt.Exec(tier.String(), colonyName, string(blob)); err != nil {
				return fmt.Errorf("insert tier snapshot %s/%s: %w", tier.String(), colonyName, err)
			}
		}
	}
	return nil
}

// LoadPersistentState reads back the full persistent state, so it
// survives across process restarts rather than just across ticks.
func (db *DB) LoadPersistentState() (*network.PersistentState, error) {
	state := network.NewPersistentState()

	var transferRows []transferRow
	if err := db.conn.Select(&transferRows, "SELECT resource, origin, destination, units, cost FROM transfers"); err != nil {
		return nil, fmt.Errorf("load transfers: %w", err)
	}
	byName := resource.NameIndex()
	for _, row := range transferRows {
		r, ok := byName[row.Resource]
		if !ok {
			slog.Warn("skipping transfer row for unknown resource", "resource", row.Resource)
			continue
		}
		state.RecordLoadedTransfer(r, row.Origin, row.Destination, row.Units, row.Cost)
	}

	var statsRows []terminalStatsRow
	if err := db.conn.Select(&statsRows, "SELECT colony, avg_cooldown, overload FROM terminal_stats"); err != nil {
		return nil, fmt.Errorf("load terminal stats: %w", err)
	}
	for _, row := range statsRows {
		state.AvgCooldown[row.Colony] = row.AvgCooldown
		state.Overload[row.Colony] = row.Overload
	}

	var snapshotRows []tierSnapshotRow
	if err := db.conn.Select(&snapshotRows, "SELECT tier, colony, resources_json FROM tier_snapshot"); err != nil {
		return nil, fmt.Errorf("load tier snapshot: %w", err)
	}
	tierByName := network.TierNameIndex()
	for _, row := range snapshotRows {
		tier, ok := tierByName[row.Tier]
		if !ok {
			continue
		}
		var names []string
		if err := json.Unmarshal([]byte(row.ResourcesJSON), &names); err != nil {
			return nil, fmt.Errorf("parse tier snapshot resources for %s/%s: %w", row.Tier, row.Colony, err)
		}
		resources := make([]resource.Resource, 0, len(names))
		for _, name := range names {
			if r, ok := byName[name]; ok {
				resources = append(resources, r)
			}
		}
		byColony, ok := state.TierSnapshot[tier]
		if !ok {
			byColony = make(map[string][]resource.Resource)
			state.TierSnapshot[tier] = byColony
		}
		byColony[row.Colony] = resources
	}

	return state, nil
}

// SaveMeta stores a key-value pair in network metadata (e.g. last tick).
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO network_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM network_meta WHERE key = ?", key)
	return value, err
}
