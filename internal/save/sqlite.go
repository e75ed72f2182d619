package save

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/hanafuda/koikoi-go/internal/game"
	"github.com/hanafuda/koikoi-go/internal/stats"
)

// SQLiteStore implements LocalStore on a SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and runs
// migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	baseMigrations := []string{
		`CREATE TABLE IF NOT EXISTS saves (
			id TEXT PRIMARY KEY,
			uid TEXT NOT NULL,
			save_key TEXT NOT NULL,
			game_state TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			game_id TEXT NOT NULL,
			mode TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			uid TEXT PRIMARY KEY,
			document TEXT NOT NULL,
			last_updated INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_saves_uid ON saves(uid)`,
		`CREATE INDEX IF NOT EXISTS idx_saves_timestamp ON saves(uid, timestamp DESC)`,
	}
	for _, migration := range baseMigrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("base migration failed: %w", err)
		}
	}

	// Columns added after the first release.
	alterMigrations := []string{
		`ALTER TABLE saves ADD COLUMN p1 TEXT`,
		`ALTER TABLE saves ADD COLUMN p2 TEXT`,
		`ALTER TABLE saves ADD COLUMN active_player TEXT`,
	}
	for _, migration := range alterMigrations {
		if _, err := s.db.Exec(migration); err != nil {
			if !isDuplicateColumnError(err) {
				return fmt.Errorf("alter migration failed: %w", err)
			}
		}
	}
	return nil
}

func isDuplicateColumnError(err error) bool {
	return strings.Contains(err.Error(), "duplicate column name")
}

// PutSave stores or replaces a save slot.
func (s *SQLiteStore) PutSave(record *GameSaveRecord) error {
	query := `INSERT INTO saves (
		id, uid, save_key, game_state, timestamp, game_id, mode, p1, p2, active_player
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		game_state = excluded.game_state,
		timestamp = excluded.timestamp,
		game_id = excluded.game_id,
		mode = excluded.mode,
		p1 = excluded.p1,
		p2 = excluded.p2,
		active_player = excluded.active_player`

	_, err := s.db.Exec(query,
		record.ID, record.UID, record.SaveKey, record.GameState,
		record.Timestamp, record.GameID, string(record.Mode),
		record.P1, record.P2, string(record.ActivePlayer),
	)
	if err != nil {
		return fmt.Errorf("failed to store save %s: %w", record.ID, err)
	}
	return nil
}

func scanSave(scan func(dest ...any) error) (*GameSaveRecord, error) {
	var record GameSaveRecord
	var mode, activePlayer string
	var p1, p2 sql.NullString
	err := scan(
		&record.ID, &record.UID, &record.SaveKey, &record.GameState,
		&record.Timestamp, &record.GameID, &mode, &p1, &p2, &activePlayer,
	)
	if err != nil {
		return nil, err
	}
	record.Mode = Mode(mode)
	record.ActivePlayer = game.PlayerKey(activePlayer)
	if p1.Valid {
		record.P1 = p1.String
	}
	if p2.Valid {
		record.P2 = p2.String
	}
	return &record, nil
}

const saveColumns = `id, uid, save_key, game_state, timestamp, game_id, mode,
	p1, p2, COALESCE(active_player, '')`

// GetSave loads one slot, nil when absent.
func (s *SQLiteStore) GetSave(uid, saveKey string) (*GameSaveRecord, error) {
	row := s.db.QueryRow(
		`SELECT `+saveColumns+` FROM saves WHERE id = ?`, RecordID(uid, saveKey))
	record, err := scanSave(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load save: %w", err)
	}
	return record, nil
}

// ListSaves returns every slot a player owns, newest first.
func (s *SQLiteStore) ListSaves(uid string) ([]GameSaveRecord, error) {
	rows, err := s.db.Query(
		`SELECT `+saveColumns+` FROM saves WHERE uid = ? ORDER BY timestamp DESC`, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to query saves: %w", err)
	}
	defer rows.Close()

	var out []GameSaveRecord
	for rows.Next() {
		record, err := scanSave(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan save: %w", err)
		}
		out = append(out, *record)
	}
	return out, rows.Err()
}

// DeleteSave removes one slot.
func (s *SQLiteStore) DeleteSave(uid, saveKey string) error {
	_, err := s.db.Exec(`DELETE FROM saves WHERE id = ?`, RecordID(uid, saveKey))
	if err != nil {
		return fmt.Errorf("failed to delete save: %w", err)
	}
	return nil
}

// PutProfile stores a profile as its JSON document.
func (s *SQLiteStore) PutProfile(profile *stats.Profile) error {
	document, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	query := `INSERT INTO profiles (uid, document, last_updated) VALUES (?, ?, ?)
		ON CONFLICT(uid) DO UPDATE SET
			document = excluded.document,
			last_updated = excluded.last_updated`
	if _, err := s.db.Exec(query, profile.UID, string(document), profile.LastUpdated); err != nil {
		return fmt.Errorf("failed to store profile %s: %w", profile.UID, err)
	}
	return nil
}

// GetProfile loads a profile, nil when absent. Stats inside the
// document are verified and reset on tamper.
func (s *SQLiteStore) GetProfile(uid string) (*stats.Profile, error) {
	var document string
	err := s.db.QueryRow(`SELECT document FROM profiles WHERE uid = ?`, uid).Scan(&document)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	var profile stats.Profile
	if err := json.Unmarshal([]byte(document), &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile %s: %w", uid, err)
	}
	if profile.Stats != nil {
		profile.Stats = stats.VerifyOrReset(profile.Stats)
	}
	return &profile, nil
}
