package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/meur/bistracker/internal/models"
)

// ErrNotFound is returned when a snapshot does not exist
var ErrNotFound = errors.New("not found")

// Store handles snapshot persistence in SQLite
type Store struct {
	db *sql.DB
}

// New creates a new Store with SQLite
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs database migrations
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			note TEXT NOT NULL DEFAULT '',
			records TEXT NOT NULL,
			bis TEXT NOT NULL,
			share_code TEXT UNIQUE NOT NULL,
			pending_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_share ON snapshots(share_code)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_updated ON snapshots(updated_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// generateShareCode creates a short unique share code
func generateShareCode() string {
	u := uuid.New()
	return u.String()[:8]
}

// CreateSnapshot stores a copy of records and bis under a new id
func (s *Store) CreateSnapshot(create *models.SnapshotCreate, records []models.SlotRecord, bis models.BisTable, pending int) (*models.Snapshot, error) {
	if bis == nil {
		bis = models.BisTable{}
	}
	recordsJSON, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}
	bisJSON, err := json.Marshal(bis)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bis table: %w", err)
	}

	id := uuid.New().String()
	shareCode := generateShareCode()
	now := time.Now().UTC()

	_, err = s.db.Exec(`
		INSERT INTO snapshots (id, name, note, records, bis, share_code, pending_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, create.Name, create.Note, string(recordsJSON), string(bisJSON), shareCode, pending, now, now)
	if err != nil {
		return nil, err
	}

	return &models.Snapshot{
		ID:           id,
		Name:         create.Name,
		Note:         create.Note,
		Records:      append([]models.SlotRecord(nil), records...),
		Bis:          bis.Clone(),
		ShareCode:    shareCode,
		PendingCount: pending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

const snapshotColumns = `id, name, note, records, bis, share_code, pending_count, created_at, updated_at`

func scanSnapshot(row *sql.Row) (*models.Snapshot, error) {
	var snap models.Snapshot
	var recordsStr, bisStr string

	err := row.Scan(&snap.ID, &snap.Name, &snap.Note, &recordsStr, &bisStr,
		&snap.ShareCode, &snap.PendingCount, &snap.CreatedAt, &snap.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(recordsStr), &snap.Records); err != nil {
		return nil, fmt.Errorf("snapshot %s: bad records: %w", snap.ID, err)
	}
	if err := json.Unmarshal([]byte(bisStr), &snap.Bis); err != nil {
		return nil, fmt.Errorf("snapshot %s: bad bis table: %w", snap.ID, err)
	}
	return &snap, nil
}

// GetSnapshot returns a snapshot by ID
func (s *Store) GetSnapshot(id string) (*models.Snapshot, error) {
	row := s.db.QueryRow(`SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?`, id)
	return scanSnapshot(row)
}

// GetSnapshotByShareCode returns a snapshot by share code
func (s *Store) GetSnapshotByShareCode(code string) (*models.Snapshot, error) {
	row := s.db.QueryRow(`SELECT `+snapshotColumns+` FROM snapshots WHERE share_code = ?`, code)
	return scanSnapshot(row)
}

// ListSnapshots returns all snapshots, most recently updated first
func (s *Store) ListSnapshots() ([]models.SnapshotSummary, error) {
	rows, err := s.db.Query(`
		SELECT id, name, share_code, pending_count, updated_at
		FROM snapshots ORDER BY updated_at DESC, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := []models.SnapshotSummary{}
	for rows.Next() {
		var sum models.SnapshotSummary
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.ShareCode, &sum.PendingCount, &sum.UpdatedAt); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, sum)
	}
	return snapshots, rows.Err()
}

// UpdateSnapshot updates the name and note of a snapshot
func (s *Store) UpdateSnapshot(id string, update *models.SnapshotUpdate) error {
	// Build dynamic update query
	sets := []string{"updated_at = ?"}
	args := []interface{}{time.Now().UTC()}

	if update.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *update.Name)
	}
	if update.Note != nil {
		sets = append(sets, "note = ?")
		args = append(args, *update.Note)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE snapshots SET %s WHERE id = ?", strings.Join(sets, ", "))

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteSnapshot deletes a snapshot by ID
func (s *Store) DeleteSnapshot(id string) error {
	res, err := s.db.Exec(`DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
