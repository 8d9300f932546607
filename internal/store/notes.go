package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/models"
)

// NoteFilter narrows ListNotes results. Zero values mean "no constraint".
type NoteFilter struct {
	// Tags matches notes carrying any of the given tags (OR semantics).
	// Comparison is case-sensitive.
	Tags []string
	// Exact foreign-reference matches.
	OpportunityID string
	WorkflowID    string
	TaskID        string
	// Limit caps the result count; <= 0 means unlimited.
	Limit int
	// ByCreated orders by the creation-time index instead of update time.
	ByCreated bool
}

const noteColumns = `id, title, content, tags, opportunity_id, workflow_id, task_id, encrypted, metadata, created_at, updated_at`

// InsertNote persists a new note and its tag index entries in one
// transaction.
func (db *DB) InsertNote(n models.Note) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if err := insertNoteTx(tx, n); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateNote replaces the stored record for n.ID and rewrites its tag index
// entries. Returns apperr.ErrNotFound when no such note exists.
func (db *DB) UpdateNote(n models.Note) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	tagsJSON, _ := json.Marshal(n.Tags)
	metaJSON, _ := json.Marshal(n.Metadata)

	res, err := tx.Exec(`
		UPDATE notes SET
			title          = ?,
			content        = ?,
			tags           = ?,
			opportunity_id = ?,
			workflow_id    = ?,
			task_id        = ?,
			encrypted      = ?,
			metadata       = ?,
			updated_at     = ?
		WHERE id = ?
	`, n.Title, n.Content, string(tagsJSON), n.OpportunityID, n.WorkflowID, n.TaskID,
		n.Encrypted, string(metaJSON), n.UpdatedAt, n.ID)
	if err != nil {
		return fmt.Errorf("store: update note: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return apperr.ErrNotFound
	}

	if _, err := tx.Exec(`DELETE FROM note_tags WHERE note_id = ?`, n.ID); err != nil {
		return fmt.Errorf("store: clear tags: %w", err)
	}
	if err := insertTagsTx(tx, n.ID, n.Tags); err != nil {
		return err
	}
	return tx.Commit()
}

// GetNote returns the stored record for id, or apperr.ErrNotFound.
func (db *DB) GetNote(id string) (*models.Note, error) {
	row := db.conn.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	n, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: get note: %w", err)
	}
	return n, nil
}

// DeleteNote removes a note and its tag entries, reporting whether a record
// existed.
func (db *DB) DeleteNote(id string) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(`DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("store: delete note: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM note_tags WHERE note_id = ?`, id); err != nil {
		return false, fmt.Errorf("store: delete tags: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("store: commit delete: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// ListNotes returns notes matching the filter, ordered by update time
// descending (or creation time when f.ByCreated is set).
func (db *DB) ListNotes(f NoteFilter) ([]models.Note, error) {
	var (
		conds []string
		args  []any
	)
	if len(f.Tags) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(f.Tags)), ",")
		conds = append(conds, `id IN (SELECT note_id FROM note_tags WHERE tag IN (`+placeholders+`))`)
		for _, tag := range f.Tags {
			args = append(args, tag)
		}
	}
	if f.OpportunityID != "" {
		conds = append(conds, `opportunity_id = ?`)
		args = append(args, f.OpportunityID)
	}
	if f.WorkflowID != "" {
		conds = append(conds, `workflow_id = ?`)
		args = append(args, f.WorkflowID)
	}
	if f.TaskID != "" {
		conds = append(conds, `task_id = ?`)
		args = append(args, f.TaskID)
	}

	query := `SELECT ` + noteColumns + ` FROM notes`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	if f.ByCreated {
		query += ` ORDER BY created_at DESC`
	} else {
		query += ` ORDER BY updated_at DESC`
	}
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list notes: %w", err)
	}
	defer rows.Close()
	return collectNotes(rows)
}

// AllNotes returns every stored note, used for index rebuilds.
func (db *DB) AllNotes() ([]models.Note, error) {
	rows, err := db.conn.Query(`SELECT ` + noteColumns + ` FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("store: all notes: %w", err)
	}
	defer rows.Close()
	return collectNotes(rows)
}

// NoteCounts returns the total and encrypted note counts.
func (db *DB) NoteCounts() (total, encrypted int, err error) {
	err = db.conn.QueryRow(`SELECT count(*), count(CASE WHEN encrypted THEN 1 END) FROM notes`).
		Scan(&total, &encrypted)
	if err != nil {
		return 0, 0, fmt.Errorf("store: note counts: %w", err)
	}
	return total, encrypted, nil
}

// DistinctTagCount returns the number of distinct tag values across all
// notes.
func (db *DB) DistinctTagCount() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(DISTINCT tag) FROM note_tags`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: tag count: %w", err)
	}
	return n, nil
}

func insertNoteTx(tx *sql.Tx, n models.Note) error {
	tagsJSON, _ := json.Marshal(n.Tags)
	metaJSON, _ := json.Marshal(n.Metadata)

	_, err := tx.Exec(`
		INSERT INTO notes (`+noteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.Title, n.Content, string(tagsJSON), n.OpportunityID, n.WorkflowID,
		n.TaskID, n.Encrypted, string(metaJSON), n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("store: insert note: %w", err)
	}
	return insertTagsTx(tx, n.ID, n.Tags)
}

func insertTagsTx(tx *sql.Tx, id string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO note_tags (note_id, tag) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare tag insert: %w", err)
	}
	defer stmt.Close()
	for _, tag := range tags {
		if _, err := stmt.Exec(id, tag); err != nil {
			return fmt.Errorf("store: insert tag: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	var (
		n        models.Note
		tagsJSON string
		metaJSON string
	)
	err := row.Scan(&n.ID, &n.Title, &n.Content, &tagsJSON, &n.OpportunityID,
		&n.WorkflowID, &n.TaskID, &n.Encrypted, &metaJSON, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tagsJSON), &n.Tags); err != nil {
		n.Tags = []string{}
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	if err := json.Unmarshal([]byte(metaJSON), &n.Metadata); err != nil {
		n.Metadata = nil
	}
	return &n, nil
}

func collectNotes(rows *sql.Rows) ([]models.Note, error) {
	var out []models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan note: %w", err)
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}
