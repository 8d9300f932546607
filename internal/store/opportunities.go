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

// OpportunityFilter narrows ListOpportunities results.
type OpportunityFilter struct {
	Status string
	Tags   []string // OR semantics, case-sensitive
	Limit  int
}

// InsertOpportunity persists a new opportunity record.
func (db *DB) InsertOpportunity(o models.Opportunity) error {
	tagsJSON, _ := json.Marshal(o.Tags)
	metaJSON, _ := json.Marshal(o.Metadata)

	_, err := db.conn.Exec(`
		INSERT INTO opportunities (id, title, description, status, tags, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, o.ID, o.Title, o.Description, o.Status, string(tagsJSON), string(metaJSON),
		o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("store: insert opportunity: %w", err)
	}
	return nil
}

// GetOpportunity returns the opportunity for id, or apperr.ErrNotFound.
func (db *DB) GetOpportunity(id string) (*models.Opportunity, error) {
	row := db.conn.QueryRow(`
		SELECT id, title, description, status, tags, metadata, created_at, updated_at,
		       (SELECT count(*) FROM notes WHERE opportunity_id = opportunities.id)
		FROM opportunities WHERE id = ?
	`, id)
	o, err := scanOpportunity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: get opportunity: %w", err)
	}
	return o, nil
}

// UpdateOpportunityStatus changes the status of an opportunity.
func (db *DB) UpdateOpportunityStatus(id, status string) error {
	res, err := db.conn.Exec(`
		UPDATE opportunities SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, status, id)
	if err != nil {
		return fmt.Errorf("store: update opportunity status: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ListOpportunities returns opportunities matching the filter, newest first,
// each enriched with the count of notes referencing it.
func (db *DB) ListOpportunities(f OpportunityFilter) ([]models.Opportunity, error) {
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		conds = append(conds, `status = ?`)
		args = append(args, f.Status)
	}
	if len(f.Tags) > 0 {
		// Tags are stored as a JSON array; match the quoted value.
		var tagConds []string
		for _, tag := range f.Tags {
			tagConds = append(tagConds, `tags LIKE ?`)
			args = append(args, `%"`+tag+`"%`)
		}
		conds = append(conds, `(`+strings.Join(tagConds, ` OR `)+`)`)
	}

	query := `
		SELECT id, title, description, status, tags, metadata, created_at, updated_at,
		       (SELECT count(*) FROM notes WHERE opportunity_id = opportunities.id)
		FROM opportunities`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list opportunities: %w", err)
	}
	defer rows.Close()

	var out []models.Opportunity
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan opportunity: %w", err)
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func scanOpportunity(row rowScanner) (*models.Opportunity, error) {
	var (
		o        models.Opportunity
		tagsJSON string
		metaJSON string
	)
	err := row.Scan(&o.ID, &o.Title, &o.Description, &o.Status, &tagsJSON,
		&metaJSON, &o.CreatedAt, &o.UpdatedAt, &o.NoteCount)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tagsJSON), &o.Tags); err != nil || o.Tags == nil {
		o.Tags = []string{}
	}
	if err := json.Unmarshal([]byte(metaJSON), &o.Metadata); err != nil {
		o.Metadata = nil
	}
	return &o, nil
}
