package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/coverforge/internal/model"
)

// Ensure SQLiteStore implements model.DraftStore.
var _ model.DraftStore = (*SQLiteStore)(nil)

// SQLiteStore keeps generated cover letters in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// drafts table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS drafts (
		id         TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		model      TEXT NOT NULL,
		position   TEXT NOT NULL DEFAULT '',
		company    TEXT NOT NULL DEFAULT '',
		prompt     TEXT NOT NULL,
		letter     TEXT NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating drafts table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save inserts a draft.
func (s *SQLiteStore) Save(ctx context.Context, d model.Draft) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO drafts (id, created_at, model, position, company, prompt, letter)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.CreatedAt.UTC(), string(d.Model), d.Position, d.Company, d.Prompt, d.Letter,
	)
	if err != nil {
		return fmt.Errorf("saving draft %s: %w", d.ID, err)
	}
	return nil
}

// List returns up to limit drafts, newest first. A non-positive limit returns all.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]model.Draft, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, model, position, company, prompt, letter
		 FROM drafts ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	defer rows.Close()

	var drafts []model.Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("listing drafts: %w", err)
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	return drafts, nil
}

// Get returns the draft with the given id, or model.ErrDraftNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id string) (model.Draft, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, model, position, company, prompt, letter
		 FROM drafts WHERE id = ?`, id)
	d, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Draft{}, fmt.Errorf("draft %s: %w", id, model.ErrDraftNotFound)
	}
	if err != nil {
		return model.Draft{}, fmt.Errorf("loading draft %s: %w", id, err)
	}
	return d, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDraft(sc scanner) (model.Draft, error) {
	var (
		d         model.Draft
		createdAt time.Time
		chatModel string
	)
	if err := sc.Scan(&d.ID, &createdAt, &chatModel, &d.Position, &d.Company, &d.Prompt, &d.Letter); err != nil {
		return model.Draft{}, err
	}
	d.CreatedAt = createdAt
	d.Model = model.ChatModel(chatModel)
	return d, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
