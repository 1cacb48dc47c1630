package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/goliatone/go-pagebuilder/components/pagebuilder"
)

const uniqueViolation = "23505"

// Store implements pagebuilder.PageStore on a *sql.DB opened with the pgx driver.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ pagebuilder.PageStore = (*Store)(nil)

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// WithClock overrides the timestamp source, mostly for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	if now != nil {
		s.now = now
	}
	return s
}

const selectDocument = `SELECT document, revision, created_at, updated_at FROM pagebuilder_pages`

// Get loads one page by id.
func (s *Store) Get(ctx context.Context, storeID, pageID string) (*pagebuilder.PageDocument, error) {
	row := s.db.QueryRowContext(ctx, selectDocument+` WHERE store_id = $1 AND id = $2`, storeID, pageID)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &pagebuilder.NotFoundError{Kind: "page", ID: pageID}
	}
	return doc, err
}

// GetBySlug loads one page by its slug.
func (s *Store) GetBySlug(ctx context.Context, storeID, slug string) (*pagebuilder.PageDocument, error) {
	row := s.db.QueryRowContext(ctx, selectDocument+` WHERE store_id = $1 AND slug = $2`, storeID, slug)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &pagebuilder.NotFoundError{Kind: "page", ID: slug}
	}
	return doc, err
}

// List returns page summaries ordered by slug.
func (s *Store) List(ctx context.Context, storeID string) ([]pagebuilder.PageSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, store_id, title, slug, status, revision, updated_at
		 FROM pagebuilder_pages WHERE store_id = $1 ORDER BY slug, id`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var out []pagebuilder.PageSummary
	for rows.Next() {
		var (
			summary pagebuilder.PageSummary
			status  string
		)
		if err := rows.Scan(&summary.ID, &summary.StoreID, &summary.Title, &summary.Slug,
			&status, &summary.Revision, &summary.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		summary.Status = pagebuilder.PageStatus(status)
		out = append(out, summary)
	}
	return out, rows.Err()
}

// Save writes the document inside a transaction. The stored row is locked
// while the expected revision is compared, and the revision is bumped on write.
func (s *Store) Save(ctx context.Context, doc *pagebuilder.PageDocument, opts pagebuilder.SaveOptions) (*pagebuilder.PageDocument, error) {
	if doc == nil {
		return nil, errors.New("pagebuilder: save requires a document")
	}
	if err := doc.CheckStructure(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var (
		current   int64
		createdAt time.Time
		exists    = true
	)
	err = tx.QueryRowContext(ctx,
		`SELECT revision, created_at FROM pagebuilder_pages WHERE store_id = $1 AND id = $2 FOR UPDATE`,
		doc.StoreID, doc.ID).Scan(&current, &createdAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		exists = false
	case err != nil:
		return nil, fmt.Errorf("load revision: %w", err)
	}
	if opts.ExpectedRevision > 0 && opts.ExpectedRevision != current {
		return nil, fmt.Errorf("%w: page %s is at revision %d, expected %d",
			pagebuilder.ErrRevisionConflict, doc.ID, current, opts.ExpectedRevision)
	}

	stored := doc.Clone()
	now := s.now().UTC()
	switch {
	case exists:
		stored.CreatedAt = createdAt
	case stored.CreatedAt.IsZero():
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	stored.Revision = current + 1

	payload, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("encode page %s: %w", doc.ID, err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO pagebuilder_pages
		   (store_id, id, slug, title, status, revision, document, created_at, updated_at, published_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (store_id, id) DO UPDATE SET
		   slug = EXCLUDED.slug, title = EXCLUDED.title, status = EXCLUDED.status,
		   revision = EXCLUDED.revision, document = EXCLUDED.document,
		   updated_at = EXCLUDED.updated_at, published_at = EXCLUDED.published_at`,
		stored.StoreID, stored.ID, stored.Meta.Slug, stored.Meta.Title, string(stored.Meta.Status),
		stored.Revision, payload, stored.CreatedAt, stored.UpdatedAt, stored.PublishedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: %s", pagebuilder.ErrSlugTaken, stored.Meta.Slug)
		}
		return nil, fmt.Errorf("save page %s: %w", doc.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit save: %w", err)
	}
	return stored, nil
}

// Delete removes the page.
func (s *Store) Delete(ctx context.Context, storeID, pageID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM pagebuilder_pages WHERE store_id = $1 AND id = $2`, storeID, pageID)
	if err != nil {
		return fmt.Errorf("delete page %s: %w", pageID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete page %s: %w", pageID, err)
	}
	if n == 0 {
		return &pagebuilder.NotFoundError{Kind: "page", ID: pageID}
	}
	return nil
}

func scanDocument(row *sql.Row) (*pagebuilder.PageDocument, error) {
	var (
		raw       []byte
		revision  int64
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&raw, &revision, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var doc pagebuilder.PageDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	doc.Revision = revision
	doc.CreatedAt = createdAt
	doc.UpdatedAt = updatedAt
	return &doc, nil
}
