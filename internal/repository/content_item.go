// Package repository persists feed items in PostgreSQL.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-feed/internal/models"
)

// ErrNotFound is returned when no item has the requested id.
var ErrNotFound = errors.New("content feed item not found")

const (
	itemColumns = `id, type, url, title, description, thumbnail, position, active, created_at, updated_at`

	// Display order. id breaks ties between items created in the same instant.
	displayOrder = `ORDER BY position ASC, created_at DESC, id DESC`

	// Serializes position assignment between concurrent creates.
	positionLockKey int64 = 0x636f6e74656e74 // "content"
)

// ContentItemRepository is the item store.
type ContentItemRepository struct {
	db     *sqlx.DB
	logger infralogger.Logger
}

// NewContentItemRepository creates a repository over db.
func NewContentItemRepository(db *sqlx.DB, log infralogger.Logger) *ContentItemRepository {
	return &ContentItemRepository{db: db, logger: log}
}

// FindAll returns every item in display order.
func (r *ContentItemRepository) FindAll(ctx context.Context) ([]models.ContentItem, error) {
	items := make([]models.ContentItem, 0)
	query := `SELECT ` + itemColumns + ` FROM content_feed_items ` + displayOrder

	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("select content feed items: %w", err)
	}
	return items, nil
}

// FindActive returns active items in display order.
func (r *ContentItemRepository) FindActive(ctx context.Context) ([]models.ContentItem, error) {
	items := make([]models.ContentItem, 0)
	query := `SELECT ` + itemColumns + ` FROM content_feed_items WHERE active = TRUE ` + displayOrder

	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("select active content feed items: %w", err)
	}
	return items, nil
}

// FindByID returns ErrNotFound when id does not exist.
func (r *ContentItemRepository) FindByID(ctx context.Context, id int64) (*models.ContentItem, error) {
	var item models.ContentItem
	query := `SELECT ` + itemColumns + ` FROM content_feed_items WHERE id = $1`

	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get content feed item %d: %w", id, err)
	}
	return &item, nil
}

// Create inserts item and fills in its id, position and timestamps. A nil
// position appends the item after the current maximum.
func (r *ContentItemRepository) Create(ctx context.Context, item *models.ContentItem, position *int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, positionLockKey); err != nil {
		return fmt.Errorf("lock positions: %w", err)
	}

	if position != nil {
		item.Position = *position
	} else if item.Position, err = nextPosition(ctx, tx); err != nil {
		return err
	}

	query := `
		INSERT INTO content_feed_items (type, url, title, description, thumbnail, position, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRowxContext(ctx, query,
		item.Type,
		item.URL,
		item.Title,
		item.Description,
		item.Thumbnail,
		item.Position,
		item.Active,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert content feed item: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit content feed item: %w", err)
	}

	r.logger.Debug("Content feed item created",
		infralogger.Int64("id", item.ID),
		infralogger.Int("position", item.Position),
	)
	return nil
}

// GetNextPosition returns one past the highest position, or 1 for an empty table.
func (r *ContentItemRepository) GetNextPosition(ctx context.Context) (int, error) {
	return nextPosition(ctx, r.db)
}

func nextPosition(ctx context.Context, q sqlx.QueryerContext) (int, error) {
	var next int
	if err := sqlx.GetContext(ctx, q, &next, `SELECT COALESCE(MAX(position), 0) + 1 FROM content_feed_items`); err != nil {
		return 0, fmt.Errorf("next position: %w", err)
	}
	return next, nil
}

// Update applies the set fields of u and refreshes updated_at in one
// statement. ErrNotFound leaves the table untouched.
func (r *ContentItemRepository) Update(ctx context.Context, id int64, u models.ItemUpdate) (*models.ContentItem, error) {
	sets := make([]string, 0, 8)
	args := make([]any, 0, 8)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if u.Type != nil {
		add("type", *u.Type)
	}
	if u.URL != nil {
		add("url", *u.URL)
	}
	metadata := func(column string, value *string) {
		switch {
		case value != nil:
			add(column, *value)
		case u.ClearMetadata:
			sets = append(sets, column+" = NULL")
		}
	}
	metadata("title", u.Title)
	metadata("description", u.Description)
	metadata("thumbnail", u.Thumbnail)
	if u.Position != nil {
		add("position", *u.Position)
	}
	if u.Active != nil {
		add("active", *u.Active)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := `UPDATE content_feed_items SET ` + strings.Join(sets, ", ") +
		` WHERE id = $` + strconv.Itoa(len(args)) + ` RETURNING ` + itemColumns

	return r.returningOne(ctx, "update", id, query, args...)
}

// ToggleActive flips the active flag atomically and returns the new state.
func (r *ContentItemRepository) ToggleActive(ctx context.Context, id int64) (*models.ContentItem, error) {
	query := `UPDATE content_feed_items SET active = NOT active, updated_at = NOW() WHERE id = $1 RETURNING ` + itemColumns
	return r.returningOne(ctx, "toggle", id, query, id)
}

func (r *ContentItemRepository) returningOne(ctx context.Context, op string, id int64, query string, args ...any) (*models.ContentItem, error) {
	var item models.ContentItem
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s content feed item %d: %w", op, id, err)
	}
	return &item, nil
}

// Delete removes one item.
func (r *ContentItemRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM content_feed_items WHERE id = $1`, id)
	if err = execRequireRows(result, err, ErrNotFound); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete content feed item %d: %w", id, err)
	}
	return nil
}

// Count returns the number of stored items.
func (r *ContentItemRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM content_feed_items`); err != nil {
		return 0, fmt.Errorf("count content feed items: %w", err)
	}
	return n, nil
}

func execRequireRows(result sql.Result, err, notFoundErr error) error {
	if err != nil {
		return err
	}
	n, affectedErr := result.RowsAffected()
	if affectedErr != nil {
		return affectedErr
	}
	if n == 0 {
		return notFoundErr
	}
	return nil
}
