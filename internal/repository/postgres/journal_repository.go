package postgres

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Wandor/journaling-node/internal/domain/errors"
	"github.com/Wandor/journaling-node/internal/domain/models"
	"github.com/Wandor/journaling-node/internal/repository/interfaces"
)

// pgxJournalRepository implements interfaces.JournalStore using pgx.
type pgxJournalRepository struct {
	db *pgxpool.Pool
}

func NewJournalRepository(db *pgxpool.Pool) interfaces.JournalStore {
	return &pgxJournalRepository{db: db}
}

// Create inserts the entry and connects any user-supplied labels in the
// same transaction, so the entry never exists without its explicit tags.
func (r *pgxJournalRepository) Create(ctx context.Context, entry *models.JournalEntry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin entry create: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO journal_entries (id, user_id, title, content, summary, entry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())`,
		entry.ID, entry.UserID, entry.Title, entry.Content, entry.Summary, entry.EntryDate,
	); err != nil {
		return fmt.Errorf("failed to create journal entry: %w", err)
	}

	for _, tag := range entry.Tags {
		if err := connectTag(ctx, tx, entry.UserID, entry.ID, tag.Name); err != nil {
			return err
		}
	}
	for _, category := range entry.Categories {
		if err := connectCategory(ctx, tx, entry.UserID, entry.ID, category.Name); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit entry create: %w", err)
	}
	return nil
}

func (r *pgxJournalRepository) Get(ctx context.Context, id uuid.UUID) (*models.JournalEntry, error) {
	query := `
		SELECT id, user_id, title, content, COALESCE(summary, ''), entry_date, created_at, updated_at
		FROM journal_entries
		WHERE id = $1`

	entry := &models.JournalEntry{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&entry.ID, &entry.UserID, &entry.Title, &entry.Content,
		&entry.Summary, &entry.EntryDate, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry: %w", err)
	}

	if entry.Tags, err = r.entryTags(ctx, id); err != nil {
		return nil, err
	}
	if entry.Categories, err = r.entryCategories(ctx, id); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *pgxJournalRepository) entryTags(ctx context.Context, entryID uuid.UUID) ([]models.Tag, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.id, t.user_id, t.name
		FROM tags t
		JOIN entry_tags et ON et.tag_id = t.id
		WHERE et.entry_id = $1
		ORDER BY t.name`, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *pgxJournalRepository) entryCategories(ctx context.Context, entryID uuid.UUID) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.user_id, c.name
		FROM categories c
		JOIN entry_categories ec ON ec.category_id = c.id
		WHERE ec.entry_id = $1
		ORDER BY c.name`, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ApplyDerived writes post-processing output in one transaction. Labels
// are created by name if missing and connected to the entry; nil slices
// leave the existing labels untouched.
func (r *pgxJournalRepository) ApplyDerived(ctx context.Context, update models.DerivedUpdate) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin derived update: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		UPDATE journal_entries SET
			title = $2,
			summary = COALESCE($3, summary),
			updated_at = now()
		WHERE id = $1`,
		update.EntryID, update.Title, update.Summary,
	); err != nil {
		return fmt.Errorf("failed to update derived entry fields: %w", err)
	}

	for _, name := range update.Tags {
		if err := connectTag(ctx, tx, update.UserID, update.EntryID, name); err != nil {
			return err
		}
	}
	for _, name := range update.Categories {
		if err := connectCategory(ctx, tx, update.UserID, update.EntryID, name); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit derived update: %w", err)
	}
	return nil
}

// connectTag creates the tag by name if missing and links it to the entry.
func connectTag(ctx context.Context, tx pgx.Tx, userID, entryID uuid.UUID, name string) error {
	var tagID uuid.UUID
	if err := tx.QueryRow(ctx, `
		INSERT INTO tags (id, user_id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`,
		uuid.New(), userID, name,
	).Scan(&tagID); err != nil {
		return fmt.Errorf("failed to upsert tag %q: %w", name, err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO entry_tags (entry_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`,
		entryID, tagID,
	); err != nil {
		return fmt.Errorf("failed to connect tag %q: %w", name, err)
	}
	return nil
}

func connectCategory(ctx context.Context, tx pgx.Tx, userID, entryID uuid.UUID, name string) error {
	var categoryID uuid.UUID
	if err := tx.QueryRow(ctx, `
		INSERT INTO categories (id, user_id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`,
		uuid.New(), userID, name,
	).Scan(&categoryID); err != nil {
		return fmt.Errorf("failed to upsert category %q: %w", name, err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO entry_categories (entry_id, category_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`,
		entryID, categoryID,
	); err != nil {
		return fmt.Errorf("failed to connect category %q: %w", name, err)
	}
	return nil
}
