package postgres

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Wandor/journaling-node/internal/domain/errors"
	"github.com/Wandor/journaling-node/internal/domain/models"
	"github.com/Wandor/journaling-node/internal/repository/interfaces"
)

// pgxPasswordRepository implements interfaces.PasswordStore using pgx.
type pgxPasswordRepository struct {
	db *pgxpool.Pool
}

func NewPasswordRepository(db *pgxpool.Pool) interfaces.PasswordStore {
	return &pgxPasswordRepository{db: db}
}

func (r *pgxPasswordRepository) FindActive(ctx context.Context, userID uuid.UUID) (*models.Password, error) {
	query := `
		SELECT id, user_id, password, password_expiry, is_active, created_at
		FROM passwords
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1`

	pw := &models.Password{}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&pw.ID, &pw.UserID, &pw.Password, &pw.PasswordExpiry, &pw.IsActive, &pw.CreatedAt,
	)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active password: %w", err)
	}
	return pw, nil
}

func (r *pgxPasswordRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE passwords SET is_active = FALSE WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to deactivate password: %w", err)
	}
	return nil
}

func (r *pgxPasswordRepository) Rotate(ctx context.Context, userID uuid.UUID, hash string, expiry time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin password rotation: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE passwords SET is_active = FALSE WHERE user_id = $1 AND is_active = TRUE`,
		userID,
	); err != nil {
		return fmt.Errorf("failed to deactivate previous passwords: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO passwords (id, user_id, password, password_expiry, is_active, created_at)
		 VALUES ($1, $2, $3, $4, TRUE, now())`,
		uuid.New(), userID, hash, expiry,
	); err != nil {
		return fmt.Errorf("failed to insert new password: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit password rotation: %w", err)
	}
	return nil
}

func (r *pgxPasswordRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE passwords SET is_active = FALSE WHERE is_active = TRUE AND password_expiry < $1`
	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate expired passwords: %w", err)
	}
	return tag.RowsAffected(), nil
}
