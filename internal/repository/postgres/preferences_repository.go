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

// pgxPreferencesRepository implements interfaces.PreferencesStore using pgx.
type pgxPreferencesRepository struct {
	db *pgxpool.Pool
}

func NewPreferencesRepository(db *pgxpool.Pool) interfaces.PreferencesStore {
	return &pgxPreferencesRepository{db: db}
}

func (r *pgxPreferencesRepository) Get(ctx context.Context, userID uuid.UUID) (*models.UserPreferences, error) {
	query := `
		SELECT user_id, two_factor_enabled, auto_tag, auto_categorize, summarize
		FROM user_preferences
		WHERE user_id = $1`

	prefs := &models.UserPreferences{}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&prefs.UserID, &prefs.TwoFactorEnabled, &prefs.AutoTag,
		&prefs.AutoCategorize, &prefs.Summarize,
	)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user preferences: %w", err)
	}
	return prefs, nil
}
