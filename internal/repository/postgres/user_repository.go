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

const userColumns = `
	id, email_address, role, status, is_locked_out, access_failed_count,
	otp_resend_count, otp_sent, last_otp_resend_date, last_login_date,
	last_password_changed_date, created_at, updated_at`

// pgxUserRepository implements interfaces.UserStore using pgx.
type pgxUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) interfaces.UserStore {
	return &pgxUserRepository{db: db}
}

func (r *pgxUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE email_address = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *pgxUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *pgxUserRepository) scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.EmailAddress, &user.Role, &user.Status, &user.IsLockedOut,
		&user.AccessFailedCount, &user.OTPResendCount, &user.OTPSent,
		&user.LastOTPResendDate, &user.LastLoginDate,
		&user.LastPasswordChangedDate, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (r *pgxUserRepository) RecordFailedLogin(ctx context.Context, id uuid.UUID, lockOut bool) error {
	query := `
		UPDATE users SET
			access_failed_count = access_failed_count + 1,
			is_locked_out = is_locked_out OR $2,
			updated_at = now()
		WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, lockOut); err != nil {
		return fmt.Errorf("failed to record failed login: %w", err)
	}
	return nil
}

func (r *pgxUserRepository) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE users SET
			last_login_date = $2,
			access_failed_count = 0,
			updated_at = now()
		WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, at); err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

func (r *pgxUserRepository) RecordOTPSend(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE users SET
			otp_resend_count = otp_resend_count + 1,
			otp_sent = TRUE,
			last_otp_resend_date = $2,
			updated_at = now()
		WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, at); err != nil {
		return fmt.Errorf("failed to record otp send: %w", err)
	}
	return nil
}

func (r *pgxUserRepository) ReactivateAccount(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE users SET
			status = TRUE,
			is_locked_out = FALSE,
			access_failed_count = 0,
			last_password_changed_date = $2,
			updated_at = now()
		WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, at); err != nil {
		return fmt.Errorf("failed to reactivate account: %w", err)
	}
	return nil
}
