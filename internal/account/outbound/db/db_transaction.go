package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/seongminoh/otpauth/internal/account/entity"
	"github.com/seongminoh/otpauth/internal/pkg/goerror"
)

const consumeOtpQuery = `
UPDATE auth_otps
SET consumed = TRUE
WHERE id = $1 AND NOT consumed`

// CreateUserWithOtp creates the user and credential and consumes the
// verification record in one transaction, so a record can back at most one
// signup.
func (s *DB) CreateUserWithOtp(ctx context.Context, user entity.NewUser, passwordHash string, otpID int64) (err error) {
	ctx, span := s.startSpan(ctx, "CreateUserWithOtp")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	tag, err := tx.Exec(ctx, consumeOtpQuery, otpID)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	createUser := `
		INSERT INTO users (id, email, username, nickname, phone_number)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.Exec(ctx, createUser, user.ID, user.Email, user.Username, user.Nickname, user.PhoneNumber); err != nil {
		return s.mapError(err)
	}

	createCredential := `
		INSERT INTO user_credentials (user_id, password)
		VALUES ($1, $2)`
	if _, err := tx.Exec(ctx, createCredential, user.ID, passwordHash); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}

// ResetPasswordWithOtp replaces the credential, consumes the verification
// record, and revokes the user's refresh tokens in one transaction.
func (s *DB) ResetPasswordWithOtp(ctx context.Context, userID, otpID int64, newHash string) (err error) {
	ctx, span := s.startSpan(ctx, "ResetPasswordWithOtp")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	tag, err := tx.Exec(ctx, consumeOtpQuery, otpID)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	updateCredential := `
		UPDATE user_credentials
		SET password = $2, updated_at = NOW()
		WHERE user_id = $1`
	if _, err := tx.Exec(ctx, updateCredential, userID, newHash); err != nil {
		return s.mapError(err)
	}

	revokeTokens := `
		UPDATE refresh_tokens
		SET revoked = TRUE
		WHERE user_id = $1 AND NOT revoked`
	if _, err := tx.Exec(ctx, revokeTokens, userID); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
