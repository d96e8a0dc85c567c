package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/seongminoh/otpauth/internal/account/entity"
)

// MarkOtpVerified claims a pending verification record. The guard on
// authenticated makes the claim atomic: when two verifications race, only one
// update affects a row and the loser gets ErrOtpAlreadyAuthenticated.
func (s *DB) MarkOtpVerified(ctx context.Context, id int64, code string) (err error) {
	ctx, span := s.startSpan(ctx, "MarkOtpVerified")
	defer func() { s.endSpan(span, err) }()

	query := `
		UPDATE auth_otps
		SET registered_code = $2, authenticated = TRUE
		WHERE id = $1 AND NOT authenticated`

	tag, err := s.conn.Exec(ctx, query, id, code)
	if err != nil {
		return s.mapError(err)
	}

	if tag.RowsAffected() == 0 {
		return entity.ErrOtpAlreadyAuthenticated
	}

	return nil
}

func (s *DB) UpdateUserProfile(ctx context.Context, user entity.PatchUser) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserProfile")
	defer func() { s.endSpan(span, err) }()

	if user.Username == "" && user.Nickname == "" {
		// nothing to patch
		return nil
	}

	query := `
		UPDATE users
		SET username = COALESCE(NULLIF($2, ''), username),
		    nickname = COALESCE(NULLIF($3, ''), nickname)
		WHERE id = $1`

	_, err = s.conn.Exec(ctx, query, user.ID, user.Username, user.Nickname)
	return s.mapError(err)
}

func (s *DB) UpdateUserLastLogin(ctx context.Context, id int64, at time.Time, lt entity.LoginType) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserLastLogin")
	defer func() { s.endSpan(span, err) }()

	query := `
		UPDATE users
		SET last_login_at = $2, last_login_type = $3
		WHERE id = $1`

	_, err = s.conn.Exec(ctx, query, id, pgtype.Timestamptz{Valid: true, Time: at}, lt)
	return s.mapError(err)
}
