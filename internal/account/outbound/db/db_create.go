package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/seongminoh/otpauth/internal/account/entity"
)

func (s *DB) CreateOtp(ctx context.Context, rec entity.NewOtpRecord) (err error) {
	ctx, span := s.startSpan(ctx, "CreateOtp")
	defer func() { s.endSpan(span, err) }()

	query := `
		INSERT INTO auth_otps (id, number, purpose, secret_key)
		VALUES ($1, $2, $3, $4)`

	_, err = s.conn.Exec(ctx, query, rec.ID, rec.Number, rec.Purpose, rec.SecretKey)
	return s.mapError(err)
}

func (s *DB) CreateRefreshToken(ctx context.Context, ref entity.NewRefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "CreateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	query := `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at)
		VALUES ($1, $2, $3, $4)`

	_, err = s.conn.Exec(ctx, query, ref.ID, ref.UserID, ref.Token,
		pgtype.Timestamptz{Valid: true, Time: ref.ExpiresAt})
	return s.mapError(err)
}
