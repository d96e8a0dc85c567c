package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/seongminoh/otpauth/internal/account/entity"
)

const userLoginInfoQuery = `
SELECT u.id, u.email, u.username, u.nickname, u.phone_number, c.password
FROM users u
JOIN user_credentials c ON c.user_id = u.id
`

func (s *DB) GetUserLoginInfo(ctx context.Context, lt entity.LoginType, identifier string) (_ *entity.UserLoginInfo, err error) {
	ctx, span := s.startSpan(ctx, "GetUserLoginInfo")
	defer func() { s.endSpan(span, err) }()

	query := userLoginInfoQuery
	switch lt {
	case entity.LoginTypePhoneNumber:
		query += "WHERE u.phone_number = $1"
	case entity.LoginTypeUsername:
		query += "WHERE u.username = $1"
	case entity.LoginTypeNickname:
		query += "WHERE u.nickname = $1"
	default:
		query += "WHERE u.email = $1"
	}

	var info entity.UserLoginInfo
	err = s.conn.QueryRow(ctx, query, identifier).Scan(
		&info.ID, &info.Email, &info.Username, &info.Nickname, &info.PhoneNumber, &info.Password,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &info, nil
}

func (s *DB) GetUserByPhoneNumber(ctx context.Context, number string) (_ *entity.UserLoginInfo, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByPhoneNumber")
	defer func() { s.endSpan(span, err) }()

	var info entity.UserLoginInfo
	err = s.conn.QueryRow(ctx, userLoginInfoQuery+"WHERE u.phone_number = $1", number).Scan(
		&info.ID, &info.Email, &info.Username, &info.Nickname, &info.PhoneNumber, &info.Password,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &info, nil
}

func (s *DB) GetUserByID(ctx context.Context, id int64) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByID")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT id, email, username, nickname, phone_number, last_login_at, last_login_type, created_at
		FROM users
		WHERE id = $1`

	var (
		user        entity.User
		lastLoginAt pgtype.Timestamptz
		lastType    pgtype.Int2
	)
	err = s.conn.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.Username, &user.Nickname, &user.PhoneNumber,
		&lastLoginAt, &lastType, &user.CreatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	if lastLoginAt.Valid {
		user.LastLoginAt = &lastLoginAt.Time
	}
	if lastType.Valid {
		user.LastLoginType = entity.LoginType(lastType.Int16)
	}

	return &user, nil
}

const otpColumns = "id, number, purpose, secret_key, registered_code, authenticated, consumed, created_at"

func (s *DB) scanOtp(row interface{ Scan(dest ...any) error }) (*entity.OtpRecord, error) {
	var rec entity.OtpRecord
	err := row.Scan(
		&rec.ID, &rec.Number, &rec.Purpose, &rec.SecretKey,
		&rec.RegisteredCode, &rec.Authenticated, &rec.Consumed, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *DB) GetLatestOtp(ctx context.Context, number string) (_ *entity.OtpRecord, err error) {
	ctx, span := s.startSpan(ctx, "GetLatestOtp")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT ` + otpColumns + `
		FROM auth_otps
		WHERE number = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	rec, err := s.scanOtp(s.conn.QueryRow(ctx, query, number))
	if err != nil {
		return nil, s.mapError(err)
	}

	return rec, nil
}

func (s *DB) GetLatestPendingOtp(ctx context.Context, number string, purpose entity.OtpPurpose) (_ *entity.OtpRecord, err error) {
	ctx, span := s.startSpan(ctx, "GetLatestPendingOtp")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT ` + otpColumns + `
		FROM auth_otps
		WHERE number = $1 AND purpose = $2 AND NOT authenticated AND NOT consumed
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	rec, err := s.scanOtp(s.conn.QueryRow(ctx, query, number, purpose))
	if err != nil {
		return nil, s.mapError(err)
	}

	return rec, nil
}

func (s *DB) GetLatestVerifiedOtp(ctx context.Context, number string, purpose entity.OtpPurpose) (_ *entity.OtpRecord, err error) {
	ctx, span := s.startSpan(ctx, "GetLatestVerifiedOtp")
	defer func() { s.endSpan(span, err) }()

	query := `
		SELECT ` + otpColumns + `
		FROM auth_otps
		WHERE number = $1 AND purpose = $2 AND authenticated AND NOT consumed
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	rec, err := s.scanOtp(s.conn.QueryRow(ctx, query, number, purpose))
	if err != nil {
		return nil, s.mapError(err)
	}

	return rec, nil
}
