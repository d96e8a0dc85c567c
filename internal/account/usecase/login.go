package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/seongminoh/otpauth/internal/account/entity"
	"github.com/seongminoh/otpauth/internal/pkg/goerror"
)

type LoginInput struct {
	Identifier string `validate:"required"`
	Password   string `validate:"required"`
	LoginType  entity.LoginType
}

type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// Login authenticates by one of email, phone number, username, or nickname
// and issues an access/refresh token pair. The refresh token is stored
// HMAC-hashed; the plaintext exists only in the response.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Identifier = strings.TrimSpace(in.Identifier)
	if in.LoginType == entity.LoginTypeEmail {
		in.Identifier = strings.ToLower(in.Identifier)
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.LoginType == entity.LoginTypeUnknown {
		slog.WarnContext(ctx, "login type is unrecognized")
		return nil, goerror.NewBusiness("invalid_auth_type", goerror.CodeInvalidInput)
	}

	info, err := s.repoDB.GetUserLoginInfo(ctx, in.LoginType, in.Identifier)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "login_type", in.LoginType.String())
		return nil, goerror.NewBusiness("no_exist_user", goerror.CodeInvalidInput)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user login info", "login_type", in.LoginType.String(), "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.bcrypt.Verify(info.Password, in.Password) {
		slog.WarnContext(ctx, "password user account not match", "user_id", info.ID)
		return nil, goerror.NewBusiness("wrong_password", goerror.CodeInvalidInput)
	}

	acToken, err := s.jwt.Generate(info.ID, info.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access jwt token", "user_id", info.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	refToken := s.oid.Generate()
	refTokenHash, err := s.hmac.Hash(refToken)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash refresh token", "user_id", info.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	if err := s.repoDB.CreateRefreshToken(ctx, entity.NewRefreshToken{
		ID:        s.uid.Generate(),
		UserID:    info.ID,
		Token:     string(refTokenHash),
		ExpiresAt: now.Add(s.cfg.GetDay("modules.account.refresh_token_ttl_days")),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create refresh token user", "user_id", info.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	user := &entity.User{
		ID:          info.ID,
		Email:       info.Email,
		Username:    info.Username,
		Nickname:    info.Nickname,
		PhoneNumber: info.PhoneNumber,
	}

	if s.cfg.GetBool("modules.account.update_last_login") {
		s.goroutine.Go(context.WithoutCancel(ctx), func(gCtx context.Context) error {
			if err := s.repoDB.UpdateUserLastLogin(gCtx, info.ID, now, in.LoginType); err != nil {
				slog.ErrorContext(gCtx, "failed to repo update last login", "user_id", info.ID, "error", err)
			}
			return nil
		})
		user.LastLoginAt = &now
		user.LastLoginType = in.LoginType
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  acToken,
		RefreshToken: refToken,
	}, nil
}
