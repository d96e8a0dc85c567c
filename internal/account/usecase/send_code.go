package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/seongminoh/otpauth/internal/account/entity"
	"github.com/seongminoh/otpauth/internal/pkg/goerror"
)

type SendCodeInput struct {
	Number  string `validate:"required,phonenumber"`
	Purpose entity.OtpPurpose
}

type SendCodeOutput struct {
	Number    string
	Code      string
	ExpiredAt time.Time
}

// SendCode issues the current one-time code for a phone number. While an
// unauthenticated record is pending for the number and purpose, re-sending
// reuses its secret, so a code already delivered stays valid until the
// interval elapses.
func (s *Usecase) SendCode(ctx context.Context, in SendCodeInput) (*SendCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "SendCode")
	defer span.End()

	in.Number = strings.TrimSpace(in.Number)

	if err := s.validator.Validate(in); err != nil {
		slog.WarnContext(ctx, "phone number is malformed", "number", in.Number)
		return nil, goerror.NewBusiness("invalid_number", goerror.CodeInvalidInput,
			"number_format", "010-0000-0000")
	}

	if in.Purpose == entity.OtpPurposeUnknown {
		slog.WarnContext(ctx, "otp purpose is unrecognized", "number", in.Number)
		return nil, goerror.NewBusiness("invalid_auth_type", goerror.CodeInvalidInput)
	}

	scope := s.otpScope(in.Number, in.Purpose)

	var (
		secret    string
		createdAt time.Time
	)

	rec, err := s.repoDB.GetLatestPendingOtp(ctx, in.Number, in.Purpose)
	switch {
	case err == nil:
		plain, err := s.encryptor.Decrypt(rec.SecretKey, scope)
		if err != nil {
			slog.ErrorContext(ctx, "failed to decrypt otp secret", "otp_id", rec.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
		secret = string(plain)
		createdAt = rec.CreatedAt

	case errors.Is(err, goerror.ErrNotFound):
		newSecret, _, err := s.totp.Generate(in.Number)
		if err != nil {
			slog.ErrorContext(ctx, "failed to generate otp secret", "number", in.Number, "error", err)
			return nil, goerror.NewServer(err)
		}

		sealed, err := s.encryptor.Encrypt([]byte(newSecret), scope)
		if err != nil {
			slog.ErrorContext(ctx, "failed to encrypt otp secret", "number", in.Number, "error", err)
			return nil, goerror.NewServer(err)
		}

		if err := s.repoDB.CreateOtp(ctx, entity.NewOtpRecord{
			ID:        s.uid.Generate(),
			Number:    in.Number,
			Purpose:   in.Purpose,
			SecretKey: sealed,
		}); err != nil {
			slog.ErrorContext(ctx, "failed to repo create otp", "number", in.Number, "error", err)
			return nil, goerror.NewServer(err)
		}

		secret = newSecret
		createdAt = s.clock.Now()

	default:
		slog.ErrorContext(ctx, "failed to repo get pending otp", "number", in.Number, "error", err)
		return nil, goerror.NewServer(err)
	}

	code, err := s.totp.GenerateCode(secret, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "number", in.Number, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &SendCodeOutput{
		Number:    in.Number,
		Code:      code,
		ExpiredAt: createdAt.Add(s.totp.Period()),
	}, nil
}
