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

type VerifyCodeInput struct {
	Number  string `validate:"required,phonenumber"`
	Code    string `validate:"required,len=6,numeric"`
	Purpose entity.OtpPurpose
}

type VerifyCodeOutput struct {
	Number     string
	VerifiedAt time.Time
}

// VerifyCode checks a submitted code against the number's latest verification
// record and claims the record on success. A record can be claimed once;
// replays and races lose with the same invalid_code the caller cannot
// distinguish from a wrong code.
func (s *Usecase) VerifyCode(ctx context.Context, in VerifyCodeInput) (*VerifyCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyCode")
	defer span.End()

	in.Number = strings.TrimSpace(in.Number)
	in.Code = strings.TrimSpace(in.Code)

	if err := s.validator.Validate(in); err != nil {
		slog.WarnContext(ctx, "phone number or code is malformed", "number", in.Number)
		return nil, goerror.NewBusiness("invalid_number", goerror.CodeInvalidInput,
			"number_format", "010-0000-0000")
	}

	if in.Purpose == entity.OtpPurposeUnknown {
		slog.WarnContext(ctx, "otp purpose is unrecognized", "number", in.Number)
		return nil, goerror.NewBusiness("invalid_auth_type", goerror.CodeInvalidInput)
	}

	rec, err := s.repoDB.GetLatestOtp(ctx, in.Number)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "no otp record for number", "number", in.Number)
		return nil, goerror.NewBusiness("invalid_number", goerror.CodeInvalidInput)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get latest otp", "number", in.Number, "error", err)
		return nil, goerror.NewServer(err)
	}

	if rec.Purpose != in.Purpose {
		slog.WarnContext(ctx, "otp purpose does not match", "number", in.Number,
			"want", in.Purpose.String(), "have", rec.Purpose.String())
		return nil, goerror.NewBusiness("invalid_auth_type", goerror.CodeInvalidInput)
	}

	if rec.Authenticated {
		slog.WarnContext(ctx, "otp record already authenticated", "otp_id", rec.ID)
		return nil, goerror.NewBusiness("invalid_code", goerror.CodeInvalidInput)
	}

	plain, err := s.encryptor.Decrypt(rec.SecretKey, s.otpScope(in.Number, in.Purpose))
	if err != nil {
		slog.ErrorContext(ctx, "failed to decrypt otp secret", "otp_id", rec.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.totp.Validate(in.Code, string(plain), s.clock.Now()) {
		slog.WarnContext(ctx, "otp code rejected", "otp_id", rec.ID)
		return nil, goerror.NewBusiness("invalid_code", goerror.CodeInvalidInput)
	}

	err = s.repoDB.MarkOtpVerified(ctx, rec.ID, in.Code)
	if errors.Is(err, entity.ErrOtpAlreadyAuthenticated) {
		slog.WarnContext(ctx, "otp record claimed by concurrent verify", "otp_id", rec.ID)
		return nil, goerror.NewBusiness("invalid_code", goerror.CodeInvalidInput)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark otp verified", "otp_id", rec.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &VerifyCodeOutput{
		Number:     in.Number,
		VerifiedAt: s.clock.Now(),
	}, nil
}
