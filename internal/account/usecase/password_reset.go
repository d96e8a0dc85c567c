package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/seongminoh/otpauth/internal/account/entity"
	"github.com/seongminoh/otpauth/internal/pkg/goerror"
)

type PasswordResetInput struct {
	Number      string `validate:"required,phonenumber"`
	OtpCode     string `validate:"required,len=6,numeric"`
	NewPassword string `validate:"required,password"`
}

// PasswordReset replaces the password for the account owning the phone
// number. It requires an authenticated, unconsumed password-reset record
// whose registered code matches the claim, the same gate signup applies to
// its own purpose. The record is consumed and all refresh tokens revoked in
// one transaction.
func (s *Usecase) PasswordReset(ctx context.Context, in PasswordResetInput) error {
	ctx, span := s.startSpan(ctx, "PasswordReset")
	defer span.End()

	in.Number = strings.TrimSpace(in.Number)
	in.OtpCode = strings.TrimSpace(in.OtpCode)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	rec, err := s.repoDB.GetLatestVerifiedOtp(ctx, in.Number, entity.OtpPurposePasswordReset)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "password reset without verified otp", "number", in.Number)
		return goerror.NewBusiness("invalid_number_or_code", goerror.CodeInvalidInput)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get verified otp", "number", in.Number, "error", err)
		return goerror.NewServer(err)
	}

	if rec.RegisteredCode != in.OtpCode {
		slog.WarnContext(ctx, "reset code does not match registered code", "otp_id", rec.ID)
		return goerror.NewBusiness("invalid_auth_otp_data", goerror.CodeInvalidInput)
	}

	info, err := s.repoDB.GetUserByPhoneNumber(ctx, in.Number)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "no account for phone number", "number", in.Number)
		return goerror.NewBusiness("no_exist_user", goerror.CodeInvalidInput)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by phone number", "number", in.Number, "error", err)
		return goerror.NewServer(err)
	}

	if s.bcrypt.Verify(info.Password, in.NewPassword) {
		slog.WarnContext(ctx, "new password equals current password", "user_id", info.ID)
		return goerror.NewBusiness("previous_password", goerror.CodeInvalidInput)
	}

	newHash, err := s.bcrypt.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return goerror.NewServer(err)
	}

	err = s.repoDB.ResetPasswordWithOtp(ctx, info.ID, rec.ID, string(newHash))
	if errors.Is(err, goerror.ErrNotFound) {
		// Record consumed by a concurrent reset.
		slog.WarnContext(ctx, "otp record already consumed", "otp_id", rec.ID)
		return goerror.NewBusiness("invalid_number_or_code", goerror.CodeInvalidInput)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo reset password", "user_id", info.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
