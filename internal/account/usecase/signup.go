package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/seongminoh/otpauth/internal/account/entity"
	"github.com/seongminoh/otpauth/internal/pkg/goerror"
)

type SignupInput struct {
	Email       string `validate:"required,email"`
	Password    string `validate:"required,password"`
	Username    string `validate:"required,min=3,max=30"`
	Nickname    string `validate:"required,min=2,max=30"`
	PhoneNumber string `validate:"required,phonenumber"`
	OtpCode     string `validate:"required,len=6,numeric"`
}

type SignupOutput struct {
	ID          int64
	Email       string
	Username    string
	Nickname    string
	PhoneNumber string
}

// Signup creates a user account backed by an authenticated verification
// record whose registered code matches the claim. The record is consumed in
// the same transaction, so one authenticated record authorizes exactly one
// account.
func (s *Usecase) Signup(ctx context.Context, in SignupInput) (*SignupOutput, error) {
	ctx, span := s.startSpan(ctx, "Signup")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	in.Nickname = strings.TrimSpace(in.Nickname)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.OtpCode = strings.TrimSpace(in.OtpCode)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	rec, err := s.repoDB.GetLatestVerifiedOtp(ctx, in.PhoneNumber, entity.OtpPurposeEmailVerify)
	if errors.Is(err, goerror.ErrNotFound) {
		_, pendErr := s.repoDB.GetLatestPendingOtp(ctx, in.PhoneNumber, entity.OtpPurposeEmailVerify)
		if pendErr == nil {
			slog.WarnContext(ctx, "signup with unverified otp", "number", in.PhoneNumber)
			return nil, goerror.NewBusiness("unauthenticated_otp", goerror.CodeInvalidInput)
		}
		if !errors.Is(pendErr, goerror.ErrNotFound) {
			slog.ErrorContext(ctx, "failed to repo get pending otp", "number", in.PhoneNumber, "error", pendErr)
			return nil, goerror.NewServer(pendErr)
		}

		slog.WarnContext(ctx, "signup without otp record", "number", in.PhoneNumber)
		return nil, goerror.NewBusiness("invalid_number", goerror.CodeInvalidInput)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get verified otp", "number", in.PhoneNumber, "error", err)
		return nil, goerror.NewServer(err)
	}

	if rec.RegisteredCode != in.OtpCode {
		slog.WarnContext(ctx, "signup code does not match registered code", "otp_id", rec.ID)
		return nil, goerror.NewBusiness("invalid_number", goerror.CodeInvalidInput)
	}

	hashedPassword, err := s.bcrypt.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	user := entity.NewUser{
		ID:          s.uid.Generate(),
		Email:       in.Email,
		Username:    in.Username,
		Nickname:    in.Nickname,
		PhoneNumber: in.PhoneNumber,
	}

	err = s.repoDB.CreateUserWithOtp(ctx, user, string(hashedPassword), rec.ID)
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "signup with already registered identity", "email", in.Email)
		return nil, goerror.NewBusiness("already_exist_user", goerror.CodeConflict)
	}
	if errors.Is(err, goerror.ErrNotFound) {
		// Record consumed by a concurrent signup.
		slog.WarnContext(ctx, "otp record already consumed", "otp_id", rec.ID)
		return nil, goerror.NewBusiness("invalid_number", goerror.CodeInvalidInput)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create user", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &SignupOutput{
		ID:          user.ID,
		Email:       user.Email,
		Username:    user.Username,
		Nickname:    user.Nickname,
		PhoneNumber: user.PhoneNumber,
	}, nil
}
