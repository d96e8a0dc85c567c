package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/seongminoh/otpauth/internal/account/entity"
	"github.com/seongminoh/otpauth/internal/pkg/goerror"
	"github.com/seongminoh/otpauth/internal/pkg/jwt"
)

type UserDetailInput struct {
	UserID int64 `validate:"required,gt=0"`
}

func (s *Usecase) UserDetail(ctx context.Context, in UserDetailInput) (*entity.User, error) {
	ctx, span := s.startSpan(ctx, "UserDetail")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if err := s.ensureOwner(ctx, in.UserID); err != nil {
		return nil, err
	}

	user, err := s.repoDB.GetUserByID(ctx, in.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user account not found", "user_id", in.UserID)
		return nil, goerror.NewBusiness("no_exist_user", goerror.CodeInvalidInput)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by id", "user_id", in.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return user, nil
}

// ensureOwner allows an operation only on the authenticated user's own
// account.
func (s *Usecase) ensureOwner(ctx context.Context, userID int64) error {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return goerror.NewBusiness("not_authenticated", goerror.CodeUnauthorized)
	}

	if clm.UserID != userID {
		slog.WarnContext(ctx, "account access denied", "user_id", clm.UserID, "target_id", userID)
		return goerror.NewBusiness("permission_denied", goerror.CodeForbidden)
	}

	return nil
}
