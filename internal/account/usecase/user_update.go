package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/seongminoh/otpauth/internal/account/entity"
	"github.com/seongminoh/otpauth/internal/pkg/goerror"
)

type UserUpdateInput struct {
	UserID   int64  `validate:"required,gt=0"`
	Username string `validate:"omitempty,min=3,max=30"`
	Nickname string `validate:"omitempty,min=2,max=30"`
}

func (s *Usecase) UserUpdate(ctx context.Context, in UserUpdateInput) (*entity.User, error) {
	ctx, span := s.startSpan(ctx, "UserUpdate")
	defer span.End()

	in.Username = strings.TrimSpace(in.Username)
	in.Nickname = strings.TrimSpace(in.Nickname)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if err := s.ensureOwner(ctx, in.UserID); err != nil {
		return nil, err
	}

	if err := s.repoDB.UpdateUserProfile(ctx, entity.PatchUser{
		ID:       in.UserID,
		Username: in.Username,
		Nickname: in.Nickname,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo update user profile", "user_id", in.UserID, "error", err)
		return nil, goerror.NewServer(err)
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
