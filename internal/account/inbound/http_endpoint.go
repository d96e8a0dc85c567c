package inbound

import (
	"github.com/seongminoh/otpauth/internal/account/entity"
	"github.com/seongminoh/otpauth/internal/account/usecase"
	"github.com/seongminoh/otpauth/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for phone verification and account
// workflows.
type HTTPEndpoint struct {
	uc uc
}

// SendCode issues the current one-time code for a phone number.
func (h *HTTPEndpoint) SendCode(r *router.Request) (any, error) {
	var req SendCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.SendCode(r.Context(), usecase.SendCodeInput{
		Number:  req.Number,
		Purpose: entity.ParseOtpPurpose(req.Purpose),
	})
	if err != nil {
		return nil, err
	}

	return SendCodeResponse{
		Number:    resp.Number,
		OtpCode:   resp.Code,
		ExpiredAt: resp.ExpiredAt.Format(timeLayout),
	}, nil
}

// VerifyCode checks a submitted code and claims its verification record.
func (h *HTTPEndpoint) VerifyCode(r *router.Request) (any, error) {
	var req VerifyCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyCode(r.Context(), usecase.VerifyCodeInput{
		Number:  req.Number,
		Code:    req.OtpCode,
		Purpose: entity.ParseOtpPurpose(req.Purpose),
	})
	if err != nil {
		return nil, err
	}

	return VerifyCodeResponse{
		Number:     resp.Number,
		VerifiedAt: resp.VerifiedAt.Format(timeLayout),
	}, nil
}

// Signup creates an account from a verified phone number.
func (h *HTTPEndpoint) Signup(r *router.Request) (any, error) {
	var req SignupRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Signup(r.Context(), usecase.SignupInput{
		Email:       req.Email,
		Password:    req.Password,
		Username:    req.Username,
		Nickname:    req.Nickname,
		PhoneNumber: req.PhoneNumber,
		OtpCode:     req.OtpRegisterCode,
	})
	if err != nil {
		return nil, err
	}

	return SignupResponse{
		ID:          resp.ID,
		Email:       resp.Email,
		Username:    resp.Username,
		Nickname:    resp.Nickname,
		PhoneNumber: resp.PhoneNumber,
	}, nil
}

// Login authenticates a user and returns tokens.
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
		LoginType:  entity.ParseLoginType(req.LoginType),
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{
		User:         newUserResponse(resp.User),
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// UserDetail returns the authenticated user's own account.
func (h *HTTPEndpoint) UserDetail(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.UserDetail(r.Context(), usecase.UserDetailInput{UserID: id})
	if err != nil {
		return nil, err
	}

	return newUserResponse(resp), nil
}

// UserUpdate patches the authenticated user's own profile.
func (h *HTTPEndpoint) UserUpdate(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req UserUpdateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.UserUpdate(r.Context(), usecase.UserUpdateInput{
		UserID:   id,
		Username: req.Username,
		Nickname: req.Nickname,
	})
	if err != nil {
		return nil, err
	}

	return newUserResponse(resp), nil
}

// PasswordRequestCode issues a password-reset code for a phone number.
func (h *HTTPEndpoint) PasswordRequestCode(r *router.Request) (any, error) {
	var req PasswordCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.SendCode(r.Context(), usecase.SendCodeInput{
		Number:  req.Number,
		Purpose: entity.OtpPurposePasswordReset,
	})
	if err != nil {
		return nil, err
	}

	return SendCodeResponse{
		Number:    resp.Number,
		OtpCode:   resp.Code,
		ExpiredAt: resp.ExpiredAt.Format(timeLayout),
	}, nil
}

// PasswordVerifyCode verifies a password-reset code.
func (h *HTTPEndpoint) PasswordVerifyCode(r *router.Request) (any, error) {
	var req PasswordVerifyCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyCode(r.Context(), usecase.VerifyCodeInput{
		Number:  req.Number,
		Code:    req.OtpCode,
		Purpose: entity.OtpPurposePasswordReset,
	})
	if err != nil {
		return nil, err
	}

	return VerifyCodeResponse{
		Number:     resp.Number,
		VerifiedAt: resp.VerifiedAt.Format(timeLayout),
	}, nil
}

// PasswordReset sets a new password gated by a verified reset code.
func (h *HTTPEndpoint) PasswordReset(r *router.Request) (any, error) {
	var req PasswordResetRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.PasswordReset(r.Context(), usecase.PasswordResetInput{
		Number:      req.Number,
		OtpCode:     req.OtpCode,
		NewPassword: req.NewPassword,
	}); err != nil {
		return nil, err
	}

	return PasswordResetResponse{Detail: "password_changed"}, nil
}
