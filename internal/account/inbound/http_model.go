package inbound

import (
	"net/http"

	"github.com/seongminoh/otpauth/internal/account/entity"
)

const timeLayout = "2006-01-02 15:04:05"

type SendCodeRequest struct {
	Number  string `json:"number"`
	Purpose string `json:"purpose"`
}

type SendCodeResponse struct {
	Number    string `json:"number"`
	OtpCode   string `json:"otp_code"`
	ExpiredAt string `json:"expired_at"`
}

func (SendCodeResponse) StatusCode() int {
	return http.StatusCreated
}

type VerifyCodeRequest struct {
	Number  string `json:"number"`
	OtpCode string `json:"otp_code"`
	Purpose string `json:"purpose"`
}

type VerifyCodeResponse struct {
	Number     string `json:"number"`
	VerifiedAt string `json:"verified_at"`
}

type SignupRequest struct {
	PhoneNumber     string `json:"phone_number"`
	OtpRegisterCode string `json:"otp_register_code"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	Nickname        string `json:"nickname"`
	Password        string `json:"password"`
}

type SignupResponse struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	Nickname    string `json:"nickname"`
	PhoneNumber string `json:"phone_number"`
}

func (SignupResponse) StatusCode() int {
	return http.StatusCreated
}

type LoginRequest struct {
	LoginType  string `json:"login_type"`
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

func (LoginResponse) StatusCode() int {
	return http.StatusCreated
}

type UserUpdateRequest struct {
	Username string `json:"username"`
	Nickname string `json:"nickname"`
}

type PasswordCodeRequest struct {
	Number string `json:"number"`
}

type PasswordVerifyCodeRequest struct {
	Number  string `json:"number"`
	OtpCode string `json:"otp_code"`
}

type PasswordResetRequest struct {
	Number      string `json:"number"`
	OtpCode     string `json:"otp_code"`
	NewPassword string `json:"new_password"`
}

type PasswordResetResponse struct {
	Detail string `json:"detail"`
}

type UserResponse struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	Nickname      string `json:"nickname"`
	PhoneNumber   string `json:"phone_number"`
	LastLoginAt   string `json:"last_login_at,omitempty"`
	LastLoginType string `json:"last_login_type,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
}

func newUserResponse(user *entity.User) UserResponse {
	resp := UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Username:    user.Username,
		Nickname:    user.Nickname,
		PhoneNumber: user.PhoneNumber,
	}

	if user.LastLoginAt != nil {
		resp.LastLoginAt = user.LastLoginAt.Format(timeLayout)
		resp.LastLoginType = user.LastLoginType.String()
	}
	if !user.CreatedAt.IsZero() {
		resp.CreatedAt = user.CreatedAt.Format(timeLayout)
	}

	return resp
}
