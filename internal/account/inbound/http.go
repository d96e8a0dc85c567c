package inbound

import (
	"context"

	"github.com/seongminoh/otpauth/internal/account/entity"
	"github.com/seongminoh/otpauth/internal/account/usecase"
	"github.com/seongminoh/otpauth/internal/pkg/router"
)

type uc interface {
	SendCode(ctx context.Context, in usecase.SendCodeInput) (*usecase.SendCodeOutput, error)
	VerifyCode(ctx context.Context, in usecase.VerifyCodeInput) (*usecase.VerifyCodeOutput, error)

	Signup(ctx context.Context, in usecase.SignupInput) (*usecase.SignupOutput, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)

	UserDetail(ctx context.Context, in usecase.UserDetailInput) (*entity.User, error)
	UserUpdate(ctx context.Context, in usecase.UserUpdateInput) (*entity.User, error)

	PasswordReset(ctx context.Context, in usecase.PasswordResetInput) error
}

// ThrottleFactory builds a rate-limit middleware for a named scope.
type ThrottleFactory func(scope string) router.Middleware

func RegisterHTTPEndpoint(r *router.Router, uc uc, throttle ThrottleFactory) {
	end := &HTTPEndpoint{uc: uc}

	// Phone Verification
	r.POST("/api/v1/auth/send-code", end.SendCode, throttle("send_code"))
	r.POST("/api/v1/auth/verify-code", end.VerifyCode, throttle("verify_code"))
	r.PUT("/api/v1/auth/verify-code", end.VerifyCode, throttle("verify_code"))

	// Account
	r.POST("/api/v1/users/signup", end.Signup, throttle("signup"))
	r.POST("/api/v1/users/login", end.Login, throttle("login"))
	r.GET("/api/v1/users/:id", end.UserDetail)  // need authenticated
	r.PUT("/api/v1/users/:id", end.UserUpdate)  // need authenticated

	// Password Reset
	r.POST("/api/v1/passwd/request-code", end.PasswordRequestCode, throttle("request_code"))
	r.POST("/api/v1/passwd/verify-code", end.PasswordVerifyCode, throttle("verify_code"))
	r.PUT("/api/v1/passwd/verify-code", end.PasswordVerifyCode, throttle("verify_code"))
	r.POST("/api/v1/passwd/reset", end.PasswordReset, throttle("reset"))
}
