package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/seongminoh/otpauth/internal/account/entity"
	"github.com/seongminoh/otpauth/internal/account/usecase"
	"github.com/seongminoh/otpauth/internal/pkg/instrument"
	"github.com/seongminoh/otpauth/internal/pkg/jwt"
	"github.com/seongminoh/otpauth/internal/pkg/router"
)

type stubUsecase struct {
	sendCodeIn   usecase.SendCodeInput
	verifyCodeIn usecase.VerifyCodeInput
	resetIn      usecase.PasswordResetInput
}

func (s *stubUsecase) SendCode(_ context.Context, in usecase.SendCodeInput) (*usecase.SendCodeOutput, error) {
	s.sendCodeIn = in
	return &usecase.SendCodeOutput{
		Number:    in.Number,
		Code:      "123456",
		ExpiredAt: time.Date(2025, 6, 1, 9, 5, 0, 0, time.UTC),
	}, nil
}

func (s *stubUsecase) VerifyCode(_ context.Context, in usecase.VerifyCodeInput) (*usecase.VerifyCodeOutput, error) {
	s.verifyCodeIn = in
	return &usecase.VerifyCodeOutput{
		Number:     in.Number,
		VerifiedAt: time.Date(2025, 6, 1, 9, 1, 0, 0, time.UTC),
	}, nil
}

func (s *stubUsecase) Signup(_ context.Context, in usecase.SignupInput) (*usecase.SignupOutput, error) {
	return &usecase.SignupOutput{ID: 7, Email: in.Email}, nil
}

func (s *stubUsecase) Login(_ context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error) {
	return &usecase.LoginOutput{
		User:         &entity.User{ID: 7, Email: in.Identifier},
		AccessToken:  "access",
		RefreshToken: "refresh",
	}, nil
}

func (s *stubUsecase) UserDetail(_ context.Context, in usecase.UserDetailInput) (*entity.User, error) {
	return &entity.User{ID: in.UserID}, nil
}

func (s *stubUsecase) UserUpdate(_ context.Context, in usecase.UserUpdateInput) (*entity.User, error) {
	return &entity.User{ID: in.UserID, Nickname: in.Nickname}, nil
}

func (s *stubUsecase) PasswordReset(_ context.Context, in usecase.PasswordResetInput) error {
	s.resetIn = in
	return nil
}

type allowVerifier struct{}

func (allowVerifier) Generate(int64, string) (string, error) { return "", nil }
func (allowVerifier) Verify(string) (jwt.Claims, error)      { return jwt.Claims{UserID: 7}, nil }

func newTestServer(t *testing.T) (*stubUsecase, *router.Router, map[string]int) {
	t.Helper()

	uc := &stubUsecase{}
	ro := router.NewRouter(router.Config{
		JWT:        allowVerifier{},
		Instrument: instrument.NewNoop(),
	})

	throttled := map[string]int{}
	throttle := func(scope string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				throttled[scope]++
				next.ServeHTTP(w, r)
			})
		}
	}

	RegisterHTTPEndpoint(ro, uc, throttle)
	return uc, ro, throttled
}

func do(t *testing.T, ro *router.Router, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, req)

	var decoded map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	return rec, decoded
}

func TestSendCodeEndpoint(t *testing.T) {
	uc, ro, throttled := newTestServer(t)

	rec, body := do(t, ro, http.MethodPost, "/api/v1/auth/send-code",
		`{"number":"010-1234-5678","purpose":"email"}`, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if body["status"] != "success" {
		t.Fatalf("status field = %v", body["status"])
	}
	data := body["data"].(map[string]any)
	if data["otp_code"] != "123456" {
		t.Fatalf("otp_code = %v", data["otp_code"])
	}
	if data["expired_at"] != "2025-06-01 09:05:00" {
		t.Fatalf("expired_at = %v", data["expired_at"])
	}
	if uc.sendCodeIn.Purpose != entity.OtpPurposeEmailVerify {
		t.Fatalf("purpose = %v", uc.sendCodeIn.Purpose)
	}
	if throttled["send_code"] != 1 {
		t.Fatalf("send_code throttle not applied: %v", throttled)
	}
}

func TestVerifyCodeEndpointAcceptsPut(t *testing.T) {
	uc, ro, _ := newTestServer(t)

	rec, _ := do(t, ro, http.MethodPut, "/api/v1/auth/verify-code",
		`{"number":"010-1234-5678","otp_code":"123456","purpose":"email"}`, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if uc.verifyCodeIn.Code != "123456" {
		t.Fatalf("code = %q", uc.verifyCodeIn.Code)
	}
}

func TestPasswordEndpointsForceResetPurpose(t *testing.T) {
	uc, ro, throttled := newTestServer(t)

	rec, _ := do(t, ro, http.MethodPost, "/api/v1/passwd/request-code",
		`{"number":"010-1234-5678"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("request-code status = %d, want 201", rec.Code)
	}
	if uc.sendCodeIn.Purpose != entity.OtpPurposePasswordReset {
		t.Fatalf("request-code purpose = %v", uc.sendCodeIn.Purpose)
	}

	rec, _ = do(t, ro, http.MethodPost, "/api/v1/passwd/verify-code",
		`{"number":"010-1234-5678","otp_code":"123456"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify-code status = %d, want 200", rec.Code)
	}
	if uc.verifyCodeIn.Purpose != entity.OtpPurposePasswordReset {
		t.Fatalf("verify-code purpose = %v", uc.verifyCodeIn.Purpose)
	}

	rec, body := do(t, ro, http.MethodPost, "/api/v1/passwd/reset",
		`{"number":"010-1234-5678","otp_code":"123456","new_password":"n3w-password"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d, want 200", rec.Code)
	}
	data := body["data"].(map[string]any)
	if data["detail"] != "password_changed" {
		t.Fatalf("detail = %v", data["detail"])
	}
	if uc.resetIn.NewPassword != "n3w-password" {
		t.Fatalf("new password = %q", uc.resetIn.NewPassword)
	}
	if throttled["request_code"] != 1 || throttled["verify_code"] != 1 || throttled["reset"] != 1 {
		t.Fatalf("throttle scopes = %v", throttled)
	}
}

func TestLoginEndpoint(t *testing.T) {
	_, ro, _ := newTestServer(t)

	rec, body := do(t, ro, http.MethodPost, "/api/v1/users/login",
		`{"login_type":"email","identifier":"user@example.com","password":"sup3r-secret"}`, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	data := body["data"].(map[string]any)
	if data["access_token"] != "access" || data["refresh_token"] != "refresh" {
		t.Fatalf("tokens = %v", data)
	}
}

func TestUserEndpointsRequireAuth(t *testing.T) {
	_, ro, _ := newTestServer(t)

	rec, body := do(t, ro, http.MethodGet, "/api/v1/users/7", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	failCase := body["fail_case"].(map[string]any)
	if failCase["detail"] != "not_authenticated" {
		t.Fatalf("detail = %v", failCase["detail"])
	}

	rec, body = do(t, ro, http.MethodGet, "/api/v1/users/7", "",
		map[string]string{"Authorization": "Bearer token"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	data := body["data"].(map[string]any)
	if data["id"] != float64(7) {
		t.Fatalf("id = %v", data["id"])
	}
}
