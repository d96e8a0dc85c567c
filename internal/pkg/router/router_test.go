package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/seongminoh/otpauth/internal/pkg/goerror"
	"github.com/seongminoh/otpauth/internal/pkg/instrument"
	"github.com/seongminoh/otpauth/internal/pkg/jwt"
	"github.com/seongminoh/otpauth/internal/pkg/ratelimit"
	"github.com/seongminoh/otpauth/internal/pkg/validator"
)

type stubJWT struct {
	claims jwt.Claims
	err    error
}

func (s stubJWT) Generate(int64, string) (string, error) { return "", nil }
func (s stubJWT) Verify(string) (jwt.Claims, error)      { return s.claims, s.err }

type stubLimiter struct {
	res ratelimit.Result
	err error
}

func (s stubLimiter) Allow(context.Context, string, int, time.Duration) (ratelimit.Result, error) {
	return s.res, s.err
}

// countingLimiter mimics the fixed-window counter: each call increments the
// key and the request passes while the count stays at or under the limit.
type countingLimiter struct {
	counts map[string]int
}

func (c *countingLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (ratelimit.Result, error) {
	c.counts[key]++
	if c.counts[key] > limit {
		return ratelimit.Result{Wait: int(window.Seconds())}, nil
	}
	return ratelimit.Result{Allowed: true}, nil
}

func newTestRouter(t *testing.T, verifier jwt.JWT) *Router {
	t.Helper()

	return NewRouter(Config{
		JWT:        verifier,
		Instrument: instrument.NewNoop(),
	})
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	return body
}

func TestRouter_SuccessEnvelope(t *testing.T) {
	ro := newTestRouter(t, stubJWT{})
	ro.POST("/api/v1/users/login", func(r *Request) (any, error) {
		return map[string]string{"access_token": "abc"}, nil
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["status"] != "success" {
		t.Errorf("status field = %v, want success", body["status"])
	}
	data, ok := body["data"].(map[string]any)
	if !ok || data["access_token"] != "abc" {
		t.Errorf("data = %v, want access_token abc", body["data"])
	}
}

func TestRouter_FailEnvelopeBusinessError(t *testing.T) {
	ro := newTestRouter(t, stubJWT{})
	ro.POST("/api/v1/users/login", func(r *Request) (any, error) {
		return nil, goerror.NewBusiness("wrong_password", goerror.CodeUnauthorized)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["status"] != "fail" {
		t.Errorf("status field = %v, want fail", body["status"])
	}
	failCase, ok := body["fail_case"].(map[string]any)
	if !ok || failCase["detail"] != "wrong_password" {
		t.Errorf("fail_case = %v, want detail wrong_password", body["fail_case"])
	}
}

func TestRouter_FailEnvelopeValidationError(t *testing.T) {
	ro := newTestRouter(t, stubJWT{})
	ro.POST("/api/v1/auth/send-code", func(r *Request) (any, error) {
		verr := validator.V10ValidationError{"number": "number must match 010-0000-0000"}
		return nil, goerror.NewInvalidInput(verr)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/send-code", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	body := decodeBody(t, rec)
	failCase, ok := body["fail_case"].(map[string]any)
	if !ok {
		t.Fatalf("fail_case missing: %v", body)
	}
	if failCase["number"] != "number must match 010-0000-0000" {
		t.Errorf("fail_case = %v, want field message for number", failCase)
	}
}

func TestRouter_ErrorEnvelopeServerError(t *testing.T) {
	ro := newTestRouter(t, stubJWT{})
	ro.POST("/api/v1/users/login", func(r *Request) (any, error) {
		return nil, goerror.NewServer(errors.New("db down"))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["status"] != "error" {
		t.Errorf("status field = %v, want error", body["status"])
	}
	if body["message"] != "internal server error" {
		t.Errorf("message = %v, want internal server error", body["message"])
	}
	if _, leaked := body["fail_case"]; leaked {
		t.Error("error envelope must not carry fail_case")
	}
}

func TestRouter_AuthenticationRequired(t *testing.T) {
	ro := newTestRouter(t, stubJWT{err: errors.New("bad token")})
	ro.GET("/api/v1/users/me", func(r *Request) (any, error) {
		return map[string]string{"email": "a@b.c"}, nil
	})

	t.Run("MissingHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		rec := httptest.NewRecorder()
		ro.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		body := decodeBody(t, rec)
		failCase, _ := body["fail_case"].(map[string]any)
		if failCase["detail"] != "not_authenticated" {
			t.Errorf("fail_case = %v, want detail not_authenticated", body["fail_case"])
		}
	})

	t.Run("InvalidToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		ro.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}

func TestThrottle(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Allowed", func(t *testing.T) {
		mw := Throttle(stubLimiter{res: ratelimit.Result{Allowed: true}}, "send_code", 5, time.Minute)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/send-code", nil)
		rec := httptest.NewRecorder()
		mw(handler).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("Rejected", func(t *testing.T) {
		mw := Throttle(stubLimiter{res: ratelimit.Result{Wait: 42}}, "send_code", 5, time.Minute)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/send-code", nil)
		rec := httptest.NewRecorder()
		mw(handler).ServeHTTP(rec, req)

		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("status = %d, want 429", rec.Code)
		}

		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("response is not valid JSON: %v", err)
		}
		failCase, _ := body["fail_case"].(map[string]any)
		if failCase["detail"] != "throttled" {
			t.Errorf("fail_case detail = %v, want throttled", failCase["detail"])
		}
		if failCase["wait"] != float64(42) {
			t.Errorf("fail_case wait = %v, want 42", failCase["wait"])
		}
	})

	t.Run("LimitThenThrottle", func(t *testing.T) {
		// Arrange: 3 allowed per window, all from the same client address.
		limiter := &countingLimiter{counts: make(map[string]int)}
		mw := Throttle(limiter, "send_code", 3, 5*time.Minute)

		send := func() *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/send-code", nil)
			req.RemoteAddr = "10.0.0.9:1234"
			rec := httptest.NewRecorder()
			mw(handler).ServeHTTP(rec, req)
			return rec
		}

		// Act + Assert: the first 3 requests pass, the 4th is throttled.
		for i := 1; i <= 3; i++ {
			if rec := send(); rec.Code != http.StatusOK {
				t.Fatalf("request %d status = %d, want 200", i, rec.Code)
			}
		}

		rec := send()
		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("request 4 status = %d, want 429", rec.Code)
		}
		body := decodeBody(t, rec)
		failCase, _ := body["fail_case"].(map[string]any)
		if failCase["detail"] != "throttled" {
			t.Errorf("fail_case detail = %v, want throttled", failCase["detail"])
		}
		if failCase["wait"] != float64(300) {
			t.Errorf("fail_case wait = %v, want 300", failCase["wait"])
		}

		// A different scope starts its own window.
		other := Throttle(limiter, "login", 3, 5*time.Minute)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", nil)
		req.RemoteAddr = "10.0.0.9:1234"
		otherRec := httptest.NewRecorder()
		other(handler).ServeHTTP(otherRec, req)
		if otherRec.Code != http.StatusOK {
			t.Fatalf("other scope status = %d, want 200", otherRec.Code)
		}
	})

	t.Run("LimiterError", func(t *testing.T) {
		mw := Throttle(stubLimiter{err: errors.New("redis down")}, "send_code", 5, time.Minute)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/send-code", nil)
		rec := httptest.NewRecorder()
		mw(handler).ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rec.Code)
		}
	})
}

func TestRouter_DecodeBodyRejectsUnknownFields(t *testing.T) {
	ro := newTestRouter(t, stubJWT{})
	ro.POST("/api/v1/users/login", func(r *Request) (any, error) {
		var in struct {
			Email string `json:"email"`
		}
		if err := r.DecodeBody(&in); err != nil {
			return nil, err
		}
		return in, nil
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader(`{"email":"a@b.c","bogus":1}`))
	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
