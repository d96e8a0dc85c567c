package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	libOTP "github.com/pquerna/otp"
	"github.com/seongminoh/otpauth/internal/account/entity"
	"github.com/seongminoh/otpauth/internal/pkg/config"
	"github.com/seongminoh/otpauth/internal/pkg/goerror"
	"github.com/seongminoh/otpauth/internal/pkg/goroutine"
	"github.com/seongminoh/otpauth/internal/pkg/hash"
	"github.com/seongminoh/otpauth/internal/pkg/instrument"
	"github.com/seongminoh/otpauth/internal/pkg/jwt"
	"github.com/seongminoh/otpauth/internal/pkg/otp"
	"github.com/seongminoh/otpauth/internal/pkg/secrecy"
	"github.com/seongminoh/otpauth/internal/pkg/uid"
	"github.com/seongminoh/otpauth/internal/pkg/validator"
)

const testOtpPeriod = 300 * time.Second

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type seqID struct {
	mu sync.Mutex
	n  int64
}

func (s *seqID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.n
}

// fakeRepo is an in-memory repoDB with the same not-found, conflict, and
// consume-once semantics as the postgres implementation.
type fakeRepo struct {
	mu        sync.Mutex
	clk       *fakeClock
	otps      []*entity.OtpRecord
	users     map[int64]*entity.User
	creds     map[int64]string
	tokens    []entity.NewRefreshToken
	lastLogin map[int64]entity.LoginType
}

func newFakeRepo(clk *fakeClock) *fakeRepo {
	return &fakeRepo{
		clk:       clk,
		users:     map[int64]*entity.User{},
		creds:     map[int64]string{},
		lastLogin: map[int64]entity.LoginType{},
	}
}

func (f *fakeRepo) latestOtp(match func(*entity.OtpRecord) bool) (*entity.OtpRecord, error) {
	for i := len(f.otps) - 1; i >= 0; i-- {
		if match(f.otps[i]) {
			return f.otps[i], nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeRepo) GetLatestOtp(_ context.Context, number string) (*entity.OtpRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latestOtp(func(r *entity.OtpRecord) bool { return r.Number == number })
}

func (f *fakeRepo) GetLatestPendingOtp(_ context.Context, number string, purpose entity.OtpPurpose) (*entity.OtpRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latestOtp(func(r *entity.OtpRecord) bool {
		return r.Number == number && r.Purpose == purpose && !r.Authenticated && !r.Consumed
	})
}

func (f *fakeRepo) GetLatestVerifiedOtp(_ context.Context, number string, purpose entity.OtpPurpose) (*entity.OtpRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latestOtp(func(r *entity.OtpRecord) bool {
		return r.Number == number && r.Purpose == purpose && r.Authenticated && !r.Consumed
	})
}

func (f *fakeRepo) CreateOtp(_ context.Context, rec entity.NewOtpRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.otps = append(f.otps, &entity.OtpRecord{
		ID:        rec.ID,
		Number:    rec.Number,
		Purpose:   rec.Purpose,
		SecretKey: rec.SecretKey,
		CreatedAt: f.clk.Now(),
	})
	return nil
}

func (f *fakeRepo) MarkOtpVerified(_ context.Context, id int64, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.otps {
		if r.ID != id {
			continue
		}
		if r.Authenticated {
			return entity.ErrOtpAlreadyAuthenticated
		}
		r.Authenticated = true
		r.RegisteredCode = code
		return nil
	}
	return goerror.ErrNotFound
}

func (f *fakeRepo) consumeOtp(id int64) error {
	for _, r := range f.otps {
		if r.ID != id {
			continue
		}
		if r.Consumed {
			return goerror.ErrNotFound
		}
		r.Consumed = true
		return nil
	}
	return goerror.ErrNotFound
}

func (f *fakeRepo) CreateUserWithOtp(_ context.Context, user entity.NewUser, passwordHash string, otpID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email || u.Username == user.Username || u.PhoneNumber == user.PhoneNumber {
			return goerror.ErrConflict
		}
	}
	if err := f.consumeOtp(otpID); err != nil {
		return err
	}
	f.users[user.ID] = &entity.User{
		ID:          user.ID,
		Email:       user.Email,
		Username:    user.Username,
		Nickname:    user.Nickname,
		PhoneNumber: user.PhoneNumber,
		CreatedAt:   f.clk.Now(),
	}
	f.creds[user.ID] = passwordHash
	return nil
}

func (f *fakeRepo) ResetPasswordWithOtp(_ context.Context, userID, otpID int64, newHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.consumeOtp(otpID); err != nil {
		return err
	}
	f.creds[userID] = newHash
	f.tokens = nil
	return nil
}

func (f *fakeRepo) GetUserLoginInfo(_ context.Context, lt entity.LoginType, identifier string) (*entity.UserLoginInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		var field string
		switch lt {
		case entity.LoginTypePhoneNumber:
			field = u.PhoneNumber
		case entity.LoginTypeUsername:
			field = u.Username
		case entity.LoginTypeNickname:
			field = u.Nickname
		default:
			field = u.Email
		}
		if field == identifier {
			return f.loginInfo(u), nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeRepo) GetUserByPhoneNumber(_ context.Context, number string) (*entity.UserLoginInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.PhoneNumber == number {
			return f.loginInfo(u), nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeRepo) loginInfo(u *entity.User) *entity.UserLoginInfo {
	return &entity.UserLoginInfo{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		Nickname:    u.Nickname,
		PhoneNumber: u.PhoneNumber,
		Password:    f.creds[u.ID],
	}
}

func (f *fakeRepo) GetUserByID(_ context.Context, id int64) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) CreateRefreshToken(_ context.Context, ref entity.NewRefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, ref)
	return nil
}

func (f *fakeRepo) UpdateUserProfile(_ context.Context, user entity.PatchUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[user.ID]
	if !ok {
		return goerror.ErrNotFound
	}
	if user.Username != "" {
		u.Username = user.Username
	}
	if user.Nickname != "" {
		u.Nickname = user.Nickname
	}
	return nil
}

func (f *fakeRepo) UpdateUserLastLogin(_ context.Context, id int64, at time.Time, lt entity.LoginType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return goerror.ErrNotFound
	}
	u.LastLoginAt = &at
	u.LastLoginType = lt
	f.lastLogin[id] = lt
	return nil
}

type fixture struct {
	uc   *Usecase
	repo *fakeRepo
	clk  *fakeClock
	grt  *goroutine.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clk := &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	repo := newFakeRepo(clk)

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
modules:
  account:
    update_last_login: true
    refresh_token_ttl_days: 30
`))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	vld, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	tokenJWT, err := jwt.NewHS512(jwt.Config{
		Secret:     []byte(strings.Repeat("k", 64)),
		Issuer:     "test",
		Audiences:  []string{"test"},
		TTLMinutes: 15 * time.Minute,
		Clock:      clk,
		UUID:       uid.NewUUID(),
	})
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}

	opaque, err := uid.NewOpaqueToken()
	if err != nil {
		t.Fatalf("opaque token: %v", err)
	}

	grt := goroutine.NewManager(4)

	uc := New(Dependency{
		RepoDB:     repo,
		Validator:  vld,
		Config:     cfg,
		HMAC:       hash.NewHMACSHA256("test-hmac-secret"),
		Bcrypt:     hash.NewBcrypt(4, ""),
		Encryptor:  secrecy.NewAESGCMEncryptor(secrecy.StaticKeyProvider{KeyBytes: []byte(strings.Repeat("x", 32))}),
		UID:        &seqID{},
		OID:        opaque,
		Totp:       otp.NewTOTP("test", uint(testOtpPeriod/time.Second), libOTP.DigitsSix),
		Clock:      clk,
		JWT:        tokenJWT,
		Instrument: instrument.NewNoop(),
		Goroutine:  grt,
	})

	return &fixture{uc: uc, repo: repo, clk: clk, grt: grt}
}

// sendAndVerify walks a number through send and a successful verify, and
// returns the authenticated code.
func (f *fixture) sendAndVerify(t *testing.T, number string, purpose entity.OtpPurpose) string {
	t.Helper()

	out, err := f.uc.SendCode(context.Background(), SendCodeInput{Number: number, Purpose: purpose})
	if err != nil {
		t.Fatalf("SendCode: %v", err)
	}

	if _, err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{
		Number:  number,
		Code:    out.Code,
		Purpose: purpose,
	}); err != nil {
		t.Fatalf("VerifyCode: %v", err)
	}

	return out.Code
}

func (f *fixture) signup(t *testing.T, number, email, username, password string) *SignupOutput {
	t.Helper()

	code := f.sendAndVerify(t, number, entity.OtpPurposeEmailVerify)
	out, err := f.uc.Signup(context.Background(), SignupInput{
		Email:       email,
		Password:    password,
		Username:    username,
		Nickname:    username,
		PhoneNumber: number,
		OtpCode:     code,
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	return out
}

func assertBusiness(t *testing.T, err error, msg string, status int) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected goerror, got %v", err)
	}
	if gerr.Msg() != msg {
		t.Fatalf("expected message %q, got %q", msg, gerr.Msg())
	}
	if gerr.StatusCode() != status {
		t.Fatalf("expected status %d, got %d", status, gerr.StatusCode())
	}
}

func assertInvalidInput(t *testing.T, err error) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected goerror, got %v", err)
	}
	if gerr.StatusCode() != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", gerr.StatusCode())
	}
}
