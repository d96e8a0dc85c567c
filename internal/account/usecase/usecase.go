package usecase

import (
	"context"
	"time"

	"github.com/seongminoh/otpauth/internal/account/entity"
	"github.com/seongminoh/otpauth/internal/pkg/clock"
	"github.com/seongminoh/otpauth/internal/pkg/config"
	"github.com/seongminoh/otpauth/internal/pkg/goroutine"
	"github.com/seongminoh/otpauth/internal/pkg/hash"
	"github.com/seongminoh/otpauth/internal/pkg/instrument"
	"github.com/seongminoh/otpauth/internal/pkg/jwt"
	"github.com/seongminoh/otpauth/internal/pkg/otp"
	"github.com/seongminoh/otpauth/internal/pkg/secrecy"
	"github.com/seongminoh/otpauth/internal/pkg/uid"
	"github.com/seongminoh/otpauth/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

// timeLayout is the wire format for expired_at and verified_at timestamps.
const timeLayout = "2006-01-02 15:04:05"

type repoDB interface {
	GetUserLoginInfo(ctx context.Context, lt entity.LoginType, identifier string) (*entity.UserLoginInfo, error)
	GetUserByPhoneNumber(ctx context.Context, number string) (*entity.UserLoginInfo, error)
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	GetLatestOtp(ctx context.Context, number string) (*entity.OtpRecord, error)
	GetLatestPendingOtp(ctx context.Context, number string, purpose entity.OtpPurpose) (*entity.OtpRecord, error)
	GetLatestVerifiedOtp(ctx context.Context, number string, purpose entity.OtpPurpose) (*entity.OtpRecord, error)

	CreateOtp(ctx context.Context, rec entity.NewOtpRecord) error
	CreateRefreshToken(ctx context.Context, ref entity.NewRefreshToken) error

	MarkOtpVerified(ctx context.Context, id int64, code string) error
	UpdateUserProfile(ctx context.Context, user entity.PatchUser) error
	UpdateUserLastLogin(ctx context.Context, id int64, at time.Time, lt entity.LoginType) error

	CreateUserWithOtp(ctx context.Context, user entity.NewUser, passwordHash string, otpID int64) error
	ResetPasswordWithOtp(ctx context.Context, userID, otpID int64, newHash string) error
}

type Usecase struct {
	repoDB    repoDB
	validator validator.Validator
	cfg       config.Config
	hmac      hash.Hash
	bcrypt    hash.Hash
	encryptor secrecy.Encryptor
	uid       uid.NumberID
	oid       uid.StringID
	totp      otp.OTP
	clock     clock.Clocker
	jwt       jwt.JWT
	ins       instrument.Instrumentation
	goroutine *goroutine.Manager
}

type Dependency struct {
	RepoDB     repoDB
	Validator  validator.Validator
	Config     config.Config
	HMAC       hash.Hash
	Bcrypt     hash.Hash
	Encryptor  secrecy.Encryptor
	UID        uid.NumberID
	OID        uid.StringID
	Totp       otp.OTP
	Clock      clock.Clocker
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
	Goroutine  *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		validator: dep.Validator,
		cfg:       dep.Config,
		hmac:      dep.HMAC,
		bcrypt:    dep.Bcrypt,
		encryptor: dep.Encryptor,
		uid:       dep.UID,
		oid:       dep.OID,
		totp:      dep.Totp,
		clock:     dep.Clock,
		jwt:       dep.JWT,
		ins:       dep.Instrument,
		goroutine: dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("account.usecase").Start(ctx, name)
}

func (s *Usecase) otpScope(number string, purpose entity.OtpPurpose) secrecy.Scope {
	return secrecy.Scope{Number: number, Purpose: purpose.String()}
}
