// Package account implements phone-number verification, signup, login, and
// password reset.
package account

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seongminoh/otpauth/internal/account/inbound"
	"github.com/seongminoh/otpauth/internal/account/outbound/db"
	"github.com/seongminoh/otpauth/internal/account/usecase"
	"github.com/seongminoh/otpauth/internal/pkg/clock"
	"github.com/seongminoh/otpauth/internal/pkg/config"
	"github.com/seongminoh/otpauth/internal/pkg/goroutine"
	"github.com/seongminoh/otpauth/internal/pkg/hash"
	"github.com/seongminoh/otpauth/internal/pkg/instrument"
	"github.com/seongminoh/otpauth/internal/pkg/jwt"
	"github.com/seongminoh/otpauth/internal/pkg/otp"
	"github.com/seongminoh/otpauth/internal/pkg/ratelimit"
	"github.com/seongminoh/otpauth/internal/pkg/router"
	"github.com/seongminoh/otpauth/internal/pkg/secrecy"
	"github.com/seongminoh/otpauth/internal/pkg/uid"
	"github.com/seongminoh/otpauth/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Limiter    ratelimit.Limiter          `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	OID        uid.StringID               `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Bcrypt     hash.Hash                  `validate:"required"`
	Encryptor  secrecy.Encryptor          `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Totp       otp.OTP                    `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAccount := db.NewDB(dep.DBConn, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:     dbAccount,
		Validator:  dep.Validator,
		Config:     dep.Config,
		HMAC:       dep.HMAC,
		Bcrypt:     dep.Bcrypt,
		Encryptor:  dep.Encryptor,
		UID:        dep.UID,
		OID:        dep.OID,
		Totp:       dep.Totp,
		Clock:      dep.Clock,
		JWT:        dep.JWT,
		Instrument: dep.Instrument,
		Goroutine:  dep.Goroutine,
	})

	throttle := func(scope string) router.Middleware {
		limit := dep.Config.GetInt("modules.account.throttle." + scope + ".limit")
		window := dep.Config.GetSecond("modules.account.throttle." + scope + ".window_seconds")
		if limit <= 0 || window <= 0 {
			limit, window = 60, time.Minute
		}
		return router.Throttle(dep.Limiter, scope, limit, window)
	}

	inbound.RegisterHTTPEndpoint(dep.Router, uc, throttle)

	return nil
}
