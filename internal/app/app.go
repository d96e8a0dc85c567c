package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
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

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	bcrypt    hash.Hash
	uid       uid.NumberID
	oid       uid.StringID
	uuid      uid.StringID
	totp      otp.OTP
	jwt       jwt.JWT
	encryptor secrecy.Encryptor

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	limiter   ratelimit.Limiter

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
