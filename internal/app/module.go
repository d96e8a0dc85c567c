package app

import (
	"log/slog"
	"os"

	"github.com/seongminoh/otpauth/internal/account"
)

func (a *App) initModules() {
	if err := account.New(account.Dependency{
		DBConn:     a.dbConn,
		Limiter:    a.limiter,
		Goroutine:  a.goroutine,
		Router:     a.router,
		Config:     a.config,
		Instrument: a.ins,
		UID:        a.uid,
		OID:        a.oid,
		HMAC:       a.hmac,
		Bcrypt:     a.bcrypt,
		Encryptor:  a.encryptor,
		Clock:      a.clock,
		Totp:       a.totp,
		Validator:  a.validator,
		JWT:        a.jwt,
	}); err != nil {
		slog.Error("failed to init module account", "error", err)
		os.Exit(1)
	}
}
