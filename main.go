package main

import (
	"context"
	"time"

	"github.com/seongminoh/otpauth/internal/app"
)

func main() {
	application := app.New()

	// Block until a termination signal arrives, then give shutdown 10s.
	<-application.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Stop(ctx)
}
