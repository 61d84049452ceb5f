package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/heartbridge/server/internal/auth"
	"github.com/heartbridge/server/internal/config"
	"github.com/heartbridge/server/internal/payments"
	"github.com/heartbridge/server/internal/server"
)

// NewApp assembles the full application handler from an open database
// connection. Kept separate from main so end-to-end tests can drive the
// whole route table against a test database.
func NewApp(dbConn *gorm.DB, cfg config.Config, log zerolog.Logger) (http.Handler, error) {
	verifier, err := auth.NewJWTVerifier(cfg.AuthCredentials)
	if err != nil {
		return nil, err
	}
	var intents payments.IntentCreator
	if cfg.StripeSecretKey != "" {
		gateway, err := payments.NewStripeGateway(cfg.StripeSecretKey)
		if err != nil {
			return nil, err
		}
		intents = gateway
	} else {
		log.Warn().Msg("STRIPE_SECRET_KEY not set; payment intents will fail")
		intents = unconfiguredGateway{}
	}
	return server.New(dbConn, verifier, intents, log), nil
}

type unconfiguredGateway struct{}

func (unconfiguredGateway) CreateIntent(_ context.Context, _ int64, _ string) (string, error) {
	return "", errors.New("payment gateway is not configured")
}
