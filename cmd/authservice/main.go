package main

import (
	"context"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/ex9/authservice/handler"
	"github.com/ex9/authservice/pkg/auth"
	"github.com/ex9/authservice/pkg/httpserver"
	"github.com/ex9/authservice/pkg/jwt"
	"github.com/ex9/authservice/pkg/logger"
	"github.com/ex9/authservice/pkg/pg"
)

type appConfig struct {
	Auth   auth.Config
	Google auth.GoogleOAuthConfig
	JWT    jwt.Config
	PG     pg.Config
	HTTP   httpserver.Config
	Log    logger.Config
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// The .env file is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg appConfig
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	log := logger.New(cfg.Log)

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, log); err != nil {
		return err
	}

	codec, err := jwt.NewFromConfig(cfg.JWT)
	if err != nil {
		return err
	}

	storage := pg.NewStorage(pool)
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	credentials := auth.NewCredentialService(storage, hasher, auth.WithCredentialLogger(log))
	accounts := auth.NewAccountService(storage, credentials, hasher, codec, auth.WithAccountLogger(log))
	federation := auth.NewFederationService(storage, codec, auth.WithFederationLogger(log))
	oauth := auth.NewOAuthService(auth.NewGoogleAdapter(cfg.Google), federation, auth.WithOAuthLogger(log))
	roles := auth.NewRoleService(storage, auth.WithRoleLogger(log))

	router := handler.New(handler.RouterConfig{
		Accounts:   accounts,
		OAuth:      oauth,
		Roles:      roles,
		Codec:      codec,
		Identities: storage,
		Logger:     log,
	})

	return httpserver.New(cfg.HTTP, log).Run(ctx, router)
}
