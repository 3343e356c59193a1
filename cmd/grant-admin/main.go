// Command grant-admin gives the admin role to a registered user, enabling
// the ingredient and tag endpoints. The user must log in again to receive a
// token carrying the role.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/weiawesome/foodgram/internal/config"
	"github.com/weiawesome/foodgram/internal/repository"
	"github.com/weiawesome/foodgram/internal/service"
	"github.com/weiawesome/foodgram/pkg/database"
	pkglog "github.com/weiawesome/foodgram/pkg/log"
	"github.com/weiawesome/foodgram/pkg/middleware"
)

func main() {
	email := flag.String("email", "", "email of the user to promote")
	flag.Parse()

	cfg, err := config.Read()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	cfg.Log.ServiceName = "grant-admin"
	pkglog.Init(cfg.Log)
	logger := pkglog.L()

	if *email == "" {
		logger.Fatal().Msg("-email is required")
	}

	db, err := database.New(cfg.Database.Database())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Token operations are never reached by GrantRole.
	users := service.NewUserService(
		repository.NewGormUserRepository(db),
		repository.NewGormFollowRepository(db),
		nil,
		cfg.Auth.BcryptCost,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ctx = pkglog.WithLogger(ctx, logger)

	if err := users.GrantRole(ctx, *email, middleware.RoleAdmin); err != nil {
		logger.Fatal().Err(err).Str("email", *email).Msg("failed to grant admin role")
	}

	logger.Info().Str("email", *email).Msg("admin role granted")
}
