// Command seed wipes the users table and recreates the default
// accounts: one admin, two support agents and two regular users.
package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/repository"
)

type seedAccount struct {
	name     string
	email    string
	password string
	role     domain.Role
}

var accounts = []seedAccount{
	{"Admin User", "admin@ticketsystem.com", "admin123", domain.RoleAdmin},
	{"Support Agent 1", "agent1@ticketsystem.com", "agent123", domain.RoleSupportAgent},
	{"Support Agent 2", "agent2@ticketsystem.com", "agent123", domain.RoleSupportAgent},
	{"Regular User 1", "user1@ticketsystem.com", "user123", domain.RoleUser},
	{"Regular User 2", "user2@ticketsystem.com", "user123", domain.RoleUser},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	pool := pg.PoolHandle()
	if pool == nil {
		logger.Fatal("POSTGRES_DSN is required for seeding")
	}

	if _, err := pool.Exec(ctx, `DELETE FROM users`); err != nil {
		logger.Fatal("failed to clear users", zap.Error(err))
	}
	logger.Info("cleared existing users")

	users := repository.NewUserRepository(pool)
	for _, account := range accounts {
		hash, err := auth.HashPassword(account.password, cfg.Auth.BcryptCost)
		if err != nil {
			logger.Fatal("failed to hash password", zap.Error(err))
		}
		user := &domain.User{
			Name:         account.name,
			Email:        account.email,
			PasswordHash: hash,
			Role:         account.role,
		}
		if err := users.Create(ctx, user); err != nil {
			logger.Fatal("failed to create user", zap.String("email", account.email), zap.Error(err))
		}
		logger.Info("created user", zap.String("email", user.Email), zap.String("role", string(user.Role)))
	}

	logger.Info("user seeding completed", zap.Int("count", len(accounts)))
}
