package model

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"portal/internal/auth"
	"portal/internal/config"
	"portal/internal/entity"
)

// SeedAdminUser ensures the configured administrator account exists. Admin
// accounts never come from self-registration; this startup step is the only
// in-scope way one is created.
func SeedAdminUser(ctx context.Context, repo Repository, cfg config.Config) error {
	if repo == nil {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	password := strings.TrimSpace(cfg.AdminPassword)
	if email == "" || password == "" {
		return nil
	}

	_, err := repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through and create
	default:
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(cfg.AdminName)
	if name == "" {
		name = "Administrator"
	}

	admin := &entity.DbUser{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         entity.RoleAdmin,
		Approved:     true,
	}
	if err := repo.CreateUser(ctx, admin); err != nil {
		// a concurrent boot may have inserted it first
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	return nil
}
