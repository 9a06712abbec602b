package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/auth/model"
	customErrors "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/errors"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/infra/config"
)

// Accounts is the part of the auth service needed to seed the admin.
type Accounts interface {
	Register(context.Context, dto.RegisterDTO) error
	CreateRole(ctx context.Context, name string) error
	AddUserToRole(ctx context.Context, email, roleName string) error
}

var adminRoles = []string{model.RoleAdmin, model.RoleSuperAdmin}

// EnsureAdmin creates the configured admin account and grants it the
// administrative roles. It is a no-op when no admin is configured and safe to
// run on every start.
func EnsureAdmin(ctx context.Context, cfg config.AdminConfig, accounts Accounts, logger *zap.Logger) error {
	username := strings.TrimSpace(cfg.Username)
	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	if username == "" && email == "" && cfg.Password == "" {
		return nil
	}
	if username == "" || email == "" || cfg.Password == "" {
		return fmt.Errorf("admin bootstrap missing required config")
	}

	err := accounts.Register(ctx, dto.RegisterDTO{UserName: username, Email: email, Password: cfg.Password})
	switch {
	case err == nil:
		logger.Info("bootstrap admin created", zap.String("username", username))
	case customErrors.IsAlreadyExists(err):
	default:
		return fmt.Errorf("bootstrap create admin: %w", err)
	}

	for _, role := range adminRoles {
		if err := grant(ctx, accounts, email, role); err != nil {
			return fmt.Errorf("bootstrap grant %s: %w", role, err)
		}
	}
	return nil
}

func grant(ctx context.Context, accounts Accounts, email, role string) error {
	err := accounts.AddUserToRole(ctx, email, role)
	if !customErrors.IsNotFound(err) {
		return err
	}
	// Roles are seeded by migrations; create one that is missing and retry.
	if err := accounts.CreateRole(ctx, role); err != nil && !customErrors.IsInvalidArgument(err) {
		return err
	}
	return accounts.AddUserToRole(ctx, email, role)
}
