package service

import (
	"context"
	"errors"
	"time"

	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/auth/model"
	repo "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/auth/repo"
	customErrors "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/errors"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/infra/config"
	logpkg "github.com/Miraines/MoonyAndStarry/catalog-service/internal/infra/log"
	"github.com/alexedwards/argon2id"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var argonParams = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

type authService struct {
	userRepo  repo.UserRepo
	roleRepo  repo.RoleRepo
	tokenRepo repo.TokenRepo
	jwtUtil   jwt.JWTUtil
	cfg       *config.Config
	v         *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

type Service interface {
	Register(context.Context, dto.RegisterDTO) error
	Login(context.Context, dto.LoginDTO) (model.TokenPair, error)
	Refresh(context.Context, dto.TokenDTO) (model.TokenPair, error)
	Revoke(ctx context.Context, username string) error
	Authenticate(ctx context.Context, accessToken string) (jwt.Claims, error)
	CreateRole(ctx context.Context, name string) error
	AddUserToRole(ctx context.Context, email, roleName string) error
}

func New(
	ur repo.UserRepo,
	rr repo.RoleRepo,
	tr repo.TokenRepo,
	jm jwt.JWTUtil,
	cfg *config.Config,
	v *validator.Validate,
	logger *zap.Logger,
) Service {
	return &authService{
		userRepo: ur, roleRepo: rr, tokenRepo: tr, jwtUtil: jm,
		cfg: cfg, v: v, logger: logger, now: time.Now,
	}
}

func (a *authService) Register(ctx context.Context, in dto.RegisterDTO) error {
	if err := a.v.Struct(in); err != nil {
		return customErrors.NewInvalidArgument(err.Error())
	}

	_, err := a.userRepo.GetUserByUsername(ctx, in.UserName)
	switch {
	case err == nil:
		return customErrors.NewAlreadyExists("User already exists")
	case !customErrors.IsNotFound(err):
		return customErrors.WrapInternal(err, "Register")
	}

	_, err = a.userRepo.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return customErrors.NewAlreadyExists("Email already exists")
	case !customErrors.IsNotFound(err):
		return customErrors.WrapInternal(err, "Register")
	}

	passwordHash, err := argon2id.CreateHash(in.Password+a.cfg.PasswordPepper, argonParams)
	if err != nil {
		return customErrors.WrapInternal(err, "Register")
	}

	user := model.User{
		ID:            uuid.New(),
		UserName:      in.UserName,
		Email:         in.Email,
		PasswordHash:  passwordHash,
		SecurityStamp: uuid.NewString(),
	}
	if _, err = a.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return customErrors.NewAlreadyExists("User already exists")
		}
		return customErrors.WrapInternal(err, "Error creating user")
	}

	a.logger.Info("user registered", logpkg.Subject("user", in.UserName))
	return nil
}

func (a *authService) Login(ctx context.Context, in dto.LoginDTO) (model.TokenPair, error) {
	if err := a.v.Struct(in); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.userRepo.GetUserByUsername(ctx, in.UserName)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		a.logger.Warn("login failed", logpkg.Subject("user", in.UserName))
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}

	ok, err := argon2id.ComparePasswordAndHash(in.Password+a.cfg.PasswordPepper, user.PasswordHash)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}
	if !ok {
		a.logger.Warn("login failed", logpkg.Subject("user", in.UserName))
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	}

	at, atExp, err := a.jwtUtil.GenerateAccessToken(jwt.Claims{
		Subject: user.UserName,
		Email:   user.Email,
		Roles:   user.RoleNames(),
		Stamp:   user.SecurityStamp,
	})
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "GenerateAccessToken")
	}
	rt, err := a.jwtUtil.GenerateRefreshToken()
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "GenerateRefreshToken")
	}

	rtExp := a.now().UTC().Add(a.cfg.JWT.RefreshTTL())
	if err = a.userRepo.SetRefreshToken(ctx, user.ID, rt, rtExp); err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "StoreRefresh")
	}

	return model.TokenPair{
		AccessToken:  at,
		RefreshToken: rt,
		Expiration:   atExp,
		UserID:       user.ID,
	}, nil
}

// Refresh exchanges an expired access token plus the current refresh token for
// a new pair. The refresh token is single use: rotation is a compare-and-swap
// on the stored value.
func (a *authService) Refresh(ctx context.Context, in dto.TokenDTO) (model.TokenPair, error) {
	if in.AccessToken == "" || in.RefreshToken == "" {
		return model.TokenPair{}, customErrors.NewInvalidArgument("Invalid client request")
	}

	claims, err := a.jwtUtil.GetPrincipalFromExpiredToken(in.AccessToken)
	if err != nil {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}

	user, err := a.userRepo.GetUserByUsername(ctx, claims.Subject)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.TokenPair{}, customErrors.ErrInvalidToken
	case err != nil:
		return model.TokenPair{}, customErrors.WrapInternal(err, "Refresh")
	}

	if user.RefreshToken == nil || *user.RefreshToken != in.RefreshToken ||
		user.RefreshTokenExpiryTime.Before(a.now().UTC()) {
		a.logger.Warn("refresh rejected", logpkg.Subject("user", claims.Subject))
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}

	claims.ID = ""
	claims.Stamp = user.SecurityStamp
	at, atExp, err := a.jwtUtil.GenerateAccessToken(claims)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "GenerateAccessToken")
	}
	rt, err := a.jwtUtil.GenerateRefreshToken()
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "GenerateRefreshToken")
	}

	if err = a.userRepo.RotateRefreshToken(ctx, user.ID, in.RefreshToken, rt); err != nil {
		if customErrors.IsInvalidToken(err) {
			a.logger.Warn("refresh lost rotation race", logpkg.Subject("user", claims.Subject))
			return model.TokenPair{}, customErrors.ErrInvalidToken
		}
		return model.TokenPair{}, customErrors.WrapInternal(err, "RotateRefresh")
	}

	return model.TokenPair{
		AccessToken:  at,
		RefreshToken: rt,
		Expiration:   atExp,
		UserID:       user.ID,
	}, nil
}

func (a *authService) Revoke(ctx context.Context, username string) error {
	user, err := a.userRepo.GetUserByUsername(ctx, username)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return customErrors.NewNotFound("Invalid username")
	case err != nil:
		return customErrors.WrapInternal(err, "Revoke")
	}

	stamp := uuid.NewString()
	if err = a.userRepo.ClearRefreshToken(ctx, user.ID, stamp); err != nil {
		return customErrors.WrapInternal(err, "Revoke")
	}
	// The refresh token is gone at this point; live access tokens simply
	// run out their validity if the marker cannot be written.
	if err = a.tokenRepo.RevokeUser(ctx, user.UserName, stamp, a.cfg.JWT.AccessTTL()); err != nil {
		a.logger.Error("revocation marker not stored",
			logpkg.Subject("user", username), zap.Error(err))
	}

	a.logger.Info("user revoked", logpkg.Subject("user", username))
	return nil
}

// Authenticate validates a live access token and, after a revocation, rejects
// tokens that carry a security stamp other than the one it recorded.
func (a *authService) Authenticate(ctx context.Context, accessToken string) (jwt.Claims, error) {
	if accessToken == "" {
		return jwt.Claims{}, customErrors.ErrInvalidToken
	}

	claims, err := a.jwtUtil.ValidateAccessToken(accessToken)
	if err != nil {
		return jwt.Claims{}, customErrors.ErrInvalidToken
	}

	stamp, revoked, err := a.tokenRepo.CurrentStamp(ctx, claims.Subject)
	if err != nil {
		return jwt.Claims{}, customErrors.WrapInternal(err, "Authenticate")
	}
	if revoked && claims.Stamp != stamp {
		return jwt.Claims{}, customErrors.ErrInvalidToken
	}

	return claims, nil
}

func (a *authService) CreateRole(ctx context.Context, name string) error {
	if name == "" {
		return customErrors.NewInvalidArgument("roleName is required")
	}

	_, err := a.roleRepo.GetRoleByName(ctx, name)
	switch {
	case err == nil:
		return customErrors.NewInvalidArgument("Role already exists")
	case !customErrors.IsNotFound(err):
		return customErrors.WrapInternal(err, "CreateRole")
	}

	if err = a.roleRepo.CreateRole(ctx, model.Role{ID: uuid.New(), Name: name}); err != nil {
		if customErrors.IsAlreadyExists(err) {
			return customErrors.NewInvalidArgument("Role already exists")
		}
		return customErrors.WrapInternal(err, "Error creating role")
	}

	a.logger.Info("role created", zap.String("role", name))
	return nil
}

func (a *authService) AddUserToRole(ctx context.Context, email, roleName string) error {
	user, err := a.userRepo.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return customErrors.NewNotFound("User not found")
	case err != nil:
		return customErrors.WrapInternal(err, "AddUserToRole")
	}

	role, err := a.roleRepo.GetRoleByName(ctx, roleName)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return customErrors.NewNotFound("Role not found")
	case err != nil:
		return customErrors.WrapInternal(err, "AddUserToRole")
	}

	if err = a.userRepo.AddUserToRole(ctx, user.ID, role.ID); err != nil {
		return customErrors.WrapInternal(err, "AddUserToRole")
	}

	a.logger.Info("user added to role",
		logpkg.Subject("user", user.UserName), zap.String("role", roleName))
	return nil
}
