package jwt

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	authjwt "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/auth/jwt"
	customErrors "github.com/Miraines/MoonyAndStarry/catalog-service/internal/domain/errors"
	"github.com/Miraines/MoonyAndStarry/catalog-service/internal/infra/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const refreshTokenBytes = 128

type JwtUtilImpl struct {
	secret    []byte
	accessTTL time.Duration
	issuer    string
	audience  string
	now       func() time.Time
}

// NewJWTUtil fails with a configuration error when the secret key is absent.
func NewJWTUtil(cfg config.JWTConfig) (*JwtUtilImpl, error) {
	if cfg.SecretKey == "" {
		return nil, customErrors.NewConfig("JWT secret key not found")
	}
	return &JwtUtilImpl{
		secret:    []byte(cfg.SecretKey),
		accessTTL: cfg.AccessTTL(),
		issuer:    cfg.ValidIssuer,
		audience:  cfg.ValidAudience,
		now:       time.Now,
	}, nil
}

func (j *JwtUtilImpl) GenerateAccessToken(c authjwt.Claims) (string, time.Time, error) {
	if len(j.secret) == 0 {
		return "", time.Time{}, customErrors.NewConfig("JWT secret key not found")
	}
	if c.Subject == "" {
		return "", time.Time{}, customErrors.NewInvalidArgument("claims must carry a subject")
	}

	now := j.now().UTC()
	jti := c.ID
	if jti == "" {
		jti = uuid.NewString()
	}

	claims := authjwt.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.Subject,
			Issuer:    j.issuer,
			Audience:  jwt.ClaimStrings{j.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTTL)),
			ID:        jti,
		},
		Email: c.Email,
		Roles: c.Roles,
		Stamp: c.Stamp,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, customErrors.WrapInternal(err, "sign access token")
	}

	return signed, claims.ExpiresAt.Time, nil
}

func (j *JwtUtilImpl) GenerateRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", customErrors.WrapInternal(err, "generate refresh token")
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// GetPrincipalFromExpiredToken checks only the HS256 signature: issuer,
// audience and lifetime are ignored so that expired tokens can be exchanged.
func (j *JwtUtilImpl) GetPrincipalFromExpiredToken(raw string) (authjwt.Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &authjwt.AccessClaims{}, j.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !token.Valid {
		return authjwt.Claims{}, customErrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*authjwt.AccessClaims)
	if !ok {
		return authjwt.Claims{}, customErrors.WrapInternal(
			errors.New("claims not AccessClaims"), "GetPrincipalFromExpiredToken",
		)
	}
	if claims.Subject == "" {
		return authjwt.Claims{}, customErrors.ErrInvalidToken
	}

	return claims.Claims(), nil
}

func (j *JwtUtilImpl) ValidateAccessToken(raw string) (authjwt.Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &authjwt.AccessClaims{}, j.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithAudience(j.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil || !token.Valid {
		return authjwt.Claims{}, customErrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*authjwt.AccessClaims)
	if !ok {
		return authjwt.Claims{}, customErrors.WrapInternal(
			errors.New("claims not AccessClaims"), "ValidateAccessToken",
		)
	}

	return claims.Claims(), nil
}

func (j *JwtUtilImpl) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, customErrors.ErrInvalidToken
	}
	return j.secret, nil
}
