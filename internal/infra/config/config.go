package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type JWTConfig struct {
	SecretKey                     string
	ValidIssuer                   string
	ValidAudience                 string
	TokenValidityInMinutes        int
	RefreshTokenValidityInMinutes int
}

func (j JWTConfig) AccessTTL() time.Duration {
	return time.Duration(j.TokenValidityInMinutes) * time.Minute
}

func (j JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(j.RefreshTokenValidityInMinutes) * time.Minute
}

type RateLimitConfig struct {
	Permits int
	Window  time.Duration
}

type AdminConfig struct {
	Username string
	Email    string
	Password string
}

type Config struct {
	LogLevel         string
	DatabaseURL      string
	RedisAddress     string
	RedisPassword    string
	RedisDB          int
	HTTPAddress      string
	GRPCAddress      string
	HTTPSCertFile    string
	HTTPSKeyFile     string
	AllowedOrigins   []string
	AllowCredentials bool
	PasswordPepper   string
	ExclusiveUsers   []string
	RateLimit        RateLimitConfig
	Admin            AdminConfig
	JWT              JWTConfig
}

// key → environment variable. Keys follow the config.json layout, so
// "jwt.secretkey" is read from {"JWT": {"SecretKey": ...}}.
var envBindings = map[string]string{
	"log_level":                         "LOG_LEVEL",
	"database_url":                      "DATABASE_URL",
	"redis_address":                     "REDIS_ADDRESS",
	"redis_password":                    "REDIS_PASSWORD",
	"redis_db":                          "REDIS_DB",
	"http_address":                      "HTTP_ADDRESS",
	"grpc_address":                      "GRPC_ADDRESS",
	"https_cert_file":                   "HTTPS_CERT_FILE",
	"https_key_file":                    "HTTPS_KEY_FILE",
	"allowed_origins":                   "ALLOWED_ORIGINS",
	"allow_credentials":                 "ALLOW_CREDENTIALS",
	"password_pepper":                   "PASSWORD_PEPPER",
	"exclusive_users":                   "EXCLUSIVE_USERS",
	"rate_limit.permits":                "RATE_LIMIT_PERMITS",
	"rate_limit.window":                 "RATE_LIMIT_WINDOW",
	"admin.username":                    "ADMIN_USERNAME",
	"admin.email":                       "ADMIN_EMAIL",
	"admin.password":                    "ADMIN_PASSWORD",
	"jwt.secretkey":                     "JWT_SECRET_KEY",
	"jwt.validissuer":                   "JWT_VALID_ISSUER",
	"jwt.validaudience":                 "JWT_VALID_AUDIENCE",
	"jwt.tokenvalidityinminutes":        "JWT_TOKEN_VALIDITY_IN_MINUTES",
	"jwt.refreshtokenvalidityinminutes": "JWT_REFRESH_TOKEN_VALIDITY_IN_MINUTES",
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	v.SetDefault("http_address", ":8080")
	v.SetDefault("grpc_address", ":50051")
	v.SetDefault("rate_limit.permits", 5)
	v.SetDefault("rate_limit.window", "10s")
	v.SetDefault("jwt.tokenvalidityinminutes", 30)
	v.SetDefault("jwt.refreshtokenvalidityinminutes", 60)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		LogLevel:         v.GetString("log_level"),
		DatabaseURL:      v.GetString("database_url"),
		RedisAddress:     v.GetString("redis_address"),
		RedisPassword:    v.GetString("redis_password"),
		RedisDB:          v.GetInt("redis_db"),
		HTTPAddress:      v.GetString("http_address"),
		GRPCAddress:      v.GetString("grpc_address"),
		HTTPSCertFile:    v.GetString("https_cert_file"),
		HTTPSKeyFile:     v.GetString("https_key_file"),
		AllowedOrigins:   splitList(v.GetStringSlice("allowed_origins")),
		AllowCredentials: v.GetBool("allow_credentials"),
		PasswordPepper:   v.GetString("password_pepper"),
		ExclusiveUsers:   splitList(v.GetStringSlice("exclusive_users")),
		RateLimit: RateLimitConfig{
			Permits: v.GetInt("rate_limit.permits"),
			Window:  v.GetDuration("rate_limit.window"),
		},
		Admin: AdminConfig{
			Username: v.GetString("admin.username"),
			Email:    v.GetString("admin.email"),
			Password: v.GetString("admin.password"),
		},
		JWT: JWTConfig{
			SecretKey:                     v.GetString("jwt.secretkey"),
			ValidIssuer:                   v.GetString("jwt.validissuer"),
			ValidAudience:                 v.GetString("jwt.validaudience"),
			TokenValidityInMinutes:        v.GetInt("jwt.tokenvalidityinminutes"),
			RefreshTokenValidityInMinutes: v.GetInt("jwt.refreshtokenvalidityinminutes"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	required := map[string]string{
		"DATABASE_URL":       c.DatabaseURL,
		"REDIS_ADDRESS":      c.RedisAddress,
		"JWT_VALID_ISSUER":   c.JWT.ValidIssuer,
		"JWT_VALID_AUDIENCE": c.JWT.ValidAudience,
	}
	for name, val := range required {
		if strings.TrimSpace(val) == "" {
			return fmt.Errorf("%s is required", name)
		}
	}
	if c.JWT.TokenValidityInMinutes <= 0 || c.JWT.RefreshTokenValidityInMinutes <= 0 {
		return errors.New("JWT validity windows must be positive")
	}
	if c.RateLimit.Permits <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("rate limit permits and window must be positive")
	}
	return nil
}

// splitList accepts both JSON arrays from config.json and comma separated
// environment values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
