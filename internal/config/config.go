// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading. Values come
// from environment variables, optionally layered over a config.yaml file
// found in the working directory or ./configs.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// DefaultPostsPerPage is the listing page size used when none is configured.
const DefaultPostsPerPage = 30

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host        string
	Port        string
	Env         string // "development", "production", "testing"
	AllowOrigin string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (sessions + access log events)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	SessionTTL     time.Duration

	// S3-compatible object storage for post files
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string

	// Listing
	PostsPerPage int
}

// defaults maps every recognised key to its development default. Keys
// double as environment variable names.
var defaults = map[string]any{
	"APP_HOST":          "0.0.0.0",
	"APP_PORT":          "3000",
	"APP_ENV":           "development",
	"ALLOW_ORIGIN":      "*",
	"POSTGRES_HOST":     "localhost",
	"POSTGRES_PORT":     "5432",
	"POSTGRES_USER":     "shutterpress",
	"POSTGRES_PASSWORD": "changeme",
	"POSTGRES_DB":       "shutterpress",
	"VALKEY_HOST":       "localhost",
	"VALKEY_PORT":       "6379",
	"VALKEY_PASSWORD":   "",
	"SESSION_TTL":       "24h",
	"S3_ENDPOINT":       "",
	"S3_REGION":         "fsn1",
	"S3_ACCESS_KEY":     "",
	"S3_SECRET_KEY":     "",
	"S3_BUCKET":         "shutterpress-files",
	"POSTS_PER_PAGE":    DefaultPostsPerPage,
}

// Load reads configuration, applying defaults for development where
// appropriate. Returns an error if critical values are missing in
// production mode.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		Host:        str(v, "APP_HOST"),
		Port:        str(v, "APP_PORT"),
		Env:         str(v, "APP_ENV"),
		AllowOrigin: str(v, "ALLOW_ORIGIN"),

		DBHost:     str(v, "POSTGRES_HOST"),
		DBPort:     str(v, "POSTGRES_PORT"),
		DBUser:     str(v, "POSTGRES_USER"),
		DBPassword: str(v, "POSTGRES_PASSWORD"),
		DBName:     str(v, "POSTGRES_DB"),

		ValkeyHost:     str(v, "VALKEY_HOST"),
		ValkeyPort:     str(v, "VALKEY_PORT"),
		ValkeyPassword: v.GetString("VALKEY_PASSWORD"),
		SessionTTL:     v.GetDuration("SESSION_TTL"),

		S3Endpoint:  v.GetString("S3_ENDPOINT"),
		S3Region:    str(v, "S3_REGION"),
		S3AccessKey: v.GetString("S3_ACCESS_KEY"),
		S3SecretKey: v.GetString("S3_SECRET_KEY"),
		S3Bucket:    str(v, "S3_BUCKET"),

		PostsPerPage: v.GetInt("POSTS_PER_PAGE"),
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.PostsPerPage <= 0 {
		cfg.PostsPerPage = DefaultPostsPerPage
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// str returns the string value for key, falling back to its default when
// the environment sets it to the empty string.
func str(v *viper.Viper, key string) string {
	if s := v.GetString(key); s != "" {
		return s
	}
	if d, ok := defaults[key].(string); ok {
		return d
	}
	return ""
}
