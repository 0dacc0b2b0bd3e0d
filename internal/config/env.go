package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds configuration provided through environment variables rather
// than the config file: the two authentication secrets, the session signing
// key, and display metadata for the dashboard.
//
// Missing passwords are not an error here; authentication fails closed at
// request time so operators see a NotConfigured response instead of a
// server that refuses to boot.
type Env struct {
	UserPassword   string `env:"HUB_USER_PASSWORD"`
	AdminPassword  string `env:"HUB_ADMIN_PASSWORD"`
	SessionKey     string `env:"HUB_SESSION_KEY"`
	SiteName       string `env:"HUB_SITE_NAME" envDefault:"Team Hub"`
	SupportContact string `env:"HUB_SUPPORT_CONTACT"`
}

// ParseEnv loads the environment-provided configuration.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}
