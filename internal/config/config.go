// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix of environment variables overriding single config keys,
	// e.g. STORE_ADMIN_WEBSERVER_PORT=9090.
	EnvPrefix = "STORE_ADMIN"

	// EnvConfigJSON holds a JSON document merged over the file based configuration.
	EnvConfigJSON = "STORE_ADMIN_CONFIG_JSON"

	// DefaultLayoutKey is used when Navigation.LayoutKey is not configured.
	DefaultLayoutKey = "PRIMARY"

	defaultShutDownTime = 5

	defaultSessionExpiry = 12 * time.Hour
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(path, "main.toml"))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read json config override")
	}

	return c, nil
}

// DumpConfigJSON config as JSON String.
// Secrets are masked.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	masked := *c
	if masked.DB.Password != "" {
		masked.DB.Password = "***"
	}

	if masked.Bootstrap.AdminPassword != "" {
		masked.Bootstrap.AdminPassword = "***"
	}

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(masked); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings and apply defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	// validate webserver listening port
	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch strings.ToLower(c.DB.GormEngine) {
	case "":
		c.DB.GormEngine = EngineSQLite
	case EngineMySQL, EnginePostgres, EngineSQLite:
		c.DB.GormEngine = strings.ToLower(c.DB.GormEngine)
	default:
		return errors.Wrapf(ErrUnsupportedGormEngine, "%s: %q", invalidErrMessage, c.DB.GormEngine)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = defaultSessionExpiry
	}

	if c.Navigation.LayoutKey == "" {
		c.Navigation.LayoutKey = DefaultLayoutKey
	}

	return nil
}
