package util

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// OAuthClient holds the credentials of one external identity provider.
type OAuthClient struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectURL  string `json:"redirect_url"`
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	DB       int    `json:"db"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ConfigType struct {
	Port        string `json:"port"`
	PublicHost  string `json:"public_host"`
	FrontendURL string `json:"frontend_url"`

	// store backend: "bolt" (default) or one of the sql dialects
	Dialect          string `json:"dialect"`
	BoltPath         string `json:"bolt_path"`
	ConnectionString string `json:"connection_string"`

	// keys for the securecookie codec, base64 is not required
	CookieHash       string `json:"cookie_hash"`
	CookieEncryption string `json:"cookie_encryption"`

	// session lifetime in days, sliding
	SessionLifetimeDays int `json:"session_lifetime_days"`

	GoogleOAuth *OAuthClient `json:"google_oauth,omitempty"`
	GithubOAuth *OAuthClient `json:"github_oauth,omitempty"`

	// optional redis fan-out for real-time events across instances
	Redis *RedisConfig `json:"redis,omitempty"`

	LogPath  string `json:"log_path"`
	LogLevel string `json:"log_level"`
}

var Config *ConfigType

// ConfigInit loads the configuration from the given JSON file (may be
// empty) and applies environment variable overrides.
func ConfigInit(configPath string) error {
	Config = &ConfigType{}

	if configPath != "" {
		f, err := os.Open(configPath)
		if err != nil {
			return fmt.Errorf("cannot open config file %s: %w", configPath, err)
		}
		defer f.Close()

		dec := json.NewDecoder(f)
		if err := dec.Decode(Config); err != nil {
			return fmt.Errorf("cannot parse config file %s: %w", configPath, err)
		}
	}

	loadConfigEnvironment()
	setConfigDefaults()

	return validateConfig()
}

func loadConfigEnvironment() {
	overrideString(&Config.Port, "PAGEDECK_PORT")
	overrideString(&Config.PublicHost, "PAGEDECK_WEB_HOST")
	overrideString(&Config.FrontendURL, "PAGEDECK_FRONTEND_URL")
	overrideString(&Config.Dialect, "PAGEDECK_DB_DIALECT")
	overrideString(&Config.BoltPath, "PAGEDECK_BOLT_PATH")
	overrideString(&Config.ConnectionString, "PAGEDECK_DB_CONNECTION")
	overrideString(&Config.CookieHash, "PAGEDECK_COOKIE_HASH")
	overrideString(&Config.CookieEncryption, "PAGEDECK_COOKIE_ENCRYPTION")
	overrideString(&Config.LogPath, "PAGEDECK_LOG_PATH")
	overrideString(&Config.LogLevel, "PAGEDECK_LOG_LEVEL")
	overrideInt(&Config.SessionLifetimeDays, "PAGEDECK_SESSION_LIFETIME_DAYS")

	if v := os.Getenv("PAGEDECK_REDIS_ADDR"); v != "" {
		if Config.Redis == nil {
			Config.Redis = &RedisConfig{}
		}
		Config.Redis.Addr = v
	}
}

func setConfigDefaults() {
	if Config.Port == "" {
		Config.Port = ":8000"
	}
	if Config.Dialect == "" {
		Config.Dialect = "bolt"
	}
	if Config.BoltPath == "" {
		Config.BoltPath = "pagedeck.bolt"
	}
	if Config.SessionLifetimeDays <= 0 {
		Config.SessionLifetimeDays = 14
	}
}

func validateConfig() error {
	switch Config.Dialect {
	case "bolt", "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported dialect: %s", Config.Dialect)
	}

	if Config.Dialect != "bolt" && Config.ConnectionString == "" {
		return fmt.Errorf("connection_string is required for dialect %s", Config.Dialect)
	}

	if Config.CookieHash == "" {
		return fmt.Errorf("cookie_hash is required")
	}

	return nil
}

func overrideString(target *string, envName string) {
	if v := os.Getenv(envName); v != "" {
		*target = v
	}
}

func overrideInt(target *int, envName string) {
	if v := os.Getenv(envName); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}
