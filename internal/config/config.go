package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/debtdesk/debtdesk/internal/cli/userconfig"
)

const (
	DefaultAPIURL  = "http://localhost:8000"
	DefaultStorage = "file"
)

// Config holds all configuration for the CLI
type Config struct {
	// API Configuration
	API APIConfig

	// Web app Configuration
	Web WebConfig

	// Session persistence Configuration
	Storage StorageConfig

	// Logging Configuration
	Logging LoggingConfig
}

// APIConfig holds the remote API configuration
type APIConfig struct {
	URL string
}

// WebConfig holds where the browser app is served.
// Defaults to the API URL, the app calls the API on its own origin.
type WebConfig struct {
	URL string
}

// StorageConfig selects the key-value backend holding the access token
type StorageConfig struct {
	Backend    string // memory, file, keyring, encrypted, sqlite
	Path       string // file, encrypted and sqlite backends
	Passphrase string // encrypted backend
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Overrides are command line values. They beat every other source and are
// applied before defaults that depend on them are derived.
type Overrides struct {
	APIURL      string
	WebURL      string
	Storage     string
	StoragePath string
}

// Load loads configuration from the user config file and environment variables
func Load(o Overrides) (*Config, error) {
	uc, err := userconfig.Load()
	if err != nil {
		return nil, err
	}

	dir, err := userconfig.Dir()
	if err != nil {
		return nil, err
	}

	return FromUserConfig(uc, dir, o), nil
}

// FromUserConfig layers environment variables over the user config, and the
// overrides over both. configDir is where file based backends keep their
// data by default.
func FromUserConfig(uc *userconfig.UserConfig, configDir string, o Overrides) *Config {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	apiURL := firstNonEmpty(o.APIURL, os.Getenv("DEBTDESK_API_URL"), uc.APIURL, DefaultAPIURL)
	webURL := firstNonEmpty(o.WebURL, os.Getenv("DEBTDESK_WEB_URL"), uc.WebURL, apiURL)
	configured := firstNonEmpty(os.Getenv("DEBTDESK_STORAGE"), uc.Storage, DefaultStorage)
	backend := firstNonEmpty(o.Storage, configured)

	// A configured path belongs to the configured backend. Switching backends
	// on the command line falls back to the new backend's default file.
	storagePath := firstNonEmpty(o.StoragePath, os.Getenv("DEBTDESK_STORAGE_PATH"), uc.StoragePath)
	if o.StoragePath == "" && backend != configured {
		storagePath = ""
	}
	if storagePath == "" {
		storagePath = filepath.Join(configDir, defaultStorageFile(backend))
	}

	// Logging configuration - quiet by default, the CLI prints its own output
	logLevel := firstNonEmpty(os.Getenv("LOG_LEVEL"), "warn")
	logFormat := firstNonEmpty(os.Getenv("LOG_FORMAT"), "console")

	return &Config{
		API: APIConfig{
			URL: apiURL,
		},
		Web: WebConfig{
			URL: webURL,
		},
		Storage: StorageConfig{
			Backend:    backend,
			Path:       storagePath,
			Passphrase: os.Getenv("DEBTDESK_PASSPHRASE"),
		},
		Logging: LoggingConfig{
			Level:  logLevel,
			Format: logFormat,
		},
	}
}

func defaultStorageFile(backend string) string {
	switch backend {
	case "encrypted":
		return "session.sealed"
	case "sqlite":
		return "session.db"
	default:
		return "session.json"
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
