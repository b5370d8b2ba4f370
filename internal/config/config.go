package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultServerURL          = "https://api.alquran.cloud/v1"
	DefaultRecitationEdition  = "ar.alafasy"
	DefaultTranslationEdition = "en.asad"
	DefaultSearchLanguage     = "en"
	DefaultAudioPlayer        = "mpv"
	configFileName            = "config"
	configFileType            = "yaml"
	configDirName             = "mushaf-t"
	envPrefix                 = "MUSHAF"
)

// Storage drivers
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type (
	// Config holds the application configuration
	Config struct {
		API
		Assembler
		Storage
		Log
		Audio

		// Path to config file (not persisted)
		path string
		v    *viper.Viper
	}

	API struct {
		ServerURL          string
		Timeout            time.Duration // 0 disables the per-request deadline
		RecitationEdition  string
		TranslationEdition string
		SearchLanguage     string
	}
	Assembler struct {
		StrictAlignment bool // reject mismatched text/translation sequences
	}
	Storage struct {
		Driver        string
		SQLitePath    string
		RedisAddr     string
		RedisPassword string
		RedisDB       int
	}
	Log struct {
		Level  string
		Pretty bool
		File   string
	}
	Audio struct {
		Player string
		Args   []string // empty means the player's built-in defaults
	}
)

// Load resolves configuration from defaults, an optional .env file, the config
// file in the user config dir and MUSHAF_* environment variables, in that
// order of increasing precedence.
func Load() (*Config, error) {
	dir, err := getConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(dir)
}

// LoadFrom is Load with an explicit config directory
func LoadFrom(dir string) (*Config, error) {
	// A missing .env is the normal case
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{
		API: API{
			ServerURL:          strings.TrimRight(v.GetString("api.base_url"), "/"),
			Timeout:            v.GetDuration("api.timeout"),
			RecitationEdition:  v.GetString("api.recitation_edition"),
			TranslationEdition: v.GetString("api.translation_edition"),
			SearchLanguage:     v.GetString("api.search_language"),
		},
		Assembler: Assembler{
			StrictAlignment: v.GetBool("assembler.strict_alignment"),
		},
		Storage: Storage{
			Driver:        v.GetString("storage.driver"),
			SQLitePath:    v.GetString("storage.sqlite_path"),
			RedisAddr:     v.GetString("storage.redis_addr"),
			RedisPassword: v.GetString("storage.redis_password"),
			RedisDB:       v.GetInt("storage.redis_db"),
		},
		Log: Log{
			Level:  v.GetString("log.level"),
			Pretty: v.GetBool("log.pretty"),
			File:   v.GetString("log.file"),
		},
		Audio: Audio{
			Player: v.GetString("audio.player"),
			Args:   v.GetStringSlice("audio.args"),
		},
		path: filepath.Join(dir, configFileName+"."+configFileType),
		v:    v,
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("api.base_url", DefaultServerURL)
	v.SetDefault("api.timeout", "0s")
	v.SetDefault("api.recitation_edition", DefaultRecitationEdition)
	v.SetDefault("api.translation_edition", DefaultTranslationEdition)
	v.SetDefault("api.search_language", DefaultSearchLanguage)

	v.SetDefault("assembler.strict_alignment", false)

	v.SetDefault("storage.driver", StorageSQLite)
	v.SetDefault("storage.sqlite_path", filepath.Join(dir, "mushaf.db"))
	v.SetDefault("storage.redis_addr", "localhost:6379")
	v.SetDefault("storage.redis_password", "")
	v.SetDefault("storage.redis_db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.file", filepath.Join(dir, "mushaf-t.log"))

	v.SetDefault("audio.player", DefaultAudioPlayer)
}

// Path returns the config file location
func (c *Config) Path() string {
	return c.path
}

// SetServerURL overrides the API base URL and saves it for future runs
func (c *Config) SetServerURL(url string) error {
	c.ServerURL = strings.TrimRight(url, "/")
	c.v.Set("api.base_url", c.ServerURL)
	return c.save(map[string]any{"api.base_url": c.ServerURL})
}

// save writes the given keys into the config file. Keys already in the file
// are kept; defaults and environment values are never written, so secrets
// passed through MUSHAF_* variables stay out of the file.
func (c *Config) save(values map[string]any) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return err
	}

	file := viper.New()
	file.SetConfigFile(c.path)
	file.SetConfigType(configFileType)
	if _, err := os.Stat(c.path); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return err
		}
	}
	for k, val := range values {
		file.Set(k, val)
	}
	return file.WriteConfigAs(c.path)
}

// getConfigDir returns the directory holding the config file
func getConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}

	return filepath.Join(configDir, configDirName), nil
}
