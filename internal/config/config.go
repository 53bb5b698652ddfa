package config

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Upload   UploadConfig
	MongoDB  MongoDBConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	Mode         string
	AllowedHosts []string
}

// AuthConfig holds the operator access gate configuration.
// An empty AccessCode disables the gate.
type AuthConfig struct {
	AccessCode         string
	JWTSecret          string
	SessionTTLMinutes  int
	LoginRatePerMinute int
}

// StorageConfig holds the locations of the files the draw engine writes
type StorageConfig struct {
	DataDir       string
	LimitsFile    string
	DrawLogFile   string
	DeleteLogFile string
	UploadDir     string
}

// UploadConfig holds roster upload restrictions
type UploadConfig struct {
	AllowedExtensions []string
	MaxBytes          int64
}

// MongoDBConfig holds the optional audit mirror configuration.
// The mirror is disabled when URI is empty.
type MongoDBConfig struct {
	URI             string
	Database        string
	AuditCollection string
	BufferSize      int
}

// Load loads configuration from a .env file, environment variables and an
// optional config file. Environment variables use underscores for nesting,
// e.g. AUTH_ACCESSCODE or STORAGE_DATADIR.
func Load(configPath string) (*Config, error) {
	// A missing .env is fine, the real environment still applies
	_ = godotenv.Load()

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	config.Storage.resolve()
	config.Upload.normalize()

	return &config, nil
}

// setDefaults sets default values for configuration.
// Every key needs a default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "5000")
	v.SetDefault("Server.Mode", "release")
	v.SetDefault("Server.AllowedHosts", []string{"*"})
	v.SetDefault("Auth.AccessCode", "")
	v.SetDefault("Auth.JWTSecret", "")
	v.SetDefault("Auth.SessionTTLMinutes", 12*60)
	v.SetDefault("Auth.LoginRatePerMinute", 10)
	v.SetDefault("Storage.DataDir", "data")
	v.SetDefault("Storage.LimitsFile", "gift_limits.json")
	v.SetDefault("Storage.DrawLogFile", "draw_log.csv")
	v.SetDefault("Storage.DeleteLogFile", "delete_log.csv")
	v.SetDefault("Storage.UploadDir", "uploads")
	v.SetDefault("Upload.AllowedExtensions", []string{"xlsx", "csv"})
	v.SetDefault("Upload.MaxBytes", 10<<20)
	v.SetDefault("MongoDB.URI", "")
	v.SetDefault("MongoDB.Database", "bridgetunes-raffle")
	v.SetDefault("MongoDB.AuditCollection", "draw_audit")
	v.SetDefault("MongoDB.BufferSize", 256)
	v.SetDefault("LogLevel", "info")
}

// resolve places relative file names under DataDir
func (s *StorageConfig) resolve() {
	join := func(name string) string {
		if name == "" || filepath.IsAbs(name) {
			return name
		}
		return filepath.Join(s.DataDir, name)
	}
	s.LimitsFile = join(s.LimitsFile)
	s.DrawLogFile = join(s.DrawLogFile)
	s.DeleteLogFile = join(s.DeleteLogFile)
	s.UploadDir = join(s.UploadDir)
}

func (u *UploadConfig) normalize() {
	exts := make([]string, 0, len(u.AllowedExtensions))
	for _, raw := range u.AllowedExtensions {
		// env values arrive as one comma separated string
		for _, ext := range strings.Split(raw, ",") {
			ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
			if ext != "" {
				exts = append(exts, ext)
			}
		}
	}
	u.AllowedExtensions = exts
}
