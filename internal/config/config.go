package config

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// AppDirName — имя каталога приложения внутри пользовательского конфиг‑каталога.
const AppDirName = "SecureMemo"

type Config struct {
	// Storage
	Home      string `env:"MEMO_HOME"`       // корень данных приложения
	StoreDir  string `env:"MEMO_STORE_DIR"`  // каталог разделов с заметками
	IndexPath string `env:"MEMO_INDEX_PATH"` // SQLite‑индекс разделов
	Password  string `env:"MEMO_PASSWORD"`   // пароль для неинтерактивного входа

	// Local API server
	BaseURL    string `env:"BASE_URL"`
	AuthSecret string `env:"AUTH_SECRET"`
	TokenFile  string `env:"TOKEN_FILE"`

	LogLevel string `env:"LOG_LEVEL"`
	Version  bool   `env:"-"` // show version and exit (flag only)

	// Derived
	CredentialFile string `env:"-"`
	SecretFile     string `env:"-"`
}

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	flag.StringVar(&cfg.Home, "home", cfg.Home, "data directory (default: <user config dir>/SecureMemo)")
	flag.StringVar(&cfg.StoreDir, "store", cfg.StoreDir, "directory with encrypted memo partitions")
	flag.StringVar(&cfg.IndexPath, "index", cfg.IndexPath, "path to partition index SQLite DB")
	flag.StringVar(&cfg.Password, "password", cfg.Password, "password (otherwise prompted)")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "listen address of the local API (host:port)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "where the local API token is written")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug|info|warn|error")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show version and exit")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.Home == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base, _ = os.UserHomeDir()
		}
		cfg.Home = filepath.Join(base, AppDirName)
	}
	if cfg.StoreDir == "" {
		cfg.StoreDir = filepath.Join(cfg.Home, "memos")
	}
	if cfg.IndexPath == "" {
		cfg.IndexPath = filepath.Join(cfg.Home, "index.sqlite")
	}
	if cfg.TokenFile == "" {
		cfg.TokenFile = filepath.Join(cfg.Home, ".memo_token")
	}
	cfg.CredentialFile = filepath.Join(cfg.Home, "pwd.hash")
	cfg.SecretFile = filepath.Join(cfg.Home, "api.enc")

	// без AUTH_SECRET ключ подписи свой на каждый запуск: токен всё равно выпускается заново
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = randomSecret()
	}
	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
		cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	default:
		cfg.LogLevel = "info"
	}
}

// randomSecret — 32 случайных байта в hex.
func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand: %v", err))
	}
	return hex.EncodeToString(b)
}
