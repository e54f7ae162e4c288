package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/shanehull/unicabot/internal/notify"
	"github.com/shanehull/unicabot/internal/unica"
)

const (
	StorageJSON = "json"
	StorageBolt = "bolt"
)

// Default wait intervals. The debug long wait is used when Debug is set and
// no long wait was configured explicitly.
const (
	DefaultShortWait     = 5 * time.Second
	DefaultLongWait      = 600 * time.Second
	DefaultDebugLongWait = 10 * time.Second
)

// GeminiConfig enables AI blurbs on notifications.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Config is the top-level application configuration.
type Config struct {
	// DataDir holds subs.json and events.json (or unicabot.db).
	DataDir string `yaml:"data_dir"`

	// Storage selects the blob backend: "json" or "bolt".
	Storage string `yaml:"storage"`

	// PageURL is the scraped page and the base of event links.
	PageURL string `yaml:"page_url"`

	// Debug shortens the long wait and enables debug logging.
	Debug bool `yaml:"debug"`

	ShortWait time.Duration `yaml:"short_wait"`
	LongWait  time.Duration `yaml:"long_wait"`

	// Listen is the status API address; empty disables it.
	Listen string `yaml:"listen"`

	LogJSON bool `yaml:"log_json"`

	TelegramToken string `yaml:"telegram_token"`

	SMTP   notify.EmailConfig `yaml:"smtp"`
	Gemini GeminiConfig       `yaml:"gemini"`
}

// Default returns an in-memory default configuration.
func Default() *Config {
	return &Config{
		DataDir:   ".",
		Storage:   StorageJSON,
		PageURL:   unica.DefaultPageURL,
		ShortWait: DefaultShortWait,
		SMTP:      notify.EmailConfig{SMTPServer: "smtp.gmail.com", SMTPPort: 587},
	}
}

// Normalize fills in zero values and resolves the debug long wait.
func (c *Config) Normalize() {
	if c.DataDir == "" {
		c.DataDir = "."
	}
	switch c.Storage {
	case StorageJSON, StorageBolt:
	default:
		c.Storage = StorageJSON
	}
	if c.PageURL == "" {
		c.PageURL = unica.DefaultPageURL
	}
	if c.ShortWait <= 0 {
		c.ShortWait = DefaultShortWait
	}
	if c.LongWait <= 0 {
		if c.Debug {
			c.LongWait = DefaultDebugLongWait
		} else {
			c.LongWait = DefaultLongWait
		}
	}
	if c.SMTP.SMTPPort == 0 {
		c.SMTP.SMTPPort = 587
	}
	if c.SMTP.FromEmail == "" {
		c.SMTP.FromEmail = c.SMTP.SMTPUser
	}
}

// Validate reports settings the bot cannot run without.
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return errors.New("telegram token is required (TELEGRAM_BOT_TOKEN)")
	}
	return nil
}

// Load builds the configuration from defaults, the optional YAML file at
// path, a .env file in the working directory and the environment, in that
// order of precedence (later wins). Normalize is left to the caller so that
// flag overrides can be applied first.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("config file %s not found", path)
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	// A missing .env is normal outside development.
	_ = godotenv.Load()

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.DataDir, "UNICABOT_DATA_DIR")
	setString(&cfg.Storage, "UNICABOT_STORAGE")
	setString(&cfg.PageURL, "UNICABOT_PAGE_URL")
	setString(&cfg.Listen, "UNICABOT_LISTEN")
	setString(&cfg.TelegramToken, "TELEGRAM_BOT_TOKEN")
	setString(&cfg.SMTP.SMTPServer, "SMTP_SERVER")
	setString(&cfg.SMTP.SMTPUser, "SMTP_USER")
	setString(&cfg.SMTP.SMTPPass, "SMTP_PASS")
	setString(&cfg.SMTP.FromEmail, "SMTP_FROM")
	setString(&cfg.SMTP.ToEmail, "SMTP_TO")
	setString(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&cfg.Gemini.Model, "GEMINI_MODEL")

	if v := os.Getenv("SMTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SMTP_PORT %q: %w", v, err)
		}
		cfg.SMTP.SMTPPort = port
	}
	if v := os.Getenv("UNICABOT_DEBUG"); v != "" {
		cfg.Debug = parseBool(v)
	}
	if v := os.Getenv("UNICABOT_LOG_JSON"); v != "" {
		cfg.LogJSON = parseBool(v)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// parseBool accepts the usual spellings; anything else set is treated as on.
func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "0", "false", "no", "off":
		return false
	default:
		return true
	}
}
