package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// #region options

// Options tunes how replies are built.
type Options struct {
	MaxDepth             int  `yaml:"max_depth" json:"max_depth"`                           // turns to hold a sticky topic
	QuoteItems           bool `yaml:"quote_items" json:"quote_items"`                       // wrap user items in quotes
	RemoveStopWords      bool `yaml:"remove_stop_words" json:"remove_stop_words"`           // drop stop words when tokenizing
	TrimFirstConnective  bool `yaml:"trim_first_connective" json:"trim_first_connective"`   // no "and " on the reflection
	TrimSecondConnective bool `yaml:"trim_second_connective" json:"trim_second_connective"` // no "and " on the question
}

// DefaultOptions returns the stock coaching options.
func DefaultOptions() Options {
	return Options{MaxDepth: 3, QuoteItems: true}
}

// Validate rejects options the engine cannot run with.
func (o Options) Validate() error {
	if o.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be >= 1, got %d", o.MaxDepth)
	}
	return nil
}

// #endregion options

// #region config

// Config is the process configuration shared by every front end.
type Config struct {
	Name        string   `yaml:"name"`
	DBPath      string   `yaml:"db_path"`
	DatabaseURL string   `yaml:"database_url"` // postgres; takes precedence over DBPath
	CodecAddr   string   `yaml:"codec_addr"`   // NLP sidecar; empty uses the in-process tagger
	NatsURL     string   `yaml:"nats_url"`
	NatsToken   string   `yaml:"nats_token"`
	Port        int      `yaml:"port"`
	LogLevel    string   `yaml:"log_level"`
	Seed        uint64   `yaml:"seed"` // 0 draws a random seed
	BankPath    string   `yaml:"bank_path"`
	DangerWords []string `yaml:"danger_words"`
	QuitWords   []string `yaml:"quit_words"`
	Options     Options  `yaml:"options"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Name:     "Clive",
		DBPath:   "clive.db",
		Port:     8080,
		LogLevel: "info",
		Options:  DefaultOptions(),
	}
}

// Load layers configuration: defaults, then the YAML file at path (if it
// exists), then a .env file in the working directory, then CLIVE_*
// environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	// A missing .env is normal.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if err := c.Options.Validate(); err != nil {
		return fmt.Errorf("options: %w", err)
	}
	if c.DBPath == "" && c.DatabaseURL == "" {
		return errors.New("one of db_path or database_url is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	return nil
}

// #endregion config

// #region env

func (c *Config) applyEnv() error {
	c.Name = envOr("CLIVE_NAME", c.Name)
	c.DBPath = envOr("CLIVE_DB", c.DBPath)
	c.DatabaseURL = envOr("CLIVE_DATABASE_URL", c.DatabaseURL)
	c.CodecAddr = envOr("CLIVE_CODEC_ADDR", c.CodecAddr)
	c.NatsURL = envOr("CLIVE_NATS_URL", c.NatsURL)
	c.NatsToken = envOr("CLIVE_NATS_TOKEN", c.NatsToken)
	c.LogLevel = envOr("CLIVE_LOG_LEVEL", c.LogLevel)
	c.BankPath = envOr("CLIVE_BANK", c.BankPath)
	c.DangerWords = envList("CLIVE_DANGER_WORDS", c.DangerWords)
	c.QuitWords = envList("CLIVE_QUIT_WORDS", c.QuitWords)

	var err error
	if c.Port, err = envInt("CLIVE_PORT", c.Port); err != nil {
		return err
	}
	if c.Options.MaxDepth, err = envInt("CLIVE_MAX_DEPTH", c.Options.MaxDepth); err != nil {
		return err
	}
	if v := os.Getenv("CLIVE_SEED"); v != "" {
		seed, perr := strconv.ParseUint(v, 10, 64)
		if perr != nil {
			return fmt.Errorf("CLIVE_SEED: %w", perr)
		}
		c.Seed = seed
	}
	for key, dst := range map[string]*bool{
		"CLIVE_QUOTE_ITEMS":            &c.Options.QuoteItems,
		"CLIVE_REMOVE_STOP_WORDS":      &c.Options.RemoveStopWords,
		"CLIVE_TRIM_FIRST_CONNECTIVE":  &c.Options.TrimFirstConnective,
		"CLIVE_TRIM_SECOND_CONNECTIVE": &c.Options.TrimSecondConnective,
	} {
		if *dst, err = envBool(key, *dst); err != nil {
			return err
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// #endregion env
