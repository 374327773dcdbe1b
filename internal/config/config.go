package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingToken = errors.New("please set the BOT_TOKEN environment variable")

type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Handler   HandlerConfig   `mapstructure:"handler"`
	Converter ConverterConfig `mapstructure:"converter"`
	Download  DownloadConfig  `mapstructure:"download"`
	Log       LogConfig       `mapstructure:"log"`
}

type TelegramConfig struct {
	BotToken       string  `mapstructure:"bot_token"`
	AllowedChatIDs []int64 `mapstructure:"allowed_chat_ids"`
	AdminUsername  string  `mapstructure:"admin_username"`
}

type HTTPConfig struct {
	Port int `mapstructure:"port"`
}

type MetricsConfig struct {
	// Listen is the address of the metrics listener; empty disables it.
	Listen string `mapstructure:"listen"`
}

type HandlerConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxConcurrent int           `mapstructure:"max_concurrent"`
}

type ConverterConfig struct {
	Backend       string `mapstructure:"backend"`
	MaxFileSizeMB int    `mapstructure:"max_file_size_mb"`
	MaxPixels     int    `mapstructure:"max_pixels"`
}

type DownloadConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	BackendWebP   = "webp"
	BackendMagick = "magick"
)

// MaxFileSize returns the document size limit in bytes.
func (c ConverterConfig) MaxFileSize() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}

func (c HTTPConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("telegram.allowed_chat_ids", []int64{})
	v.SetDefault("telegram.admin_username", "")
	v.SetDefault("http.port", 10000)
	v.SetDefault("metrics.listen", "")
	v.SetDefault("handler.timeout", "2m")
	v.SetDefault("handler.max_concurrent", 4)
	v.SetDefault("converter.backend", BackendWebP)
	v.SetDefault("converter.max_file_size_mb", 20)
	v.SetDefault("converter.max_pixels", 100_000_000)
	v.SetDefault("download.timeout", "1m")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads configuration from an optional TOML file and the environment. An empty path looks
// for config.toml in the working directory and carries on without it. BOT_TOKEN and PORT are
// honoured as-is, every other key can be set as WEBPBOT_<SECTION>_<KEY>.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix("webpbot")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("telegram.bot_token", "BOT_TOKEN", "WEBPBOT_TELEGRAM_BOT_TOKEN"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("http.port", "PORT", "WEBPBOT_HTTP_PORT"); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("toml")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("could not read config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings needed to run the bot.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.BotToken) == "" {
		return ErrMissingToken
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port %d", c.HTTP.Port)
	}

	if c.Handler.Timeout <= 0 {
		return fmt.Errorf("invalid handler timeout %s", c.Handler.Timeout)
	}

	if c.Converter.MaxFileSizeMB <= 0 {
		return fmt.Errorf("invalid max file size %d MB", c.Converter.MaxFileSizeMB)
	}

	switch c.Converter.Backend {
	case BackendWebP, BackendMagick:
	default:
		return fmt.Errorf("unknown converter backend %q", c.Converter.Backend)
	}

	return nil
}
