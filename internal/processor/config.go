package processor

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/phrasememo/internal/server"
	"codeberg.org/snonux/phrasememo/internal/store"
)

// ProviderConfig configures one translation API
type ProviderConfig struct {
	Model    string
	BaseURL  string
	APIKey   string
	KeysFile string
}

// Config holds every setting the processor needs
type Config struct {
	Provider       string
	OpenAI         ProviderConfig
	Gemini         ProviderConfig
	RequestTimeout time.Duration

	BreakerFailures uint32
	BreakerTimeout  time.Duration

	PromptFile      string
	PromptCacheSize int

	Store  store.Config
	Server server.Config

	BatchConcurrency int
	ArchiveDir       string

	LogLevel  string
	LogFormat string
}

// ConfigFromViper reads Config from viper. openAIKey and geminiKey are the
// keys found in the environment.
func ConfigFromViper(openAIKey, geminiKey string) Config {
	cfg := Config{
		Provider: strings.ToLower(viper.GetString("provider")),
		OpenAI: ProviderConfig{
			Model:    viper.GetString("openai.model"),
			BaseURL:  viper.GetString("openai.base_url"),
			APIKey:   openAIKey,
			KeysFile: viper.GetString("openai.keys_file"),
		},
		Gemini: ProviderConfig{
			Model:    viper.GetString("gemini.model"),
			BaseURL:  viper.GetString("gemini.base_url"),
			APIKey:   geminiKey,
			KeysFile: viper.GetString("gemini.keys_file"),
		},
		RequestTimeout:  viper.GetDuration("request_timeout"),
		BreakerFailures: viper.GetUint32("breaker.failures"),
		BreakerTimeout:  viper.GetDuration("breaker.timeout"),
		PromptFile:      viper.GetString("prompt.file"),
		PromptCacheSize: viper.GetInt("prompt.cache_size"),
		Store: store.Config{
			Backend: viper.GetString("store.backend"),
			Path:    viper.GetString("store.path"),
			DSN:     viper.GetString("store.dsn"),
			S3: store.S3Config{
				Endpoint:  viper.GetString("store.s3.endpoint"),
				Region:    viper.GetString("store.s3.region"),
				AccessKey: viper.GetString("store.s3.access_key"),
				SecretKey: viper.GetString("store.s3.secret_key"),
				Bucket:    viper.GetString("store.s3.bucket"),
				Object:    viper.GetString("store.s3.object"),
				UseSSL:    viper.GetBool("store.s3.use_ssl"),
			},
		},
		Server: server.Config{
			Addr:            viper.GetString("server.addr"),
			ReadTimeout:     viper.GetDuration("server.read_timeout"),
			WriteTimeout:    viper.GetDuration("server.write_timeout"),
			ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
		},
		BatchConcurrency: viper.GetInt("batch.concurrency"),
		ArchiveDir:       viper.GetString("archive.dir"),
		LogLevel:         viper.GetString("log.level"),
		LogFormat:        viper.GetString("log.format"),
	}

	// --model applies to whichever provider is selected
	if model := viper.GetString("model"); model != "" {
		if cfg.Provider == "gemini" {
			cfg.Gemini.Model = model
		} else {
			cfg.OpenAI.Model = model
		}
	}
	return cfg
}

// NewLogger builds the root logger from a level and a format (text or json)
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
