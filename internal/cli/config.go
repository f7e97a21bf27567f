package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key read from the environment
const EnvPrefix = "PHRASEMEMO"

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// .env is optional; variables already set win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
	}

	setDefaults()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}

		// Search config in home and working directory with name ".phrasememo" (without extension)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".phrasememo")
	}

	// Environment variables: PHRASEMEMO_STORE_BACKEND sets store.backend
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults() {
	viper.SetDefault("provider", "openai")
	viper.SetDefault("openai.model", "gpt-4-1106-preview")
	viper.SetDefault("gemini.model", "gemini-2.5-flash")
	viper.SetDefault("request_timeout", 60*time.Second)
	viper.SetDefault("prompt.file", "chat_gpt_prompt.json")
	viper.SetDefault("prompt.cache_size", 512)
	viper.SetDefault("store.backend", "file")
	viper.SetDefault("store.path", "translations.json")
	viper.SetDefault("store.s3.region", "us-east-1")
	viper.SetDefault("store.s3.object", "translations.json")
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", 90*time.Second)
	viper.SetDefault("server.shutdown_timeout", 30*time.Second)
	viper.SetDefault("batch.concurrency", 4)
	viper.SetDefault("archive.dir", "archive")
	viper.SetDefault("breaker.failures", 5)
	viper.SetDefault("breaker.timeout", 30*time.Second)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("openai.api_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("gemini.api_key")
}
