package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Server struct {
		HTTPPort       string        `mapstructure:"HTTPPort"`
		Timeout        time.Duration `mapstructure:"HTTPTimeout"`
		AllowedOrigins []string      `mapstructure:"allowedOrigins"`
	} `mapstructure:"server"`
	Generation Generation `mapstructure:"generation"`
}

// Generation configures the generative service and the pipeline around it.
type Generation struct {
	Provider     string        `mapstructure:"provider"`
	Model        string        `mapstructure:"model"`
	Temperature  float32       `mapstructure:"temperature"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxAttempts  int           `mapstructure:"maxAttempts"`
	RetryBackoff time.Duration `mapstructure:"retryBackoff"`
	APIKey       string        `mapstructure:"apiKey"`
	BaseURL      string        `mapstructure:"baseURL"`
}

// credentialEnv lists the provider-native variables read for generation.apiKey
// when TRIPPLANNER_GENERATION_APIKEY is not set.
var credentialEnv = map[string]string{
	"gemini": "GOOGLE_GEMINI_API_KEY",
	"openai": "OPENAI_API_KEY",
}

func InitConfig() (Config, error) {
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")
	v.AddConfigPath("/usr/local/bin")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}
	return load(v)
}

// load applies the environment overrides and decodes v.
func load(v *viper.Viper) (Config, error) {
	v.SetEnvPrefix("TRIPPLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{
		"mode", "server.HTTPPort", "server.HTTPTimeout", "handlers.prometheus.port",
		"generation.provider", "generation.model", "generation.temperature",
		"generation.timeout", "generation.maxAttempts", "generation.retryBackoff",
		"generation.apiKey", "generation.baseURL",
	} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}

	if config.Generation.APIKey == "" {
		provider := strings.ToLower(config.Generation.Provider)
		if provider == "" {
			provider = "gemini"
		}
		if name, ok := credentialEnv[provider]; ok {
			env := viper.New()
			if err := env.BindEnv("key", name); err != nil {
				return Config{}, fmt.Errorf("failed to bind %s: %w", name, err)
			}
			config.Generation.APIKey = env.GetString("key")
		}
	}
	return config, nil
}
